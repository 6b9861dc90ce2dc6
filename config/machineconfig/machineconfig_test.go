package machineconfig

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newReader(s string) *strings.Reader { return strings.NewReader(s) }

func TestParseBasic(t *testing.T) {
	src := "decoder = testdata/decoder.mu\nmemory = testdata/prog.mem\n# a comment\nlog = run.log\n"
	cfg, err := parse(newReader(src), "test")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Config{Decoder: "testdata/decoder.mu", Memory: "testdata/prog.mem", Log: "run.log"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingDecoderIsError(t *testing.T) {
	_, err := parse(newReader("log = run.log\n"), "test")
	if err == nil {
		t.Fatal("expected error for missing decoder key")
	}
}

func TestUnknownKeyIsError(t *testing.T) {
	_, err := parse(newReader("bogus = 1\n"), "test")
	if err == nil {
		t.Fatal("expected error for unrecognized key")
	}
}
