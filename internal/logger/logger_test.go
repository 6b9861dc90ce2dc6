package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandleWritesToFileNotStderr(t *testing.T) {
	var buf bytes.Buffer
	h := New(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false)
	log := slog.New(h)

	log.Info("hello", "key", "value")

	got := buf.String()
	if !strings.Contains(got, "hello") || !strings.Contains(got, "key=value") {
		t.Fatalf("log file missing expected content: %q", got)
	}
}

func TestWithAttrsPreservesOutAndDebug(t *testing.T) {
	var buf bytes.Buffer
	h := New(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, true)

	withAttrs := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).(*Handler)
	if withAttrs.out != &buf {
		t.Fatal("WithAttrs dropped the file target")
	}
	if !withAttrs.debug {
		t.Fatal("WithAttrs dropped the debug flag")
	}

	withGroup := h.WithGroup("g").(*Handler)
	if withGroup.out != &buf {
		t.Fatal("WithGroup dropped the file target")
	}
	if !withGroup.debug {
		t.Fatal("WithGroup dropped the debug flag")
	}
}

func TestSetDebugTogglesFlag(t *testing.T) {
	h := New(nil, nil, false)
	if h.debug {
		t.Fatal("expected debug to start false")
	}
	h.SetDebug(true)
	if !h.debug {
		t.Fatal("SetDebug(true) did not take effect")
	}
}
