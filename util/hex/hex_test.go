package hex

import (
	"strings"
	"testing"
)

func TestFormatData(t *testing.T) {
	var b strings.Builder
	FormatData(&b, 0xABCDEF)
	if got := b.String(); got != "ABCDEF" {
		t.Fatalf("FormatData = %q, want ABCDEF", got)
	}
}

func TestFormatAddr(t *testing.T) {
	var b strings.Builder
	FormatAddr(&b, 0x1234)
	if got := b.String(); got != "01234" {
		t.Fatalf("FormatAddr = %q, want 01234", got)
	}
}

func TestFormatMicroAddr(t *testing.T) {
	var b strings.Builder
	FormatMicroAddr(&b, 0xFF)
	if got := b.String(); got != "FF" {
		t.Fatalf("FormatMicroAddr = %q, want FF", got)
	}
}

func TestFormatCondValueZero(t *testing.T) {
	var b strings.Builder
	FormatCondValue(&b, 0)
	if got := b.String(); got != "0" {
		t.Fatalf("FormatCondValue(0) = %q, want 0", got)
	}
}

func TestFormatCondValueNonZero(t *testing.T) {
	var b strings.Builder
	FormatCondValue(&b, 0x2A)
	if got := b.String(); got != "2A" {
		t.Fatalf("FormatCondValue(0x2A) = %q, want 2A", got)
	}
}
