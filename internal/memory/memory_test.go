package memory

import "testing"

func TestUnmappedReadsZero(t *testing.T) {
	m := New()
	if got := m.Get(0x12345); got != 0 {
		t.Fatalf("unmapped Get = 0x%X, want 0", got)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	m := New()
	m.Set(0x20, 0x0000AA)
	if got := m.Get(0x20); got != 0x0000AA {
		t.Fatalf("Get(0x20) = 0x%X, want 0xAA", got)
	}
}

func TestAddressAndWordMasking(t *testing.T) {
	m := New()
	m.Set(0x100000|0x30, 0xFFFFFFFF) // extra high bits on both address and value
	if got := m.Get(0x30); got != WordMask {
		t.Fatalf("Get(0x30) = 0x%X, want 0x%X", got, WordMask)
	}
}

func TestTaggedRoundTrip(t *testing.T) {
	m := New()
	m.SetTagged(5, 0x1234, 7)
	w := m.GetTagged(5)
	if w.Value != 0x1234 || w.Tag != 7 {
		t.Fatalf("GetTagged(5) = %+v, want {0x1234 7}", w)
	}
}
