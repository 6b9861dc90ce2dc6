package mima_test

import (
	"testing"

	"github.com/mima-project/mima/internal/memory"
	"github.com/mima-project/mima/internal/microasm"
	"github.com/mima-project/mima/internal/mima"
)

const decoderSource = `
!cm(default)

fetch:  IAR -> SAR; R = 1
        IAR -> X; R = 1
        ONE -> Y; ALU = ADD; R = 1
        Z -> IAR
        SDR -> IR

!cm(conditional, op_code, 255)

decode: [0,max] #halt
        [0,15] #ldc
        [16,31] #ldv
        [32,47] #stv
        [48,63] #add

!cm(default)

ldc:    IR -> ACCU; #fetch

ldv:    IR -> SAR; R = 1
        R = 1
        R = 1
        SDR -> ACCU; #fetch

stv:    IR -> SAR
        ACCU -> SDR; W = 1
        W = 1
        W = 1; #fetch

add:    IR -> SAR; R = 1
        R = 1
        R = 1
        ACCU -> X
        SDR -> Y; ALU = ADD
        Z -> ACCU; #fetch
`

func TestLoadConstantThenUnknownOpcodeHalts(t *testing.T) {
	decoder, warnings, err := microasm.Compile(decoderSource, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	mem := memory.New()
	mem.Set(0, 0x0000FF) // LDC 0xFF (op_code 0x00)
	mem.Set(1, 0x400000) // unassigned op_code 0x40, decode sends it straight to halt

	m := mima.New(decoder, mem, nil)
	m.EmulateLifeTime()

	if m.Running() {
		t.Fatal("machine did not halt")
	}
	if m.Accumulator() != 0xFF {
		t.Fatalf("Accumulator() = 0x%X, want 0xFF", m.Accumulator())
	}
	if m.InstructionAddress() != 2 {
		t.Fatalf("InstructionAddress() = %d, want 2", m.InstructionAddress())
	}
}

func TestStoreThenLoadRoundTrips(t *testing.T) {
	decoder, _, err := microasm.Compile(decoderSource, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	mem := memory.New()
	mem.Set(0, 0x0000AB)   // LDC 0xAB
	mem.Set(1, 0x200005)   // STV 5
	mem.Set(2, 0x0000CD)   // LDC 0xCD (overwrite ACC so the next load proves the round trip)
	mem.Set(3, 0x100005)   // LDV 5
	mem.Set(4, 0x400000)   // halt

	m := mima.New(decoder, mem, nil)
	m.EmulateLifeTime()

	if m.Running() {
		t.Fatal("machine did not halt")
	}
	if got := mem.Get(5); got != 0xAB {
		t.Fatalf("memory[5] = 0x%X, want 0xAB", got)
	}
	if m.Accumulator() != 0xAB {
		t.Fatalf("Accumulator() = 0x%X, want 0xAB (reloaded from memory[5])", m.Accumulator())
	}
}

func TestAddAccumulatesMemoryOperand(t *testing.T) {
	decoder, _, err := microasm.Compile(decoderSource, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	mem := memory.New()
	mem.Set(0, 0x0000_05) // LDC 5
	mem.Set(1, 0x10_0004) // LDV 4
	mem.Set(4, 0x000007)  // operand for LDV: value 7
	mem.Set(2, 0x300004)  // ADD memory[4] (7) -> ACC = 7+7 = 14
	mem.Set(3, 0x400000)  // halt

	m := mima.New(decoder, mem, nil)
	m.EmulateLifeTime()

	if m.Running() {
		t.Fatal("machine did not halt")
	}
	if m.Accumulator() != 14 {
		t.Fatalf("Accumulator() = %d after LDV 4; ADD 4, want 14 (7+7)", m.Accumulator())
	}
}
