package mima

import (
	"testing"

	"github.com/mima-project/mima/internal/memory"
	"github.com/mima-project/mima/internal/microprog"
	"github.com/mima-project/mima/internal/word"
)

func TestAluResults(t *testing.T) {
	cases := []struct {
		op       uint8
		x, y, ok uint32
	}{
		{word.AluPass, 5, 9, 5},
		{word.AluAdd, 5, 9, 14},
		{word.AluAnd, 0xFF, 0x0F, 0x0F},
		{word.AluOr, 0xF0, 0x0F, 0xFF},
		{word.AluXor, 0xFF, 0x0F, 0xF0},
		{word.AluNot, 0, 0, dataMask},
		{word.AluEqual, 7, 7, dataMask},
		{word.AluEqual, 7, 8, 0},
		{word.AluRor, 1, 0, 1 << 23},
	}
	for _, c := range cases {
		got := aluResult(c.op, c.x, c.y) & dataMask
		if got != c.ok&dataMask {
			t.Errorf("aluResult(%d, %d, %d) = 0x%X, want 0x%X", c.op, c.x, c.y, got, c.ok)
		}
	}
}

// buildWriteProgram returns a 5-cell microprogram that parks address 1 in
// SAR, writes the constant 1 to it over three consecutive cycles, then
// self-loops to halt.
func buildWriteProgram() *microprog.MicroProgram {
	mp := microprog.New()
	mp.Cell(0).ApplyAll(func(w word.MicroInstrWord) word.MicroInstrWord {
		return w.SetOneToBus(true).SetSarFromBus(true).SetNextAddr(1)
	})
	mp.Cell(1).ApplyAll(func(w word.MicroInstrWord) word.MicroInstrWord {
		return w.SetOneToBus(true).SetSdrFromBus(true).SetMemWrite(true).SetNextAddr(2)
	})
	mp.Cell(2).ApplyAll(func(w word.MicroInstrWord) word.MicroInstrWord {
		return w.SetMemWrite(true).SetNextAddr(3)
	})
	mp.Cell(3).ApplyAll(func(w word.MicroInstrWord) word.MicroInstrWord {
		return w.SetMemWrite(true).SetNextAddr(4)
	})
	mp.Cell(4).ApplyAll(func(w word.MicroInstrWord) word.MicroInstrWord {
		return w.SetNextAddr(4)
	})
	return mp
}

func TestMemoryPortCommitsOnThirdWriteCycle(t *testing.T) {
	mp := buildWriteProgram()
	mem := memory.New()
	m := New(mp, mem, nil)

	m.EmulateClockCycle() // cell 0: SAR <- 1
	if m.StorageAddress() != 1 {
		t.Fatalf("SAR = %d, want 1", m.StorageAddress())
	}
	if mem.Get(1) != 0 {
		t.Fatalf("memory[1] committed too early: 0x%X", mem.Get(1))
	}

	m.EmulateClockCycle() // cell 1: first write cycle
	if mem.Get(1) != 0 {
		t.Fatalf("memory[1] committed after one write cycle: 0x%X", mem.Get(1))
	}
	m.EmulateClockCycle() // cell 2: second write cycle
	if mem.Get(1) != 0 {
		t.Fatalf("memory[1] committed after two write cycles: 0x%X", mem.Get(1))
	}
	m.EmulateClockCycle() // cell 3: third write cycle, commits
	if mem.Get(1) != 1 {
		t.Fatalf("memory[1] = 0x%X after third write cycle, want 1", mem.Get(1))
	}

	m.EmulateClockCycle() // cell 4: self-loop, halts
	if m.Running() {
		t.Fatal("machine still running after self-loop cell")
	}
}

func TestEmulateLifeTimeStopsAtSelfLoop(t *testing.T) {
	mp := microprog.New() // New() wires only HaltAddr; every other cell, cell 0 included, has NextAddr 0.
	mem := memory.New()
	m := New(mp, mem, nil)
	// Cell 0 defaults to NextAddr 0: a self-loop from the very first cycle.
	m.EmulateLifeTime()
	if m.Running() {
		t.Fatal("expected machine to halt immediately on a self-looping cell 0")
	}
	if m.Cycles() != 1 {
		t.Fatalf("Cycles() = %d, want 1", m.Cycles())
	}
}

func TestMultipleBusDriversOrMerge(t *testing.T) {
	mp := microprog.New()
	mp.Cell(0).ApplyAll(func(w word.MicroInstrWord) word.MicroInstrWord {
		return w.SetOneToBus(true).SetAccToBus(true).SetSarFromBus(true).SetNextAddr(1)
	})
	mp.Cell(1).ApplyAll(func(w word.MicroInstrWord) word.MicroInstrWord {
		return w.SetNextAddr(1)
	})
	m := New(mp, memory.New(), nil)
	m.LoadAccumulator(6)
	m.EmulateClockCycle()
	if !m.Running() {
		t.Fatal("multiple bus drivers should not halt the machine")
	}
	if got, want := m.StorageAddress(), uint32(1|6); got != want {
		t.Fatalf("StorageAddress() = %d, want %d (ONE->BUS | ACCU->BUS)", got, want)
	}
}
