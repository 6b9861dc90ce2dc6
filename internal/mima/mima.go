/*
 * mima - Minimal Machine datapath and clock
 *
 * Copyright 2026
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package mima is the cycle-accurate interpreter for the Minimal Machine
// datapath: the register file, the single 24-bit bus, the ALU, and the
// three-cycle main memory port, driven one clock cycle at a time by a
// microprog.MicroProgram.
package mima

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mima-project/mima/internal/memory"
	"github.com/mima-project/mima/internal/microprog"
	"github.com/mima-project/mima/internal/word"
	"github.com/mima-project/mima/util/hex"
)

const (
	dataMask = memory.WordMask // 24-bit data word
	addrMask = memory.AddrMask // 20-bit address
)

// portDirection is the direction the memory port last observed asserted.
type portDirection uint8

const (
	portIdle portDirection = iota
	portRead
	portWrite
)

// memoryPort tracks the three-cycle commit state machine: R or W must stay
// asserted at the same address for three consecutive cycles before the
// access actually happens against main memory.
type memoryPort struct {
	dir   portDirection
	addr  uint32
	steps int
}

// Machine is the MiMa datapath: registers, ALU, memory port, and the
// microprogram driving them.
type Machine struct {
	acc uint32 // 24-bit accumulator
	iar uint32 // 20-bit instruction address register
	ir  uint32 // 24-bit instruction register
	x   uint32 // 24-bit ALU operand
	y   uint32 // 24-bit ALU operand
	z   uint32 // 24-bit ALU result, registered
	sar uint32 // 20-bit storage address register
	sdr uint32 // 24-bit storage data register

	decoder *microprog.MicroProgram
	mem     *memory.Memory
	log     *slog.Logger

	running      bool
	decoderState uint8
	port         memoryPort

	cycles int64 // clock cycles executed so far, diagnostic only
}

// New returns a Machine wired to decoder and mem, with every register zero
// and decoderState at the microprogram's entry cell (address 0).
func New(decoder *microprog.MicroProgram, mem *memory.Memory, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		decoder: decoder,
		mem:     mem,
		log:     log,
		running: true,
	}
}

// Running reports whether the machine has not yet reached a self-looping
// microprogram cell.
func (m *Machine) Running() bool { return m.running }

// Cycles reports how many clock cycles have been emulated.
func (m *Machine) Cycles() int64 { return m.cycles }

// statusMap builds the conditional-decode status values visible to the
// microprogram this cycle: the instruction's opcode field and the sign of
// the accumulator.
func (m *Machine) statusMap() map[string]uint16 {
	return map[string]uint16{
		"op_code":              uint16((m.ir >> 16) & 0xFF),
		"accumulator_negative": uint16((m.acc >> 23) & 1),
	}
}

// EmulateClockCycle runs the six phases of one clock cycle: fetch the
// current microword, drive the bus, load the bus into any destination
// register, evaluate the ALU, step the memory port, and compute the next
// microprogram address. It is a no-op once the machine has halted.
func (m *Machine) EmulateClockCycle() {
	if !m.running {
		return
	}

	w := m.decoder.Get(m.decoderState, m.statusMap())

	bus := m.busWrite(w)
	m.busRead(w, bus)
	m.aluEval(w)
	m.stepMemoryPort(w)

	next := w.NextAddr()
	m.cycles++
	if next == m.decoderState {
		m.running = false
		return
	}
	m.decoderState = next
}

// EmulateInstructionCycle runs clock cycles until the machine returns to
// the microprogram's entry cell (address 0, the start of fetch) having left
// it at least once, or halts first.
func (m *Machine) EmulateInstructionCycle() {
	if !m.running {
		return
	}
	m.EmulateClockCycle()
	for m.running && m.decoderState != 0 {
		m.EmulateClockCycle()
	}
}

// EmulateLifeTime runs the machine to completion (until it self-loops).
func (m *Machine) EmulateLifeTime() {
	for m.running {
		m.EmulateClockCycle()
	}
}

// busWrite computes the value driven onto the bus this cycle: every register
// whose ->BUS bit is set OR-merges its value onto the bus. More than one
// driver asserted at once is not an error (e.g. ONE->BUS combining with a
// register as part of an increment); the bus simply carries their bitwise OR.
func (m *Machine) busWrite(w word.MicroInstrWord) uint32 {
	var bus uint32
	if w.IrToBus() {
		bus |= m.ir
	}
	if w.IarToBus() {
		bus |= m.iar
	}
	if w.OneToBus() {
		bus |= 1
	}
	if w.ZToBus() {
		bus |= m.z
	}
	if w.AccToBus() {
		bus |= m.acc
	}
	if w.SdrToBus() {
		bus |= m.sdr
	}
	return bus & dataMask
}

// busRead loads bus into every register whose <-BUS bit is set.
func (m *Machine) busRead(w word.MicroInstrWord, bus uint32) {
	if w.SarFromBus() {
		m.sar = bus & addrMask
	}
	if w.SdrFromBus() {
		m.sdr = bus & dataMask
	}
	if w.IrFromBus() {
		m.ir = bus & dataMask
	}
	if w.IarFromBus() {
		m.iar = bus & addrMask
	}
	if w.XFromBus() {
		m.x = bus & dataMask
	}
	if w.YFromBus() {
		m.y = bus & dataMask
	}
	if w.AccFromBus() {
		m.acc = bus & dataMask
	}
}

// aluEval recomputes Z from the (possibly just-loaded) X and Y registers.
// Z is itself a register: a cycle that asserts Z->BUS drives the value Z
// took on during the previous cycle's evaluation, not this one's.
func (m *Machine) aluEval(w word.MicroInstrWord) {
	m.z = aluResult(w.AluOp(), m.x, m.y) & dataMask
}

func aluResult(op uint8, x, y uint32) uint32 {
	switch op {
	case word.AluAdd:
		return x + y
	case word.AluRor:
		return (x >> 1) | ((x & 1) << 23)
	case word.AluAnd:
		return x & y
	case word.AluOr:
		return x | y
	case word.AluXor:
		return x ^ y
	case word.AluNot:
		return ^x
	case word.AluEqual:
		if x == y {
			return dataMask
		}
		return 0
	default: // word.AluPass
		return x
	}
}

// stepMemoryPort advances the three-cycle commit state machine. A direction
// change, or a change of address, restarts the count. Asserting both R and
// W in the same cycle is a runtime error: no commit happens and the count
// resets, but the cycle otherwise continues.
func (m *Machine) stepMemoryPort(w word.MicroInstrWord) {
	read, write := w.MemRead(), w.MemWrite()

	var dir portDirection
	switch {
	case read && write:
		m.log.Error("mima: memory port asserted read and write in the same cycle", "addr", m.sar)
		m.port = memoryPort{}
		return
	case write:
		dir = portWrite
	case read:
		dir = portRead
	default:
		m.port = memoryPort{}
		return
	}

	if m.port.dir == dir && m.port.addr == m.sar {
		m.port.steps++
	} else {
		m.port = memoryPort{dir: dir, addr: m.sar, steps: 1}
	}

	if m.port.steps == 3 {
		if dir == portWrite {
			m.mem.Set(m.port.addr, m.sdr)
		} else {
			m.sdr = m.mem.Get(m.port.addr)
		}
		m.port.steps = 0
	}
}

// String renders a readable dump of every register and the decoder state,
// in the spirit of the original state-dump formatter this package is
// modeled on.
func (m *Machine) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "MinimalMachine state\n")
	fmt.Fprintf(&b, "  running: %v\n", m.running)
	b.WriteString("  decoder state: 0x")
	hex.FormatMicroAddr(&b, m.decoderState)
	b.WriteString("\n  registers:\n    IAR: 0x")
	hex.FormatAddr(&b, m.iar)
	b.WriteString("\n    IR:  0x")
	hex.FormatData(&b, m.ir)
	b.WriteString("\n    X:   0x")
	hex.FormatData(&b, m.x)
	b.WriteString("\n    Y:   0x")
	hex.FormatData(&b, m.y)
	b.WriteString("\n    Z:   0x")
	hex.FormatData(&b, m.z)
	b.WriteString("\n    ACC: 0x")
	hex.FormatData(&b, m.acc)
	b.WriteString("\n    SAR: 0x")
	hex.FormatAddr(&b, m.sar)
	b.WriteString("\n    SDR: 0x")
	hex.FormatData(&b, m.sdr)
	b.WriteByte('\n')
	return b.String()
}

// Dump is an alias of String kept for callers that prefer an explicit verb;
// state inspection tooling built against this package can use either.
func (m *Machine) Dump() string { return m.String() }

// Accumulator returns the current accumulator value, masked to 24 bits.
func (m *Machine) Accumulator() uint32 { return m.acc }

// InstructionAddress returns the current IAR value, masked to 20 bits.
func (m *Machine) InstructionAddress() uint32 { return m.iar }

// LoadAccumulator seeds the accumulator directly; used by tests that need a
// known starting state without stepping a program to build it up.
func (m *Machine) LoadAccumulator(v uint32) { m.acc = v & dataMask }

// LoadInstructionAddress seeds IAR directly, e.g. to point a test program
// at a specific entry address.
func (m *Machine) LoadInstructionAddress(v uint32) { m.iar = v & addrMask }

// Memory exposes the backing main store so callers can preload a program.
func (m *Machine) Memory() *memory.Memory { return m.mem }

// StorageData returns the current SDR value, masked to 24 bits.
func (m *Machine) StorageData() uint32 { return m.sdr }

// StorageAddress returns the current SAR value, masked to 20 bits.
func (m *Machine) StorageAddress() uint32 { return m.sar }
