/*
 * mima - Main memory
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

// Package memory is the MiMa main store: a sparse 20-bit-addressed map of
// 24-bit words, backed by a map instead of a dense array since a MiMa
// program typically only ever touches a handful of addresses out of the
// full 20-bit space.
package memory

const (
	// AddrMask covers the 20-bit address space.
	AddrMask = 0xFFFFF
	// WordMask covers the 24-bit data word.
	WordMask = 0xFFFFFF
)

// Word is a 24-bit memory cell plus an optional debug tag. The tag plays no
// role in the datapath; it exists purely so tooling built on top of this
// package can annotate where a word came from (e.g. the user-program
// assembler marking an address as code vs. data).
type Word struct {
	Value uint32
	Tag   uint8
}

// Memory is a sparse, 20-bit-addressed, 24-bit-word main store.
type Memory struct {
	cells map[uint32]Word
}

// New returns an empty memory; every unmapped address reads as zero.
func New() *Memory {
	return &Memory{cells: make(map[uint32]Word)}
}

// Get reads the word at addr, masked to 24 bits. An address never written to
// reads back as zero.
func (m *Memory) Get(addr uint32) uint32 {
	return m.cells[addr&AddrMask].Value & WordMask
}

// GetTagged reads both the word and its debug tag at addr.
func (m *Memory) GetTagged(addr uint32) Word {
	return m.cells[addr&AddrMask]
}

// Set writes value (masked to 24 bits) at addr, leaving any existing debug
// tag untouched.
func (m *Memory) Set(addr uint32, value uint32) {
	addr &= AddrMask
	w := m.cells[addr]
	w.Value = value & WordMask
	m.cells[addr] = w
}

// SetTagged writes both a word and a debug tag at addr.
func (m *Memory) SetTagged(addr uint32, value uint32, tag uint8) {
	m.cells[addr&AddrMask] = Word{Value: value & WordMask, Tag: tag}
}

// Len reports how many addresses currently hold a mapped (possibly zero)
// value; it is a diagnostic, not part of the datapath contract.
func (m *Memory) Len() int {
	return len(m.cells)
}
