/*
 * mima - Microprogram
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

package microprog

import "github.com/mima-project/mima/internal/word"

// HaltAddr is the reserved, self-looping microprogram address.
const HaltAddr = 0xFF

// NumCells is the fixed size of a microprogram.
const NumCells = 256

// MicroProgram is the fixed 256-cell control store. Once built it is never
// mutated again; callers share it freely among interpreters.
type MicroProgram struct {
	cells [NumCells]*ConditionalCell
}

// New builds a microprogram with every cell unconditional at the zero word,
// except HaltAddr, which is wired to self-loop (NEXT_ADDR = HaltAddr) for
// every status value.
func New() *MicroProgram {
	mp := &MicroProgram{}
	for i := range mp.cells {
		mp.cells[i] = NewConditionalCell("", 0)
	}
	mp.cells[HaltAddr].ApplyAll(func(w word.MicroInstrWord) word.MicroInstrWord {
		return w.SetNextAddr(HaltAddr)
	})
	return mp
}

// Get evaluates cell addr under status.
func (mp *MicroProgram) Get(addr uint8, status map[string]uint16) word.MicroInstrWord {
	return mp.cells[addr].Get(status)
}

// Peek is the diagnostic twin of Get: it reads a cell's word without being
// part of an interpreter's clock cycle, for state dumps.
func (mp *MicroProgram) Peek(addr uint8, status map[string]uint16) word.MicroInstrWord {
	return mp.Get(addr, status)
}

// Cell exposes the underlying cell for assembler use. Outside this package
// and the assembler, the microprogram is read-only: apart from New, only the
// assembler and tests that build microprograms by hand call Reset/Apply on a
// cell.
func (mp *MicroProgram) Cell(addr uint8) *ConditionalCell {
	return mp.cells[addr]
}
