/*
 * mima - Conditional microcell
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

// Package microprog holds the conditional microcell (a piecewise function of
// a runtime status value over one microprogram slot) and the 256-cell
// microprogram built out of them.
package microprog

import "github.com/mima-project/mima/internal/word"

// piece is one constant segment of a conditional cell: it covers every
// condition value up to and including upper, using word.
type piece struct {
	upper uint16
	word  word.MicroInstrWord
}

// Mutator transforms a microinstruction word; Apply uses it to patch a
// sub-range of a cell's piecewise function.
type Mutator func(word.MicroInstrWord) word.MicroInstrWord

// ConditionalCell is one slot of the microprogram: a piecewise-constant
// function from a named status value, clamped to [0, condMax], to a
// MicroInstrWord.
type ConditionalCell struct {
	condName string
	condMax  uint16
	pieces   []piece
}

// NewConditionalCell returns a cell unconditional over [0, condMax], with
// every value mapping to the zero word.
func NewConditionalCell(condName string, condMax uint16) *ConditionalCell {
	c := &ConditionalCell{}
	c.Reset(condName, condMax)
	return c
}

// Reset clears the cell back to a single default piece spanning [0, condMax]
// under the given condition name. Resetting twice to the same (name, max) is
// idempotent.
func (c *ConditionalCell) Reset(condName string, condMax uint16) {
	c.condName = condName
	c.condMax = condMax
	c.pieces = []piece{{upper: condMax, word: word.MicroInstrWord(0)}}
}

// ResetUnconditional clears the cell back to unconditional (max 0) with the
// default word, as if freshly constructed with condMax 0.
func (c *ConditionalCell) ResetUnconditional() {
	c.Reset(c.condName, 0)
}

// CondName returns the status value name this cell is conditioned on.
func (c *ConditionalCell) CondName() string { return c.condName }

// CondMax returns the inclusive maximum of the condition range.
func (c *ConditionalCell) CondMax() uint16 { return c.condMax }

// Get evaluates the cell at the status value named by CondName, read out of
// status (defaulting to 0 when absent), clamped to [0, condMax].
func (c *ConditionalCell) Get(status map[string]uint16) word.MicroInstrWord {
	v := status[c.condName]
	return c.at(v)
}

func (c *ConditionalCell) at(v uint16) word.MicroInstrWord {
	if v > c.condMax {
		v = c.condMax
	}
	for _, p := range c.pieces {
		if p.upper >= v {
			return p.word
		}
	}
	// Unreachable: the last piece's upper bound always equals condMax.
	return c.pieces[len(c.pieces)-1].word
}

// Apply applies mutator to every piece whose range intersects [lo, hi],
// splitting pieces at the boundary so only [lo, hi] is affected. Bounds
// outside [0, condMax] are clamped; a degenerate range (lo > hi) is a no-op.
func (c *ConditionalCell) Apply(mutator Mutator, lo, hi uint16) {
	if hi > c.condMax {
		hi = c.condMax
	}
	if lo > hi {
		return
	}

	idx := c.indexCovering(lo)

	// Split off a leading untouched piece if lo doesn't start a piece.
	if idx == 0 {
		if lo > 0 {
			lead := piece{upper: lo - 1, word: c.pieces[0].word}
			c.pieces = append([]piece{lead}, c.pieces...)
			idx = 1
		}
	} else {
		prevUpper := c.pieces[idx-1].upper
		if prevUpper+1 < lo {
			mid := piece{upper: lo - 1, word: c.pieces[idx].word}
			c.pieces = append(c.pieces[:idx], append([]piece{mid}, c.pieces[idx:]...)...)
			idx++
		}
	}

	for c.pieces[idx].upper < hi {
		c.pieces[idx].word = mutator(c.pieces[idx].word)
		idx++
	}

	if c.pieces[idx].upper == hi {
		c.pieces[idx].word = mutator(c.pieces[idx].word)
		return
	}

	tail := piece{upper: hi, word: mutator(c.pieces[idx].word)}
	c.pieces = append(c.pieces[:idx], append([]piece{tail}, c.pieces[idx:]...)...)
}

// ApplyAll is shorthand for Apply(mutator, 0, condMax).
func (c *ConditionalCell) ApplyAll(mutator Mutator) {
	c.Apply(mutator, 0, c.condMax)
}

// indexCovering returns the index of the first piece whose upper bound is
// >= v.
func (c *ConditionalCell) indexCovering(v uint16) int {
	for i, p := range c.pieces {
		if p.upper >= v {
			return i
		}
	}
	return len(c.pieces) - 1
}

// PieceCount reports how many pieces the cell currently holds; used by
// tests that check the piecewise invariants directly.
func (c *ConditionalCell) PieceCount() int { return len(c.pieces) }
