/*
 * mima - Microassembler label table
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

package microasm

// resolver is a pending fixup: it is invoked once, when its label is first
// registered, and patches whatever microcell range it captured.
type resolver func(addr uint8)

// labelTable tracks known label addresses and the forward-reference queue
// waiting on labels not yet seen.
type labelTable struct {
	addrs   map[string]uint8
	pending map[string][]resolver
}

func newLabelTable() *labelTable {
	return &labelTable{
		addrs:   make(map[string]uint8),
		pending: make(map[string][]resolver),
	}
}

// lookup reports a label's address and whether it is known yet.
func (t *labelTable) lookup(name string) (uint8, bool) {
	addr, ok := t.addrs[name]
	return addr, ok
}

// define records name at addr, firing (and draining) every resolver queued
// against it. A redefinition overwrites the address but does not replay
// resolvers that already fired against the old one; callers should warn on
// redefinition before calling define again.
func (t *labelTable) define(name string, addr uint8) {
	t.addrs[name] = addr
	queue := t.pending[name]
	delete(t.pending, name)
	for _, r := range queue {
		r(addr)
	}
}

// isDefined reports whether name has already been registered.
func (t *labelTable) isDefined(name string) bool {
	_, ok := t.addrs[name]
	return ok
}

// await queues r to run once name is defined.
func (t *labelTable) await(name string, r resolver) {
	t.pending[name] = append(t.pending[name], r)
}

// pendingNames returns the labels still awaited, for the finish()-time
// unresolved-reference warning.
func (t *labelTable) pendingNames() []string {
	names := make([]string, 0, len(t.pending))
	for name, queue := range t.pending {
		if len(queue) > 0 {
			names = append(names, name)
		}
	}
	return names
}
