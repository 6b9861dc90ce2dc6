/*
 * mima - Microassembler
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

// Package microasm is the two-pass microassembler: it reads the line-oriented
// microcode DSL and produces an immutable *microprog.MicroProgram. A single
// forward scan does the work of two passes by deferring any reference to a
// label not yet seen: the write cursor always moves forward, so a deferred
// fixup closure is all that is needed to patch the right cell once its label
// shows up later in the source.
package microasm

import (
	"bufio"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mima-project/mima/internal/microprog"
)

// CompilerError reports a problem with the source text at a specific line,
// a dedicated line-tagged error type rather than a bare fmt.Errorf string.
type CompilerError struct {
	Line int
	Msg  string
}

func (e *CompilerError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("microasm: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("microasm: %s", e.Msg)
}

// Assembler holds the state of one compilation: the microprogram under
// construction, the current write cursor and compile mode, the label table,
// and any accumulated warnings.
type Assembler struct {
	mp          *microprog.MicroProgram
	writeCursor uint8
	mode        compileMode
	labels      *labelTable
	warnings    []string
	log         *slog.Logger

	haltFinalized bool
	scratch       *microprog.ConditionalCell
	lineSawJump   bool
	lineNo        int
}

// New returns an assembler ready to compile, seeded with the label "halt"
// pre-bound to microprog.HaltAddr.
func New(log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	a := &Assembler{
		mp:      microprog.New(),
		mode:    defaultMode{},
		labels:  newLabelTable(),
		scratch: microprog.NewConditionalCell("", 0),
		log:     log,
	}
	a.labels.define("halt", microprog.HaltAddr)
	return a
}

// Compile assembles source (the full text of a microcode program) and
// returns the finished microprogram plus any non-fatal warnings. A
// malformed line is a *CompilerError and aborts the compile; warnings never
// abort, they only accumulate.
func Compile(source string, log *slog.Logger) (*microprog.MicroProgram, []string, error) {
	a := New(log)
	scanner := bufio.NewScanner(strings.NewReader(source))
	for scanner.Scan() {
		a.lineNo++
		if err := a.processLine(scanner.Text()); err != nil {
			return nil, a.warnings, err
		}
	}
	a.finish()
	return a.mp, a.warnings, nil
}

func (a *Assembler) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.warnings = append(a.warnings, fmt.Sprintf("line %d: %s", a.lineNo, msg))
	a.log.Warn("microasm", "line", a.lineNo, "msg", msg)
}

// cellAt returns the cell to mutate for addr, enforcing that address 0xFF
// keeps whichever line wrote it first: a later line targeting 0xFF is
// silently absorbed into a scratch cell, with a warning.
func (a *Assembler) cellAt(addr uint8) *microprog.ConditionalCell {
	if addr == microprog.HaltAddr && a.haltFinalized {
		a.warnf("address 0xFF is reserved for halt; write ignored (first writer kept)")
		return a.scratch
	}
	return a.mp.Cell(addr)
}

func (a *Assembler) advanceCursor() {
	if a.writeCursor == microprog.HaltAddr {
		a.haltFinalized = true
	}
	if a.writeCursor == 0xFF {
		a.warnf("write cursor wrapped past address 0xFF back to 0x00")
	}
	a.writeCursor++
}

// emitJump resolves or defers a "#label" jump target over [lo,hi] against
// the cell currently at the write cursor. Only the first jump statement on
// a logical line takes effect; a second is a warning. In conditional mode a
// ";" closes the cell, and the next cell on the line may set its own jump.
func (a *Assembler) emitJump(tok string, lo, hi uint16) error {
	if a.lineSawJump {
		a.warnf("line already has a jump target, %q ignored", tok)
		return nil
	}
	label := strings.TrimSpace(strings.TrimPrefix(tok, "#"))
	if label == "" {
		return &CompilerError{Line: a.lineNo, Msg: "empty label reference"}
	}
	a.lineSawJump = true
	cursor := a.writeCursor
	if addr, ok := a.labels.lookup(label); ok {
		a.cellAt(cursor).Apply(setNextAddr(addr), lo, hi)
		return nil
	}
	a.labels.await(label, func(addr uint8) {
		a.cellAt(cursor).Apply(setNextAddr(addr), lo, hi)
	})
	return nil
}

// processLine handles one physical source line: comment stripping, label
// extraction, directive recognition, and dispatch to the active mode.
func (a *Assembler) processLine(raw string) error {
	if idx := strings.Index(raw, "//"); idx >= 0 {
		raw = raw[:idx]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	label, rest := splitLabel(raw)
	if label != "" {
		if a.labels.isDefined(label) {
			a.warnf("redefinition of label %q, new address kept", label)
		}
		a.labels.define(label, a.writeCursor)
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}

	if strings.HasPrefix(rest, "!") {
		return a.processDirective(rest)
	}

	a.lineSawJump = false
	first := true
	for _, stmt := range strings.Split(rest, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		// A ";" is the per-cell finalizer (used by conditional mode to end
		// one cell and start the next within a single line); default mode's
		// closeCell is a no-op, so this only affects conditional mode.
		if !first {
			a.mode.closeCell(a)
		}
		first = false
		if err := a.mode.addStatement(a, stmt); err != nil {
			if ce, ok := err.(*CompilerError); ok && ce.Line == 0 {
				ce.Line = a.lineNo
			}
			return err
		}
	}
	a.mode.endOfLine(a, a.lineSawJump)
	return nil
}

// processDirective handles "!cm(default)" and "!cm(conditional, name, max)".
// The mode being left closes out whatever cell it was building (default
// mode already finished its cell per line and has nothing to do; leaving
// conditional mode advances the cursor past the cell it patched).
func (a *Assembler) processDirective(rest string) error {
	if !strings.HasPrefix(rest, "!cm(") || !strings.HasSuffix(rest, ")") {
		return &CompilerError{Line: a.lineNo, Msg: "unrecognized directive: " + rest}
	}
	body := rest[len("!cm(") : len(rest)-1]
	args := strings.Split(body, ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	switch args[0] {
	case "default":
		a.mode.closeCell(a)
		a.mode = defaultMode{}
	case "conditional":
		if len(args) != 3 {
			return &CompilerError{Line: a.lineNo, Msg: "!cm(conditional, name, max) needs 3 arguments"}
		}
		max, err := parseNumber(args[2])
		if err != nil {
			return &CompilerError{Line: a.lineNo, Msg: "bad condition max: " + err.Error()}
		}
		a.mode.closeCell(a)
		a.mode = &conditionalMode{condName: args[1], condMax: uint16(max)}
	default:
		return &CompilerError{Line: a.lineNo, Msg: "unrecognized compile mode: " + args[0]}
	}
	return nil
}

// finish closes out whatever cell the active mode was still building and
// reports any labels referenced but never defined. Per seed scenario 5,
// resolution happens as soon as a label is seen; anything still pending
// here names a genuinely missing label.
func (a *Assembler) finish() {
	a.mode.closeCell(a)
	for _, name := range a.labels.pendingNames() {
		a.warnf("label %q referenced but never defined", name)
	}
}

// splitLabel peels a leading "name:" off line, if present, and returns the
// label (without the colon) and the remaining text. Directive lines
// ("!cm(...)") never start with an identifier character, so they are never
// mistaken for a label.
func splitLabel(line string) (label, rest string) {
	i := 0
	for i < len(line) && isIdentChar(rune(line[i])) {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != ':' {
		return "", line
	}
	return line[:i], line[i+1:]
}

func isIdentChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// parseNumber accepts decimal ("17") and 0x-prefixed hex ("0x11") literals.
func parseNumber(tok string) (uint64, error) {
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		return strconv.ParseUint(tok[2:], 16, 32)
	}
	return strconv.ParseUint(tok, 10, 32)
}
