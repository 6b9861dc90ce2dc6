/*
 * mima - Microassembler compile modes
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

import (
	"fmt"
	"strings"

	"github.com/mima-project/mima/internal/microprog"
	"github.com/mima-project/mima/internal/word"
)

// lhsDrivers maps a "drives the bus" register name to the mutator that
// asserts its ->BUS bit.
var lhsDrivers = map[string]microprog.Mutator{
	"SDR":  func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetSdrToBus(true) },
	"IR":   func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetIrToBus(true) },
	"IAR":  func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetIarToBus(true) },
	"ONE":  func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetOneToBus(true) },
	"Z":    func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetZToBus(true) },
	"ACCU": func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetAccToBus(true) },
}

// rhsLoaders maps a "loads from the bus" register name to the mutator that
// asserts its <-BUS bit.
var rhsLoaders = map[string]microprog.Mutator{
	"SAR":  func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetSarFromBus(true) },
	"SDR":  func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetSdrFromBus(true) },
	"IR":   func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetIrFromBus(true) },
	"IAR":  func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetIarFromBus(true) },
	"X":    func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetXFromBus(true) },
	"Y":    func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetYFromBus(true) },
	"ACCU": func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetAccFromBus(true) },
}

// aluOps maps an ALU mnemonic to its opcode, for "ALU = <name>" assignments.
var aluOps = map[string]uint8{
	"PASS": word.AluPass,
	"ADD":  word.AluAdd,
	"RAR":  word.AluRor,
	"AND":  word.AluAnd,
	"OR":   word.AluOr,
	"XOR":  word.AluXor,
	"NOT":  word.AluNot,
	"EQL":  word.AluEqual,
}

func setMemRead(v bool) microprog.Mutator {
	return func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetMemRead(v) }
}

func setMemWrite(v bool) microprog.Mutator {
	return func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetMemWrite(v) }
}

func setAluOp(op uint8) microprog.Mutator {
	return func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetAluOp(op) }
}

func setNextAddr(addr uint8) microprog.Mutator {
	return func(w word.MicroInstrWord) word.MicroInstrWord { return w.SetNextAddr(addr) }
}

// compileMode is one of the two assembler personalities selected by the
// "!cm(...)" directive. Each mode owns the grammar for the body of a
// logical source line; the driver in assembler.go handles label/comment
// stripping and line splitting common to both.
type compileMode interface {
	name() string
	// addStatement processes one ';'-terminated (or, for the final
	// fragment of a line, unterminated) statement body against the cell
	// currently under construction at a.writeCursor.
	addStatement(a *Assembler, stmt string) error
	// endOfLine is called once per logical source line, after every
	// statement on it has been processed. Default mode finishes a cell
	// per line; conditional mode lets several lines patch the same cell,
	// so it does nothing here.
	endOfLine(a *Assembler, sawJump bool)
	// closeCell is called when this mode is about to stop owning the cell
	// at the write cursor: on a ";" statement separator, a mode-switch
	// directive, or at end of file. Conditional mode uses this to finally
	// advance the cursor past the cell it has been patching; default mode
	// has nothing left to do here since endOfLine already advanced.
	closeCell(a *Assembler)
}

// defaultMode implements the straight-line register-transfer grammar.
type defaultMode struct{}

func (defaultMode) name() string { return "default" }

func (defaultMode) addStatement(a *Assembler, stmt string) error {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return nil
	}
	if strings.HasPrefix(stmt, "#") {
		return a.emitJump(stmt, 0, 0xFF)
	}
	if idx := strings.Index(stmt, "->"); idx >= 0 {
		lhs := strings.TrimSpace(stmt[:idx])
		rhs := strings.TrimSpace(stmt[idx+2:])
		drive, ok := lhsDrivers[lhs]
		if !ok {
			a.warnf("unrecognized transfer source %q, treated as no-op", lhs)
			drive = word.Pass
		}
		load, ok := rhsLoaders[rhs]
		if !ok {
			a.warnf("unrecognized transfer destination %q, treated as no-op", rhs)
			load = word.Pass
		}
		a.cellAt(a.writeCursor).Apply(drive, 0, 0xFF)
		a.cellAt(a.writeCursor).Apply(load, 0, 0xFF)
		return nil
	}
	if idx := strings.Index(stmt, "="); idx >= 0 {
		lhs := strings.TrimSpace(stmt[:idx])
		rhs := strings.TrimSpace(stmt[idx+1:])
		switch lhs {
		case "R":
			a.cellAt(a.writeCursor).Apply(setMemRead(rhs == "1"), 0, 0xFF)
		case "W":
			a.cellAt(a.writeCursor).Apply(setMemWrite(rhs == "1"), 0, 0xFF)
		case "ALU":
			op, ok := aluOps[rhs]
			if !ok {
				a.warnf("unrecognized ALU operation %q, treated as PASS", rhs)
				op = word.AluPass
			}
			a.cellAt(a.writeCursor).Apply(setAluOp(op), 0, 0xFF)
		default:
			a.warnf("unrecognized assignment target %q, ignored", lhs)
		}
		return nil
	}
	return &CompilerError{Msg: "unrecognized statement: " + stmt}
}

func (defaultMode) endOfLine(a *Assembler, sawJump bool) {
	// The halt cell keeps its self-loop: no auto next-address is written
	// into microprog.HaltAddr.
	if !sawJump && a.writeCursor != microprog.HaltAddr {
		a.cellAt(a.writeCursor).Apply(setNextAddr((a.writeCursor+1)&0xFF), 0, 0xFF)
	}
	a.advanceCursor()
}

func (defaultMode) closeCell(a *Assembler) {}

// conditionalMode implements the "[lo,hi] #label;" piecewise-patch grammar.
// condName/condMax come from the directive that entered this mode; cellReady
// tracks whether the cell presently at the write cursor has been reset under
// them yet (a fresh reset is due the first time each new cell is touched).
type conditionalMode struct {
	condName  string
	condMax   uint16
	cellReady bool
}

func (m *conditionalMode) name() string { return "conditional" }

func (m *conditionalMode) addStatement(a *Assembler, stmt string) error {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return nil
	}
	if !m.cellReady {
		a.cellAt(a.writeCursor).Reset(m.condName, m.condMax)
		m.cellReady = true
	}
	lo, hi, rest, err := parseRange(stmt)
	if err != nil {
		return err
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "#") {
		return &CompilerError{Msg: "expected #label after range in: " + stmt}
	}
	if hi > m.condMax {
		hi = m.condMax
	}
	return a.emitJump(rest, lo, hi)
}

// endOfLine does nothing: a conditional cell is typically built up across
// several "[lo,hi] #label" lines, and only finishes when the mode is closed.
func (m *conditionalMode) endOfLine(a *Assembler, sawJump bool) {}

// closeCell advances the write cursor past the cell this mode has been
// patching, but only if it actually patched anything (a "!cm(conditional,
// ...)" directive with no following range lines claims no cell). The next
// cell starts with no jump target recorded, so a "#label" after a ";" on the
// same line still takes effect.
func (m *conditionalMode) closeCell(a *Assembler) {
	if m.cellReady {
		a.advanceCursor()
		m.cellReady = false
		a.lineSawJump = false
	}
}

// parseRange splits a leading "[lo,hi]" (numbers or the literal "max") off
// stmt and returns the remainder.
func parseRange(stmt string) (lo, hi uint16, rest string, err error) {
	if !strings.HasPrefix(stmt, "[") {
		return 0, 0, "", &CompilerError{Msg: "expected [lo,hi] range in: " + stmt}
	}
	end := strings.Index(stmt, "]")
	if end < 0 {
		return 0, 0, "", &CompilerError{Msg: "unterminated [lo,hi] range in: " + stmt}
	}
	body := stmt[1:end]
	parts := strings.SplitN(body, ",", 2)
	if len(parts) != 2 {
		return 0, 0, "", &CompilerError{Msg: "malformed [lo,hi] range: " + body}
	}
	lo, err = parseBound(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, "", err
	}
	hi, err = parseBound(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, "", err
	}
	return lo, hi, stmt[end+1:], nil
}

func parseBound(tok string) (uint16, error) {
	if tok == "max" {
		return 0xFFFF, nil
	}
	n, err := parseNumber(tok)
	if err != nil {
		return 0, &CompilerError{Msg: fmt.Sprintf("bad range bound %q: %s", tok, err.Error())}
	}
	return uint16(n), nil
}
