/*
 * mima - Microinstruction word
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

// Package word holds the 28-bit MiMa microinstruction control word and its
// typed field accessors. The raw integer never leaves this package; callers
// always go through the named getters and setters.
package word

// ALU operation codes, held in the ALU_OP field.
const (
	AluPass  = 0
	AluAdd   = 1
	AluRor   = 2
	AluAnd   = 3
	AluOr    = 4
	AluXor   = 5
	AluNot   = 6
	AluEqual = 7
)

// Bit/field layout of the 28-bit word.
const (
	nextAddrShift = 0
	nextAddrMask  = 0xFF

	memWriteBit = 10
	memReadBit  = 11

	aluOpShift = 12
	aluOpMask  = 0x7

	sarFromBusBit = 15
	sdrToBusBit   = 16
	sdrFromBusBit = 17
	irToBusBit    = 18
	irFromBusBit  = 19
	iarToBusBit   = 20
	iarFromBusBit = 21
	oneToBusBit   = 22
	zToBusBit     = 23
	yFromBusBit   = 24
	xFromBusBit   = 25
	accToBusBit   = 26
	accFromBusBit = 27
)

// MicroInstrWord is the 28-bit packed datapath control word. The zero value
// is a harmless no-op word: NEXT_ADDR 0, every strobe and bus bit clear,
// ALU_OP pass.
type MicroInstrWord uint32

// NextAddr returns the NEXT_ADDR field.
func (w MicroInstrWord) NextAddr() uint8 {
	return uint8(w>>nextAddrShift) & nextAddrMask
}

// SetNextAddr masks in a new NEXT_ADDR field, clearing the old one first.
func (w MicroInstrWord) SetNextAddr(addr uint8) MicroInstrWord {
	w &^= MicroInstrWord(nextAddrMask) << nextAddrShift
	return w | (MicroInstrWord(addr&nextAddrMask) << nextAddrShift)
}

// MemWrite reports whether the memory write strobe is set.
func (w MicroInstrWord) MemWrite() bool { return w.bit(memWriteBit) }

// SetMemWrite sets or clears the memory write strobe.
func (w MicroInstrWord) SetMemWrite(v bool) MicroInstrWord { return w.setBit(memWriteBit, v) }

// ClearMemWrite clears the memory write strobe.
func (w MicroInstrWord) ClearMemWrite() MicroInstrWord { return w.setBit(memWriteBit, false) }

// MemRead reports whether the memory read strobe is set.
func (w MicroInstrWord) MemRead() bool { return w.bit(memReadBit) }

// SetMemRead sets or clears the memory read strobe.
func (w MicroInstrWord) SetMemRead(v bool) MicroInstrWord { return w.setBit(memReadBit, v) }

// ClearMemRead clears the memory read strobe.
func (w MicroInstrWord) ClearMemRead() MicroInstrWord { return w.setBit(memReadBit, false) }

// AluOp returns the ALU_OP field (0-7, see the Alu* constants).
func (w MicroInstrWord) AluOp() uint8 {
	return uint8(w>>aluOpShift) & aluOpMask
}

// SetAluOp masks in a new ALU_OP field.
func (w MicroInstrWord) SetAluOp(op uint8) MicroInstrWord {
	w &^= MicroInstrWord(aluOpMask) << aluOpShift
	return w | (MicroInstrWord(op&aluOpMask) << aluOpShift)
}

// ClearAluOp resets ALU_OP to AluPass.
func (w MicroInstrWord) ClearAluOp() MicroInstrWord { return w.SetAluOp(AluPass) }

// SarFromBus reports whether SAR loads from the bus this cycle.
func (w MicroInstrWord) SarFromBus() bool { return w.bit(sarFromBusBit) }

// SetSarFromBus sets or clears the SAR<-BUS bit.
func (w MicroInstrWord) SetSarFromBus(v bool) MicroInstrWord { return w.setBit(sarFromBusBit, v) }

// SdrToBus reports whether SDR drives the bus this cycle.
func (w MicroInstrWord) SdrToBus() bool { return w.bit(sdrToBusBit) }

// SetSdrToBus sets or clears the SDR->BUS bit.
func (w MicroInstrWord) SetSdrToBus(v bool) MicroInstrWord { return w.setBit(sdrToBusBit, v) }

// SdrFromBus reports whether SDR loads from the bus this cycle.
func (w MicroInstrWord) SdrFromBus() bool { return w.bit(sdrFromBusBit) }

// SetSdrFromBus sets or clears the SDR<-BUS bit.
func (w MicroInstrWord) SetSdrFromBus(v bool) MicroInstrWord { return w.setBit(sdrFromBusBit, v) }

// IrToBus reports whether IR drives the bus this cycle.
func (w MicroInstrWord) IrToBus() bool { return w.bit(irToBusBit) }

// SetIrToBus sets or clears the IR->BUS bit.
func (w MicroInstrWord) SetIrToBus(v bool) MicroInstrWord { return w.setBit(irToBusBit, v) }

// IrFromBus reports whether IR loads from the bus this cycle.
func (w MicroInstrWord) IrFromBus() bool { return w.bit(irFromBusBit) }

// SetIrFromBus sets or clears the IR<-BUS bit.
func (w MicroInstrWord) SetIrFromBus(v bool) MicroInstrWord { return w.setBit(irFromBusBit, v) }

// IarToBus reports whether IAR drives the bus this cycle.
func (w MicroInstrWord) IarToBus() bool { return w.bit(iarToBusBit) }

// SetIarToBus sets or clears the IAR->BUS bit.
func (w MicroInstrWord) SetIarToBus(v bool) MicroInstrWord { return w.setBit(iarToBusBit, v) }

// IarFromBus reports whether IAR loads from the bus this cycle (masked to 20 bits).
func (w MicroInstrWord) IarFromBus() bool { return w.bit(iarFromBusBit) }

// SetIarFromBus sets or clears the IAR<-BUS bit.
func (w MicroInstrWord) SetIarFromBus(v bool) MicroInstrWord { return w.setBit(iarFromBusBit, v) }

// OneToBus reports whether the constant 1 is driven onto the bus this cycle.
func (w MicroInstrWord) OneToBus() bool { return w.bit(oneToBusBit) }

// SetOneToBus sets or clears the ONE->BUS bit.
func (w MicroInstrWord) SetOneToBus(v bool) MicroInstrWord { return w.setBit(oneToBusBit, v) }

// ZToBus reports whether the ALU result Z is driven onto the bus this cycle.
func (w MicroInstrWord) ZToBus() bool { return w.bit(zToBusBit) }

// SetZToBus sets or clears the Z->BUS bit.
func (w MicroInstrWord) SetZToBus(v bool) MicroInstrWord { return w.setBit(zToBusBit, v) }

// YFromBus reports whether the ALU operand Y loads from the bus this cycle.
func (w MicroInstrWord) YFromBus() bool { return w.bit(yFromBusBit) }

// SetYFromBus sets or clears the Y<-BUS bit.
func (w MicroInstrWord) SetYFromBus(v bool) MicroInstrWord { return w.setBit(yFromBusBit, v) }

// XFromBus reports whether the ALU operand X loads from the bus this cycle.
func (w MicroInstrWord) XFromBus() bool { return w.bit(xFromBusBit) }

// SetXFromBus sets or clears the X<-BUS bit.
func (w MicroInstrWord) SetXFromBus(v bool) MicroInstrWord { return w.setBit(xFromBusBit, v) }

// AccToBus reports whether the accumulator drives the bus this cycle.
func (w MicroInstrWord) AccToBus() bool { return w.bit(accToBusBit) }

// SetAccToBus sets or clears the ACC->BUS bit.
func (w MicroInstrWord) SetAccToBus(v bool) MicroInstrWord { return w.setBit(accToBusBit, v) }

// AccFromBus reports whether the accumulator loads from the bus this cycle.
func (w MicroInstrWord) AccFromBus() bool { return w.bit(accFromBusBit) }

// SetAccFromBus sets or clears the ACC<-BUS bit.
func (w MicroInstrWord) SetAccFromBus(v bool) MicroInstrWord { return w.setBit(accFromBusBit, v) }

// Pass is a no-op mutator: any token the assembler does not recognize maps
// to this so that an unrecognized register or ALU name is a warning, not a
// compile failure.
func Pass(w MicroInstrWord) MicroInstrWord { return w }

func (w MicroInstrWord) bit(n uint) bool {
	return w&(1<<n) != 0
}

func (w MicroInstrWord) setBit(n uint, v bool) MicroInstrWord {
	if v {
		return w | (1 << n)
	}
	return w &^ (1 << n)
}
