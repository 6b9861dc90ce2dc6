/*
 * mima - Convert hex to strings
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

// Package hex writes the fixed-width hex fields MiMa state dumps use
// directly into a strings.Builder, rather than going through fmt's
// verb-parsing machinery for every register line.
package hex

import "strings"

var hexMap = "0123456789ABCDEF"

// FormatData writes a 24-bit data word as six hex digits (ACC, IR, X, Y, Z,
// SDR all share this width).
func FormatData(str *strings.Builder, word uint32) {
	formatNibbles(str, uint64(word), 6)
}

// FormatAddr writes a 20-bit address as five hex digits (IAR, SAR).
func FormatAddr(str *strings.Builder, addr uint32) {
	formatNibbles(str, uint64(addr), 5)
}

// FormatMicroAddr writes a microprogram cell address as two hex digits.
func FormatMicroAddr(str *strings.Builder, addr uint8) {
	formatNibbles(str, uint64(addr), 2)
}

// FormatCondValue writes a status condition value as up to four hex digits,
// with no leading zero padding beyond what the value needs.
func FormatCondValue(str *strings.Builder, value uint16) {
	if value == 0 {
		str.WriteByte('0')
		return
	}
	started := false
	for shift := 12; shift >= 0; shift -= 4 {
		nibble := (value >> shift) & 0xf
		if nibble != 0 {
			started = true
		}
		if started {
			str.WriteByte(hexMap[nibble])
		}
	}
}

func formatNibbles(str *strings.Builder, value uint64, digits int) {
	shift := (digits - 1) * 4
	for i := 0; i < digits; i++ {
		str.WriteByte(hexMap[(value>>shift)&0xf])
		shift -= 4
	}
}
