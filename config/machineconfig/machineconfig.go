/*
 * mima - Session configuration file parser
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

// Package machineconfig parses the small "key = value" session file that
// tells the mima command where to find its microcode, its initial memory
// image, and where to log. It keeps the line/position tokenizer style of the
// device configuration parser it is adapted from, stripped down to the
// handful of keys a MiMa session actually needs.
package machineconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Config is the result of parsing a session file.
type Config struct {
	Decoder string // path to the microcode source compiled by microasm
	Memory  string // path to the initial memory image, may be empty
	Log     string // path to the log file, may be empty (stderr only)
}

// recognized keys.
const (
	keyDecoder = "DECODER"
	keyMemory  = "MEMORY"
	keyLog     = "LOG"
)

// optionLine tracks the current position within one line being scanned,
// mirroring the device config parser's cursor-based tokenizer.
type optionLine struct {
	text string
	pos  int
}

func (l *optionLine) skipSpace() {
	for l.pos < len(l.text) && unicode.IsSpace(rune(l.text[l.pos])) {
		l.pos++
	}
}

func (l *optionLine) isEOL() bool {
	return l.pos >= len(l.text) || l.text[l.pos] == '#'
}

func (l *optionLine) takeWhile(pred func(byte) bool) string {
	start := l.pos
	for l.pos < len(l.text) && pred(l.text[l.pos]) {
		l.pos++
	}
	return l.text[start:l.pos]
}

func isKeyChar(b byte) bool {
	return unicode.IsLetter(rune(b)) || unicode.IsNumber(rune(b)) || b == '_'
}

// parseLine returns the (key, value) pair on a non-blank, non-comment line,
// or ("", "", nil) for a line with nothing to parse.
func (l *optionLine) parseLine() (key, value string, err error) {
	l.skipSpace()
	if l.isEOL() {
		return "", "", nil
	}
	key = strings.ToUpper(l.takeWhile(isKeyChar))
	if key == "" {
		return "", "", fmt.Errorf("expected a key, found %q", l.text[l.pos:])
	}
	l.skipSpace()
	if l.isEOL() || l.text[l.pos] != '=' {
		return "", "", fmt.Errorf("key %q not followed by '='", key)
	}
	l.pos++
	l.skipSpace()
	value = strings.TrimRight(l.takeWhile(func(b byte) bool { return b != '#' }), " \t\r\n")
	if value == "" {
		return "", "", fmt.Errorf("key %q has no value", key)
	}
	return key, value, nil
}

// Load reads and parses a session file.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()
	return parse(file, path)
}

func parse(r io.Reader, name string) (Config, error) {
	var cfg Config
	reader := bufio.NewReader(r)
	lineNumber := 0
	for {
		raw, err := reader.ReadString('\n')
		if len(raw) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Config{}, err
		}
		lineNumber++
		l := &optionLine{text: raw}
		key, value, perr := l.parseLine()
		if perr != nil {
			return Config{}, fmt.Errorf("%s:%d: %w", name, lineNumber, perr)
		}
		switch key {
		case "":
			// blank or comment-only line
		case keyDecoder:
			cfg.Decoder = value
		case keyMemory:
			cfg.Memory = value
		case keyLog:
			cfg.Log = value
		default:
			return Config{}, fmt.Errorf("%s:%d: unrecognized key %q", name, lineNumber, key)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Config{}, err
		}
	}
	if cfg.Decoder == "" {
		return Config{}, errors.New("session file must set decoder = <path>")
	}
	return cfg, nil
}
