/*
 * mima - Command-line entry point
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

package main

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	config "github.com/mima-project/mima/config/machineconfig"
	"github.com/mima-project/mima/internal/logger"
	"github.com/mima-project/mima/internal/memory"
	"github.com/mima-project/mima/internal/microasm"
	"github.com/mima-project/mima/internal/mima"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "mima.cfg", "Session configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file, overrides the session file's log key")
	optCycles := getopt.Uint64Long("cycles", 0, 0, "Stop after this many clock cycles (0: run to completion)")
	optDebug := getopt.BoolLong("debug", 'd', "Echo every log line to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load(*optConfig)
	if err != nil {
		slog.Error("mima: loading session file", "error", err)
		os.Exit(1)
	}

	logPath := cfg.Log
	if *optLogFile != "" {
		logPath = *optLogFile
	}
	var file *os.File
	if logPath != "" {
		file, err = os.Create(logPath)
		if err != nil {
			slog.Error("mima: creating log file", "error", err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.New(file, &slog.HandlerOptions{Level: programLevel}, *optDebug))
	slog.SetDefault(Logger)

	Logger.Info("mima started", "config", *optConfig)

	decoderSrc, err := os.ReadFile(cfg.Decoder)
	if err != nil {
		Logger.Error("reading decoder source", "path", cfg.Decoder, "error", err)
		os.Exit(1)
	}
	decoder, warnings, err := microasm.Compile(string(decoderSrc), Logger)
	if err != nil {
		Logger.Error("assembling decoder", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		Logger.Warn("microasm", "warning", w)
	}

	mem := memory.New()
	if cfg.Memory != "" {
		if err := loadMemoryImage(mem, cfg.Memory); err != nil {
			Logger.Error("loading memory image", "path", cfg.Memory, "error", err)
			os.Exit(1)
		}
	}

	machine := mima.New(decoder, mem, Logger)
	if *optCycles > 0 {
		for machine.Running() && uint64(machine.Cycles()) < *optCycles {
			machine.EmulateClockCycle()
		}
	} else {
		machine.EmulateLifeTime()
	}

	Logger.Info("mima halted", "cycles", machine.Cycles(), "running", machine.Running())
	os.Stdout.WriteString(machine.String())
}

// memoryImageEntry is one address/value pair in a JSON memory image: a
// simple, inspectable format for seeding a MiMa program's initial memory
// without inventing a binary container.
type memoryImageEntry struct {
	Addr  uint32 `json:"addr"`
	Value uint32 `json:"value"`
}

func loadMemoryImage(mem *memory.Memory, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var entries []memoryImageEntry
	if err := json.NewDecoder(bufio.NewReader(file)).Decode(&entries); err != nil {
		return err
	}
	for _, e := range entries {
		mem.Set(e.Addr, e.Value)
	}
	return nil
}
