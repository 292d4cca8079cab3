// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator wires the execution engine to its stream endpoints and
// drives it through a caller-owned tick loop. The Debugger type layers
// breakpoints, step events, and tracing on top without touching the engine.
package emulator

import (
	"log/slog"

	"github.com/ezrec/brainfuck/io"
	"github.com/ezrec/brainfuck/vm"
)

// Emulator state: machine + stream endpoints.
type Emulator struct {
	Config vm.Config // Machine configuration, applied on Reset.

	Tape io.Tape   // Default I/O endpoints (console, files).
	In   io.Source // Optional input override; nil selects Tape.
	Out  io.Sink   // Optional output override; nil selects Tape.

	Log *slog.Logger // Optional step logging at debug level.

	state *vm.State
}

// NewEmulator creates an emulator with the default configuration and
// console I/O endpoints.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Tape: *io.Console(),
	}
	emu.Reset("")

	return
}

// Reset loads program source and constructs a fresh machine from the
// current configuration. Previous tape and pointer state is discarded.
func (emu *Emulator) Reset(code string) {
	in := emu.In
	if in == nil {
		in = &emu.Tape
	}
	out := emu.Out
	if out == nil {
		out = &emu.Tape
	}

	emu.state = emu.Config.New(code, in, out)
}

// State returns the current machine state.
func (emu *Emulator) State() *vm.State {
	return emu.state
}

// Tick performs a single step of the machine. It returns true once the
// program has halted; no error surface exists beyond that signal.
func (emu *Emulator) Tick() (done bool) {
	if emu.Log != nil && !emu.state.Halted() {
		st := emu.state
		emu.Log.Debug("tick",
			"ip", st.Ip(),
			"op", string(st.Code()[st.Ip():st.Ip()+1]),
			"cursor", st.Cursor(),
			"cell", st.Tape().At(st.Cursor()),
		)
	}

	return !emu.state.Step()
}

// Run ticks the machine until the program halts, returning the number of
// steps executed. A non-terminating program never returns.
func (emu *Emulator) Run() (steps int) {
	for !emu.Tick() {
		steps++
	}

	return
}
