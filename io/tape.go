package io

import (
	"io"
	"os"
)

// Tape provides sequential I/O for the machine over a generic reader and
// writer pair, such as files or the console. Input is consumed one byte at
// a time; output is written as already-decoded text.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

var _ Source = (*Tape)(nil)
var _ Sink = (*Tape)(nil)

// Console returns a tape attached to the process console.
func Console() *Tape {
	return &Tape{
		Input:  os.Stdin,
		Output: os.Stdout,
	}
}

// ReadByte consumes exactly one byte from the input stream, blocking until
// a byte arrives or the stream ends.
func (tc *Tape) ReadByte() (value byte, err error) {
	var one [1]byte
	_, err = io.ReadFull(tc.Input, one[:])
	if err != nil {
		return
	}

	value = one[0]
	return
}

// Print writes decoded text to the output stream unbuffered.
func (tc *Tape) Print(text string) (err error) {
	_, err = io.WriteString(tc.Output, text)
	return
}
