// Package io provides the stream capabilities consumed by the brainfuck
// machine. The machine never touches process stdio directly; it is handed a
// byte Source for the input instruction and a text Sink for decoded output,
// so tests and tools can substitute in-memory streams.
package io

// Source is the input capability: one byte consumed per read.
type Source interface {
	// ReadByte consumes the next byte from the input stream.
	ReadByte() (value byte, err error)
}

// Sink is the output capability: decoded text emitted immediately.
type Sink interface {
	// Print emits decoded text to the output stream.
	Print(text string) error
}
