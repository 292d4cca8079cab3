package io

import (
	"io"
)

// Buffer implements a circular byte queue for in-memory I/O.
// It operates as a FIFO with a fixed capacity and separate read/write
// positions, serving as both a Source and a Sink for tests and the
// interactive debugger panes.
type Buffer struct {
	Capacity int // Capacity in bytes.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []byte
}

var _ Source = (*Buffer)(nil)
var _ Sink = (*Buffer)(nil)

// Rewind resets the buffer to empty, resetting indices and reinitializing
// the data store.
func (buf *Buffer) Rewind() {
	buf.ReadIndex = 0
	buf.WriteIndex = 0
	buf.Size = 0
	buf.Data = make([]byte, buf.Capacity)
}

// ReadByte consumes the oldest byte in the buffer. Returns io.EOF when the
// buffer is empty.
func (buf *Buffer) ReadByte() (value byte, err error) {
	if buf.Size == 0 {
		err = io.EOF
		return
	}

	value = buf.Data[buf.ReadIndex]
	buf.ReadIndex++
	if buf.ReadIndex == buf.Capacity {
		buf.ReadIndex = 0
	}
	buf.Size--

	return
}

// WriteByte appends a byte at the current write position.
// Returns ErrBufferFull if the buffer has reached capacity.
func (buf *Buffer) WriteByte(value byte) (err error) {
	if buf.Data == nil {
		buf.Rewind()
	}

	if buf.Size >= buf.Capacity {
		err = ErrBufferFull
		return
	}

	buf.Data[buf.WriteIndex] = value

	buf.WriteIndex++
	if buf.WriteIndex == buf.Capacity {
		buf.WriteIndex = 0
	}
	buf.Size++

	return
}

// Print appends decoded text byte by byte.
func (buf *Buffer) Print(text string) (err error) {
	for _, value := range []byte(text) {
		err = buf.WriteByte(value)
		if err != nil {
			return
		}
	}

	return
}

// Bytes returns the buffered bytes in FIFO order without consuming them.
func (buf *Buffer) Bytes() (data []byte) {
	index := buf.ReadIndex
	for range buf.Size {
		data = append(data, buf.Data[index])
		index++
		if index == buf.Capacity {
			index = 0
		}
	}

	return
}
