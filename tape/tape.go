// Package tape implements the memory tape for the brainfuck machine.
//
// The tape is an infinite bidirectional array of byte cells addressed by a
// signed integer index. It is backed by two growable stores: a positive
// store covering index 0 upward (pre-sized, never empty), and a negative
// store covering index -1 downward (lazily allocated). Cells that were
// never written read as zero.
package tape

import (
	"iter"

	"github.com/ezrec/brainfuck/internal"
	"github.com/ezrec/brainfuck/translate"
)

var f = translate.From

// DefaultSize is the pre-allocated length of the positive store.
const DefaultSize = 3000

// Mode selects the addressing policy of the tape.
type Mode int

const (
	// Expand grows the tape on out-of-range writes.
	Expand = Mode(0)
	// Wrap folds out-of-range addresses into the positive store.
	Wrap = Mode(1)
)

// Tape is a bidirectional memory tape. The addressing mode is fixed at
// construction; Expand and Wrap behavior are mutually exclusive.
type Tape struct {
	mode Mode
	pos  []byte // index 0 upward
	neg  []byte // index -1 downward; logical index -1-n maps to slot n
}

// New creates a tape with a positive store of the given size. A size of
// zero or less selects DefaultSize.
func New(size int, mode Mode) (tp *Tape) {
	if size <= 0 {
		size = DefaultSize
	}

	return &Tape{
		mode: mode,
		pos:  make([]byte, size),
	}
}

// Mode returns the addressing mode of the tape.
func (tp *Tape) Mode() Mode {
	return tp.mode
}

// Len returns the length of the positive store, which is also the
// wraparound bound in Wrap mode.
func (tp *Tape) Len() int {
	tp.check()
	return len(tp.pos)
}

// check enforces the positive-store invariant. No reachable call path can
// empty the positive store; hitting this is an internal error.
func (tp *Tape) check() {
	if len(tp.pos) == 0 {
		panic(f("tape: positive store is empty"))
	}
}

// normalize folds an out-of-range index into the positive store. Both
// overflow directions land in the positive store: at or above its length
// folds to 0, below zero folds to the last positive index.
func (tp *Tape) normalize(index int) int {
	if index < 0 {
		index = len(tp.pos) - 1
	} else if index >= len(tp.pos) {
		index = 0
	}
	return index
}

// At returns the cell value at the given signed index. Never-written cells
// read as zero, without allocating storage.
func (tp *Tape) At(index int) (value byte) {
	tp.check()

	if tp.mode == Wrap {
		index = tp.normalize(index)
	}

	if index >= 0 {
		if index < len(tp.pos) {
			value = tp.pos[index]
		}
		return
	}

	slot := -1 - index
	if slot < len(tp.neg) {
		value = tp.neg[slot]
	}
	return
}

// Set stores a cell value at the given signed index. In Expand mode the
// relevant store is grown zero-filled to cover the index; in Wrap mode the
// index is folded into the positive store instead.
func (tp *Tape) Set(index int, value byte) {
	tp.check()

	switch tp.mode {
	case Wrap:
		index = tp.normalize(index)
	case Expand:
		if index >= len(tp.pos) {
			tp.pos = append(tp.pos, make([]byte, index+1-len(tp.pos))...)
		}
		if index < 0 && -index > len(tp.neg) {
			tp.neg = append(tp.neg, make([]byte, -index-len(tp.neg))...)
		}
	}

	if index >= 0 {
		tp.pos[index] = value
	} else {
		tp.neg[-1-index] = value
	}
}

// Bounds returns the lowest and one past the highest allocated index.
func (tp *Tape) Bounds() (lo int, hi int) {
	return -len(tp.neg), len(tp.pos)
}

// Cells returns an iterator over all allocated cells in tape order, from
// the lowest negative index through the top of the positive store.
func (tp *Tape) Cells() iter.Seq2[int, byte] {
	negative := func(yield func(index int, value byte) bool) {
		for slot := len(tp.neg) - 1; slot >= 0; slot-- {
			if !yield(-1-slot, tp.neg[slot]) {
				return
			}
		}
	}
	positive := func(yield func(index int, value byte) bool) {
		for index, value := range tp.pos {
			if !yield(index, value) {
				return
			}
		}
	}

	return internal.IterSeq2Concat(negative, positive)
}
