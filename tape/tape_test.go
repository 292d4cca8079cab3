package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTapeNew(t *testing.T) {
	assert := assert.New(t)

	tp := New(0, Expand)
	assert.Equal(DefaultSize, tp.Len())
	assert.Equal(Expand, tp.Mode())

	tp = New(16, Wrap)
	assert.Equal(16, tp.Len())
	assert.Equal(Wrap, tp.Mode())
}

func TestTapeZeroReads(t *testing.T) {
	assert := assert.New(t)

	tp := New(8, Expand)

	for _, index := range []int{0, 1, 7, 8, 1000, -1, -1000} {
		assert.Equal(byte(0), tp.At(index), "index %v", index)
	}

	// Reads never allocate.
	lo, hi := tp.Bounds()
	assert.Equal(0, lo)
	assert.Equal(8, hi)
}

func TestTapeWriteRead(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		index   int
		value   byte
		length  int // expected positive length after write
	}){
		{"origin", 0, 0x11, 8},
		{"in_range", 7, 0x22, 8},
		{"grow_pos", 8, 0x33, 9},
		{"grow_pos_far", 100, 0x44, 101},
		{"neg_one", -1, 0x55, 101},
		{"neg_far", -50, 0x66, 101},
	}

	tp := New(8, Expand)
	for _, entry := range table {
		tp.Set(entry.index, entry.value)
		assert.Equal(entry.value, tp.At(entry.index), entry.name)
		assert.Equal(entry.length, tp.Len(), entry.name)
	}

	// Earlier writes survive later growth.
	assert.Equal(byte(0x11), tp.At(0))
	assert.Equal(byte(0x55), tp.At(-1))

	// Untouched cells between grown bounds read zero.
	assert.Equal(byte(0), tp.At(50))
	assert.Equal(byte(0), tp.At(-25))
}

func TestTapeWrap(t *testing.T) {
	assert := assert.New(t)

	tp := New(4, Wrap)

	// Any index at or above the bound folds to 0.
	tp.Set(0, 0xaa)
	assert.Equal(byte(0xaa), tp.At(4))
	assert.Equal(byte(0xaa), tp.At(1000))

	// Any negative index folds to the last positive index.
	tp.Set(3, 0xbb)
	assert.Equal(byte(0xbb), tp.At(-1))
	assert.Equal(byte(0xbb), tp.At(-1000))

	// Writes fold the same way, and never grow the tape.
	tp.Set(4, 0xcc)
	assert.Equal(byte(0xcc), tp.At(0))
	tp.Set(-1, 0xdd)
	assert.Equal(byte(0xdd), tp.At(3))
	assert.Equal(4, tp.Len())
}

func TestTapeCells(t *testing.T) {
	assert := assert.New(t)

	tp := New(2, Expand)
	tp.Set(-2, 0x11)
	tp.Set(0, 0x22)
	tp.Set(1, 0x33)

	var indexes []int
	var values []byte
	for index, value := range tp.Cells() {
		indexes = append(indexes, index)
		values = append(values, value)
	}

	assert.Equal([]int{-2, -1, 0, 1}, indexes)
	assert.Equal([]byte{0x11, 0x00, 0x22, 0x33}, values)

	lo, hi := tp.Bounds()
	assert.Equal(-2, lo)
	assert.Equal(2, hi)
}
