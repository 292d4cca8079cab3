package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/brainfuck/io"
)

// runProgram steps a machine to completion and returns it with its output.
func runProgram(cfg Config, code string, input string) (st *State, output *bytes.Buffer) {
	output = &bytes.Buffer{}
	st = cfg.New(code, &io.Tape{Input: strings.NewReader(input)}, &io.Tape{Output: output})

	for st.Step() {
	}

	return
}

func TestStepHalted(t *testing.T) {
	assert := assert.New(t)

	st := New("", nil, nil)
	assert.True(st.Halted())
	assert.False(st.Step())
	assert.Equal(0, st.Ip())
	assert.Equal(0, st.Cursor())

	// Step is false exactly when ip >= len(code), with no mutation.
	st, _ = runProgram(Config{}, "+>", "")
	assert.True(st.Halted())
	assert.False(st.Step())
	assert.Equal(2, st.Ip())
	assert.Equal(1, st.Cursor())
	assert.Equal(byte(1), st.Tape().At(0))
}

func TestWrappingArithmetic(t *testing.T) {
	assert := assert.New(t)

	st, _ := runProgram(Config{}, strings.Repeat("+", 256), "")
	assert.Equal(byte(0), st.Tape().At(0))

	st, _ = runProgram(Config{}, strings.Repeat("+", 255), "")
	assert.Equal(byte(255), st.Tape().At(0))

	st, _ = runProgram(Config{}, "-", "")
	assert.Equal(byte(255), st.Tape().At(0))
}

func TestShift(t *testing.T) {
	assert := assert.New(t)

	st, _ := runProgram(Config{}, ">>><", "")
	assert.Equal(2, st.Cursor())

	// The cursor may go negative in expanding mode.
	st, _ = runProgram(Config{}, "<<", "")
	assert.Equal(-2, st.Cursor())
}

func TestShiftWrap(t *testing.T) {
	assert := assert.New(t)

	// Shifting left from index 0 lands on the last positive index.
	st, _ := runProgram(Config{TapeSize: 4, Wrap: true}, "<", "")
	assert.Equal(3, st.Cursor())

	// Shifting right from the last positive index reaches the bound, then
	// folds back to 0.
	st, _ = runProgram(Config{TapeSize: 4, Wrap: true}, ">>>>", "")
	assert.Equal(4, st.Cursor())
	st, _ = runProgram(Config{TapeSize: 4, Wrap: true}, ">>>>>", "")
	assert.Equal(0, st.Cursor())
}

func TestLoop(t *testing.T) {
	assert := assert.New(t)

	// "+[-]": increments to 1, enters the loop, clears the cell, exits.
	st, _ := runProgram(Config{}, "+[-]", "")
	assert.Equal(byte(0), st.Tape().At(0))
	assert.Equal(4, st.Ip())
	assert.False(st.Step())
}

func TestLoopSkipNested(t *testing.T) {
	assert := assert.New(t)

	// A zero cell must skip past the matching bracket of "[[]]", the final
	// one, not the first.
	st := New("[[]]", nil, nil)
	assert.True(st.Step())
	assert.Equal(4, st.Ip())
	assert.False(st.Step())
}

func TestLoopUnmatched(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code string
		ip   int
	}){
		{"begin_zero_cell", "[", 1},
		{"begin_zero_cell_tail", "[++", 3},
		{"begin_nonzero_cell", "+[", 2},
		{"end_nonzero_cell", "+]", 2},
		{"end_extra_close", "+[-]+]", 6},
	}

	for _, entry := range table {
		st, _ := runProgram(Config{}, entry.code, "")
		assert.Equal(entry.ip, st.Ip(), entry.name)
		assert.False(st.Step(), entry.name)
	}
}

func TestPrint(t *testing.T) {
	assert := assert.New(t)

	// "++." leaves cell 0 at 2 and emits the single byte 0x02.
	st, output := runProgram(Config{}, "++.", "")
	assert.Equal(byte(2), st.Tape().At(0))
	assert.Equal([]byte{0x02}, output.Bytes())
	assert.Empty(st.Pending())
}

func TestPrintMultibyte(t *testing.T) {
	assert := assert.New(t)

	// U+00E9 is 0xC3 0xA9. The first byte is an incomplete prefix held
	// back; the second completes the character.
	code := strings.Repeat("+", 0xc3) + "." + strings.Repeat("-", 0xc3-0xa9) + "."
	st, output := runProgram(Config{}, code, "")
	assert.Equal("é", output.String())
	assert.Empty(st.Pending())
}

func TestPrintInvalidSequence(t *testing.T) {
	assert := assert.New(t)

	// 0xFF can never begin a UTF-8 character. The accumulator is retained
	// anyway and blocks all further output.
	code := strings.Repeat("+", 0xff) + ".>" + strings.Repeat("+", 'A') + "."
	st, output := runProgram(Config{}, code, "")
	assert.Empty(output.Bytes())
	assert.Equal([]byte{0xff, 'A'}, st.Pending())
}

func TestInput(t *testing.T) {
	assert := assert.New(t)

	// ",." echoes one byte.
	st, output := runProgram(Config{}, ",.", "A")
	assert.Equal(byte('A'), st.Tape().At(0))
	assert.Equal("A", output.String())

	// End of input reads as zero.
	st, _ = runProgram(Config{}, "+,", "")
	assert.Equal(byte(0), st.Tape().At(0))
}

func TestInputNewline(t *testing.T) {
	assert := assert.New(t)

	st, _ := runProgram(Config{}, ",", "\n")
	assert.Equal(byte('\n'), st.Tape().At(0))

	st, _ = runProgram(Config{NewlineZero: true}, ",", "\n")
	assert.Equal(byte(0), st.Tape().At(0))
}

func TestCommentBytes(t *testing.T) {
	assert := assert.New(t)

	st, output := runProgram(Config{}, "emit: . then inc: + then emit: .", "")
	assert.True(st.Halted())

	// The letters and spaces are no-ops; only '+' and the two '.' count.
	// The first '.' emits 0x00, the second 0x01.
	assert.Equal([]byte{0x00, 0x01}, output.Bytes())
}

func TestPrecomputedJumps(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		code  string
		input string
	}){
		{"clear", "+++[-]", ""},
		{"nested_skip", "[[]]", ""},
		{"nested_run", "++[>++[-]<-]", ""},
		{"unmatched_begin", "[++", ""},
		{"unmatched_end", "+]", ""},
		{"unmatched_end_nested", "+[-]+]", ""},
		{"echo_loop", ",[.,]", "abc"},
	}

	for _, entry := range table {
		scan, scanOut := runProgram(Config{}, entry.code, entry.input)
		jt, jtOut := runProgram(Config{PrecomputeJumps: true}, entry.code, entry.input)

		assert.Equal(scan.Ip(), jt.Ip(), entry.name)
		assert.Equal(scan.Cursor(), jt.Cursor(), entry.name)
		assert.Equal(scanOut.Bytes(), jtOut.Bytes(), entry.name)

		for index, value := range scan.Tape().Cells() {
			assert.Equal(value, jt.Tape().At(index), "%s cell %v", entry.name, index)
		}
	}
}

func TestMatchBrackets(t *testing.T) {
	assert := assert.New(t)

	jumps := matchBrackets([]byte("+[>[-]<]]"))
	assert.Equal(map[int]int{1: 7, 7: 1, 3: 5, 5: 3}, jumps)
}
