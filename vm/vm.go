// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"unicode/utf8"

	"github.com/ezrec/brainfuck/io"
	"github.com/ezrec/brainfuck/tape"
)

// Config selects the non-default behaviors of the machine. All settings are
// fixed at construction; the tape addressing mode in particular is checked
// once here, never per operation.
type Config struct {
	TapeSize        int  // Positive store size; 0 selects tape.DefaultSize.
	Wrap            bool // Wraparound tape addressing instead of growth.
	NewlineZero     bool // Store an input newline byte as zero.
	PrecomputeJumps bool // Matched-bracket table instead of linear scans.
}

// State is the complete machine state. It is mutated exclusively by Step
// and owned by a single caller; there is no locking.
type State struct {
	code   []byte     // program source, never mutated after load
	tape   *tape.Tape // memory tape
	ip     int        // instruction pointer
	cursor int        // signed tape address of the active cell
	output []byte     // bytes pending multi-byte character assembly

	newlineZero bool
	jumps       map[int]int // bracket matches, both directions; nil when scanning

	in  io.Source
	out io.Sink
}

// New creates a machine with the default configuration: tape pre-sized to
// tape.DefaultSize, pointers zeroed, wraparound off, newline-to-zero off.
func New(code string, in io.Source, out io.Sink) (st *State) {
	return Config{}.New(code, in, out)
}

// New creates a machine from the configuration. The input source and output
// sink are injected here; the machine never touches process stdio.
func (cfg Config) New(code string, in io.Source, out io.Sink) (st *State) {
	mode := tape.Expand
	if cfg.Wrap {
		mode = tape.Wrap
	}

	st = &State{
		code:        []byte(code),
		tape:        tape.New(cfg.TapeSize, mode),
		newlineZero: cfg.NewlineZero,
		in:          in,
		out:         out,
	}

	if cfg.PrecomputeJumps {
		st.jumps = matchBrackets(st.code)
	}

	return
}

// Code returns the program bytes. The program is immutable after load.
func (st *State) Code() []byte {
	return st.code
}

// Tape returns the memory tape.
func (st *State) Tape() *tape.Tape {
	return st.tape
}

// Ip returns the instruction pointer.
func (st *State) Ip() int {
	return st.ip
}

// Cursor returns the signed tape address of the active cell.
func (st *State) Cursor() int {
	return st.cursor
}

// Pending returns the output bytes held back for character assembly.
func (st *State) Pending() []byte {
	return st.output
}

// Halted reports whether the instruction pointer is at or past the end of
// the program.
func (st *State) Halted() bool {
	return st.ip >= len(st.code)
}

// Step decodes and executes exactly one instruction. It returns false and
// performs no mutation once the instruction pointer is at or beyond the end
// of the program. There is no step limit; a non-terminating program runs
// for as long as the caller keeps stepping.
func (st *State) Step() bool {
	if st.ip >= len(st.code) {
		return false
	}

	wrap := st.tape.Mode() == tape.Wrap

	switch st.code[st.ip] {
	case OP_INCREMENT:
		st.tape.Set(st.cursor, st.tape.At(st.cursor)+1)
		st.ip++
	case OP_DECREMENT:
		st.tape.Set(st.cursor, st.tape.At(st.cursor)-1)
		st.ip++
	case OP_SHIFT_LEFT:
		if wrap && st.cursor <= 0 {
			st.cursor = st.tape.Len() - 1
		} else {
			st.cursor--
		}
		st.ip++
	case OP_SHIFT_RIGHT:
		if wrap && st.cursor >= st.tape.Len() {
			st.cursor = 0
		} else {
			st.cursor++
		}
		st.ip++
	case OP_PRINT:
		st.print()
		st.ip++
	case OP_INPUT:
		st.input()
		st.ip++
	case OP_LOOP_BEGIN:
		if st.tape.At(st.cursor) == 0 {
			if match, ok := st.forwardMatch(); ok {
				st.ip = match + 1
			} else {
				// Unmatched bracket: implicit jump to program end.
				st.ip = len(st.code)
			}
		} else {
			st.ip++
		}
	case OP_LOOP_END:
		if st.tape.At(st.cursor) != 0 {
			if match, ok := st.backwardMatch(); ok {
				st.ip = match + 1
			} else {
				st.ip = len(st.code)
			}
		} else {
			st.ip++
		}
	default:
		// Not an opcode; comment or whitespace.
		st.ip++
	}

	return true
}

// print appends the current cell to the output accumulator and emits the
// accumulator as soon as the whole of it is valid UTF-8. An accumulator
// holding a definitively invalid sequence is retained just the same as an
// incomplete prefix, permanently blocking further output; the accumulator
// is never discarded.
func (st *State) print() {
	st.output = append(st.output, st.tape.At(st.cursor))

	if utf8.Valid(st.output) {
		_ = st.out.Print(string(st.output))
		st.output = st.output[:0]
	}
}

// input stores one byte from the input source at the cursor. End of input
// reads as zero; a newline byte reads as zero when so configured.
func (st *State) input() {
	value, err := st.in.ReadByte()
	if err != nil {
		value = 0
	} else if value == NEWLINE && st.newlineZero {
		value = 0
	}

	st.tape.Set(st.cursor, value)
}

// forwardMatch locates the loop-end matching the loop-begin at the
// instruction pointer, by jump table when precomputed, otherwise by a
// linear bracket-balance scan.
func (st *State) forwardMatch() (match int, ok bool) {
	if st.jumps != nil {
		match, ok = st.jumps[st.ip]
		return
	}

	depth := 0
	for i := st.ip; i < len(st.code); i++ {
		switch st.code[i] {
		case OP_LOOP_BEGIN:
			depth++
		case OP_LOOP_END:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return
}

// backwardMatch locates the loop-begin matching the loop-end at the
// instruction pointer, scanning symmetrically to forwardMatch.
func (st *State) backwardMatch() (match int, ok bool) {
	if st.jumps != nil {
		match, ok = st.jumps[st.ip]
		return
	}

	depth := 0
	for i := st.ip; i >= 0; i-- {
		switch st.code[i] {
		case OP_LOOP_END:
			depth++
		case OP_LOOP_BEGIN:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return
}

// matchBrackets pairs every balanced loop-begin with its loop-end, in both
// directions. Unmatched brackets have no entry, which the branch ops treat
// as a jump to program end, same as a failed scan.
func matchBrackets(code []byte) (jumps map[int]int) {
	jumps = map[int]int{}

	var stack []int
	for i, value := range code {
		switch value {
		case OP_LOOP_BEGIN:
			stack = append(stack, i)
		case OP_LOOP_END:
			if len(stack) > 0 {
				begin := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				jumps[begin] = i
				jumps[i] = begin
			}
		}
	}

	return
}
