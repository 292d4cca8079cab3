package vm

// The eight recognized opcode bytes. Any other byte in the program is a
// no-op, which permits free-form comments and whitespace in source text.
const (
	OP_INCREMENT   = byte('+') // wrapping increment of the current cell
	OP_DECREMENT   = byte('-') // wrapping decrement of the current cell
	OP_SHIFT_LEFT  = byte('<') // move the cursor one cell down
	OP_SHIFT_RIGHT = byte('>') // move the cursor one cell up
	OP_PRINT       = byte('.') // emit the current cell to the output stream
	OP_INPUT       = byte(',') // store one input byte at the cursor
	OP_LOOP_BEGIN  = byte('[') // enter the loop body, or skip it when the cell is zero
	OP_LOOP_END    = byte(']') // repeat the loop body while the cell is nonzero
)

// NEWLINE is the input byte optionally translated to zero.
const NEWLINE = byte('\n')

// IsOpcode reports whether a program byte is one of the recognized opcodes.
func IsOpcode(value byte) bool {
	switch value {
	case OP_INCREMENT, OP_DECREMENT,
		OP_SHIFT_LEFT, OP_SHIFT_RIGHT,
		OP_PRINT, OP_INPUT,
		OP_LOOP_BEGIN, OP_LOOP_END:
		return true
	}

	return false
}
