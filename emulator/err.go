package emulator

import (
	"github.com/ezrec/brainfuck/translate"
)

var f = translate.From

// ErrCondition indicates a breakpoint condition that failed to parse or
// evaluate.
type ErrCondition struct {
	Expr string
	Err  error
}

func (err ErrCondition) Error() string {
	return f("condition '%v' %v", err.Expr, err.Err)
}

func (err ErrCondition) Unwrap() error {
	return err.Err
}
