package emulator

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/brainfuck/vm"
)

// Breakpoint conditions are starlark expressions evaluated against the
// machine state. The environment provides:
//
//	ip       int  instruction pointer
//	cursor   int  tape address of the active cell
//	value    int  value of the active cell
//	cell(i)  int  value of the cell at signed address i
//
// Example: "value == 10 and cursor > 0".
type condition struct {
	expr string
}

// compileCondition validates an expression without evaluating it.
func compileCondition(expr string) (cond *condition, err error) {
	opts := syntax.FileOptions{}
	_, err = opts.ParseExpr("condition", expr, 0)
	if err != nil {
		return
	}

	cond = &condition{expr: expr}
	return
}

// eval evaluates the condition against the machine state.
func (cond *condition) eval(st *vm.State) (hit bool, err error) {
	cell := starlark.NewBuiltin("cell", func(
		thread *starlark.Thread,
		fn *starlark.Builtin,
		args starlark.Tuple,
		kwargs []starlark.Tuple,
	) (starlark.Value, error) {
		var index int
		if err := starlark.UnpackPositionalArgs("cell", args, kwargs, 1, &index); err != nil {
			return nil, err
		}
		return starlark.MakeInt(int(st.Tape().At(index))), nil
	})

	pred := starlark.StringDict{
		"ip":     starlark.MakeInt(st.Ip()),
		"cursor": starlark.MakeInt(st.Cursor()),
		"value":  starlark.MakeInt(int(st.Tape().At(st.Cursor()))),
		"cell":   cell,
	}

	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	result, err := starlark.EvalOptions(&opts, &thread, "condition", cond.expr, pred)
	if err != nil {
		return
	}

	hit = bool(result.Truth())
	return
}
