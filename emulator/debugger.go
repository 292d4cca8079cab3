package emulator

import (
	"slices"
)

// StopReason describes why a debugger run returned to the caller.
type StopReason int

const (
	StopHalted     = StopReason(0) // program halted
	StopBreakpoint = StopReason(1) // breakpoint
	StopStepLimit  = StopReason(2) // step limit
	StopCallback   = StopReason(3) // callback
	StopCondition  = StopReason(4) // condition error
)

func (reason StopReason) String() string {
	switch reason {
	case StopHalted:
		return "halted"
	case StopBreakpoint:
		return "breakpoint"
	case StopStepLimit:
		return "step limit"
	case StopCallback:
		return "callback"
	case StopCondition:
		return "condition error"
	}

	return "unknown"
}

// ExecutionEvent is delivered to the event callback during a run.
type ExecutionEvent int

const (
	EventStep       = ExecutionEvent(0) // before each instruction
	EventBreakpoint = ExecutionEvent(1) // on a breakpoint hit
	EventHalt       = ExecutionEvent(2) // when the program halts
)

// ExecutionResult reports the outcome of a debugger Step or Run.
type ExecutionResult struct {
	StopReason    StopReason
	StepsExecuted int
	LastIp        int // instruction pointer at the stop point
	Breakpoint    int // breakpoint position hit, or -1
	Err           error
}

// Breakpoint pauses a run at an instruction position, optionally gated by
// a condition expression (see eval.go for the expression environment).
type Breakpoint struct {
	Position  int
	Condition string // empty means unconditional
	Enabled   bool
	Hits      int

	cond *condition
}

// EventCallback observes a run step by step. Returning false stops the run.
type EventCallback func(event ExecutionEvent, result *ExecutionResult) bool

// Debugger drives an emulator with breakpoints and step events. It owns no
// machine state of its own beyond the breakpoint table.
type Debugger struct {
	emu         *Emulator
	breakpoints map[int]*Breakpoint
	callback    EventCallback
}

// NewDebugger wraps an emulator for instrumented execution.
func NewDebugger(emu *Emulator) *Debugger {
	return &Debugger{
		emu:         emu,
		breakpoints: map[int]*Breakpoint{},
	}
}

// Emulator returns the wrapped emulator.
func (dbg *Debugger) Emulator() *Emulator {
	return dbg.emu
}

// SetEventCallback installs the run observer. A nil callback removes it.
func (dbg *Debugger) SetEventCallback(callback EventCallback) {
	dbg.callback = callback
}

// AddBreakpoint sets an unconditional breakpoint at an instruction
// position, replacing any previous breakpoint there.
func (dbg *Debugger) AddBreakpoint(position int) (bp *Breakpoint) {
	bp = &Breakpoint{
		Position: position,
		Enabled:  true,
	}
	dbg.breakpoints[position] = bp

	return
}

// AddConditionalBreakpoint sets a breakpoint gated by an expression over
// the machine state. The expression is compiled here; a malformed
// expression is rejected without installing the breakpoint.
func (dbg *Debugger) AddConditionalBreakpoint(position int, expr string) (bp *Breakpoint, err error) {
	cond, err := compileCondition(expr)
	if err != nil {
		err = ErrCondition{Expr: expr, Err: err}
		return
	}

	bp = &Breakpoint{
		Position:  position,
		Condition: expr,
		Enabled:   true,
		cond:      cond,
	}
	dbg.breakpoints[position] = bp

	return
}

// RemoveBreakpoint clears the breakpoint at a position, if any.
func (dbg *Debugger) RemoveBreakpoint(position int) {
	delete(dbg.breakpoints, position)
}

// Breakpoints returns all breakpoints ordered by position.
func (dbg *Debugger) Breakpoints() (bps []*Breakpoint) {
	for _, bp := range dbg.breakpoints {
		bps = append(bps, bp)
	}
	slices.SortFunc(bps, func(a, b *Breakpoint) int {
		return a.Position - b.Position
	})

	return
}

// Step executes a single instruction regardless of breakpoints.
func (dbg *Debugger) Step() (result *ExecutionResult) {
	result = &ExecutionResult{
		LastIp:     dbg.emu.State().Ip(),
		Breakpoint: -1,
	}

	if dbg.emu.Tick() {
		result.StopReason = StopHalted
		return
	}

	result.StepsExecuted = 1
	result.LastIp = dbg.emu.State().Ip()

	return
}

// Run executes until the program halts, a breakpoint or the step limit is
// hit, or the callback declines to continue. A maxSteps of 0 means
// unlimited. When starting on a breakpoint the first instruction executes
// before breakpoints are considered again.
func (dbg *Debugger) Run(maxSteps int) (result *ExecutionResult) {
	st := dbg.emu.State()
	result = &ExecutionResult{
		LastIp:     st.Ip(),
		Breakpoint: -1,
	}

	for {
		result.LastIp = st.Ip()

		if st.Halted() {
			result.StopReason = StopHalted
			if dbg.callback != nil {
				dbg.callback(EventHalt, result)
			}
			return
		}

		if result.StepsExecuted > 0 {
			bp, hit, err := dbg.check(st.Ip())
			if err != nil {
				result.StopReason = StopCondition
				result.Err = err
				result.Breakpoint = bp.Position
				return
			}
			if hit {
				bp.Hits++
				result.StopReason = StopBreakpoint
				result.Breakpoint = bp.Position
				if dbg.callback != nil {
					dbg.callback(EventBreakpoint, result)
				}
				return
			}
		}

		if dbg.callback != nil && !dbg.callback(EventStep, result) {
			result.StopReason = StopCallback
			return
		}

		dbg.emu.Tick()
		result.StepsExecuted++

		if maxSteps > 0 && result.StepsExecuted >= maxSteps {
			result.StopReason = StopStepLimit
			result.LastIp = st.Ip()
			return
		}
	}
}

// check tests the breakpoint at a position against the machine state.
func (dbg *Debugger) check(position int) (bp *Breakpoint, hit bool, err error) {
	bp, ok := dbg.breakpoints[position]
	if !ok || !bp.Enabled {
		bp = nil
		return
	}

	if bp.cond == nil {
		hit = true
		return
	}

	hit, err = bp.cond.eval(dbg.emu.State())
	if err != nil {
		err = ErrCondition{Expr: bp.Condition, Err: err}
	}

	return
}
