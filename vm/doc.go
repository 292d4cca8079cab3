// Package vm implements the execution engine for the brainfuck machine.
//
// The engine holds the program bytes, the instruction pointer, the tape
// cursor, and a pending-output accumulator. Execution is driven one
// instruction at a time through Step; the caller owns the run loop, which
// keeps instrumentation such as tracing and breakpoints outside the core.
//
// Loop brackets are matched by a linear balance scan each time a branch is
// taken. An optional precomputed jump table (see Config) removes the rescan
// with identical observable behavior.
package vm
