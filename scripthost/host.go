// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package scripthost

import "github.com/scenedebug/scenedebug/value"

// Host is the script-language adapter debugagent.Agent breaks into.
// A real implementation wraps whatever interpreter the host
// application embeds; [Mock] is a minimal reference implementation.
type Host interface {
	// CurrentError returns the error message that triggered the
	// current break, or "" if the break was not error-triggered.
	CurrentError() string

	// StackDepth returns the number of frames currently available
	// (0 if the VM is not inside a call when the break happened).
	StackDepth() int

	// CurrentStack returns the full current call stack, innermost
	// frame first. Attached verbatim to error records (spec.md §4.2)
	// and sliced to StackDepth frames for get_stack_dump (§4.6).
	CurrentStack() []StackFrame

	// SetDepth sets the script debugger's stepping depth and
	// remaining-lines counter, per spec.md §4.6's step/next/out/
	// continue handling. depth/linesLeft follow the distilled spec's
	// own convention: step sets (-1,1), next sets (0,1), out sets
	// (1,1), continue sets (-1,-1).
	SetDepth(depth, linesLeft int)

	// StackFrameVars returns the members/locals/globals visible at
	// the given stack level.
	StackFrameVars(level int) (FrameVars, error)

	// SetBreakpoint inserts (enabled=true) or removes (enabled=false)
	// a breakpoint at source:line.
	SetBreakpoint(source string, line int, enabled bool) error

	// SetSkipBreakpoints / SkipBreakpoints get and set whether
	// non-error breakpoints are currently being skipped.
	SetSkipBreakpoints(skip bool)
	SkipBreakpoints() bool

	// SetIgnoreErrorBreaks / IgnoreErrorBreaks get and set whether
	// error-triggered breaks are currently being ignored.
	SetIgnoreErrorBreaks(ignore bool)
	IgnoreErrorBreaks() bool

	// Evaluate parses and executes expr against the broken instance's
	// owner, with env merged into scope as additional bindings (the
	// break loop populates env with the selected frame's locals and the
	// host's globals, as reported by StackFrameVars).
	// level selects which stack frame's locals are in scope.
	Evaluate(expr string, level int, env value.Dict) (value.Value, error)
}
