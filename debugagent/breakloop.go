// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"log/slog"
	"time"

	"github.com/scenedebug/scenedebug/scripthost"
	"github.com/scenedebug/scenedebug/value"
)

// breakThreadState is the per-thread bookkeeping Debug needs while a
// thread is inside the break loop: whatever must be restored on exit.
// Keyed in Agent.breakState by thread id for the duration of one
// Debug call.
type breakThreadState struct {
	mouseModeSaved int
	hadMouseMode   bool
}

// pumpSleep is how long Debug sleeps between pump iterations when the
// breaking thread's inbox is empty (spec.md §4.6 step 4).
const pumpSleep = 10 * time.Millisecond

// Debug is C6: the synchronous break loop. The calling goroutine
// blocks here — sending debug_enter, pumping inbound messages until a
// resume verb arrives or the peer disconnects, and sending debug_exit
// — exactly like the script VM thread that calls into a breakpoint
// handler in the distilled source. canContinue and isErrorBreakpoint
// mirror spec.md §4.6's parameters.
func (a *Agent) Debug(threadID int, canContinue, isErrorBreakpoint bool) error {
	a.mu.Lock()
	skip := a.scripts != nil && a.scripts.SkipBreakpoints() && !isErrorBreakpoint
	closed := a.closed
	disconnected := !a.peer.IsConnected()
	cannotBlock := !a.peer.CanBlock()
	a.mu.Unlock()

	if skip {
		return nil
	}
	if closed {
		return ErrClosed
	}
	if disconnected {
		return ErrPeerDisconnected
	}
	if cannotBlock {
		return ErrCannotBlock
	}
	if isErrorBreakpoint && a.scripts != nil && a.scripts.IgnoreErrorBreaks() {
		return nil
	}

	a.enterBreak(threadID, canContinue)
	defer a.exitBreak(threadID)

	for a.peer.IsConnected() {
		a.mu.Lock()
		closed := a.closed
		a.mu.Unlock()
		if closed {
			return ErrClosed
		}

		a.flushOutput(threadID)
		a.pollInbox()

		msg, ok := a.popMessage(threadID)
		if !ok {
			a.clock.Sleep(pumpSleep)
			continue
		}

		resume := a.pumpMessage(threadID, msg)
		if resume {
			return nil
		}
	}
	return ErrPeerDisconnected
}

// enterBreak sends debug_enter and arranges the main-thread mouse
// capture / non-main-thread inbox spec.md §4.6's Enter step requires.
func (a *Agent) enterBreak(threadID int, canContinue bool) {
	currentError, stackDepth := "", 0
	if a.scripts != nil {
		currentError = a.scripts.CurrentError()
		stackDepth = a.scripts.StackDepth()
	}
	_ = a.send("debug_enter", threadID, value.Array{canContinue, currentError, stackDepth > 0, int64(threadID)})

	if a.cfg.AllowFocusSteal != nil {
		a.cfg.AllowFocusSteal()
	}

	a.mu.Lock()
	state := &breakThreadState{}
	if threadID == MainThreadID && a.cfg.MouseMode != nil {
		state.mouseModeSaved = a.cfg.MouseMode.CaptureMode()
		state.hadMouseMode = true
		a.cfg.MouseMode.SetMode(MouseModeVisible)
	}
	a.breakState[threadID] = state
	if threadID != MainThreadID {
		if _, ok := a.inboxes[threadID]; !ok {
			a.inboxes[threadID] = newThreadInbox()
		}
	}
	a.mu.Unlock()
}

// exitBreak sends debug_exit and undoes enterBreak's side effects.
func (a *Agent) exitBreak(threadID int) {
	_ = a.send("debug_exit", threadID, value.Array{})

	a.mu.Lock()
	state := a.breakState[threadID]
	delete(a.breakState, threadID)
	if threadID == MainThreadID && state != nil && state.hadMouseMode && a.cfg.MouseMode != nil {
		a.cfg.MouseMode.SetMode(state.mouseModeSaved)
	}
	if threadID != MainThreadID {
		delete(a.inboxes, threadID)
	}
	a.mu.Unlock()
}

// pumpMessage handles one popped message per spec.md §4.6 step 3.
// Reports whether the pump loop should exit (a resume verb arrived).
func (a *Agent) pumpMessage(threadID int, msg inboundMessage) bool {
	switch msg.Verb {
	case "step":
		a.setDepth(-1, 1)
		return true
	case "next":
		a.setDepth(0, 1)
		return true
	case "out":
		a.setDepth(1, 1)
		return true
	case "continue":
		a.setDepth(-1, -1)
		return true
	case "break":
		a.logger.Warn("debugagent: already broken", slog.Int("thread_id", threadID))
		return false

	case "get_stack_dump":
		a.sendStackDump(threadID)
		return false
	case "get_stack_frame_vars":
		a.sendStackFrameVars(threadID, msg.Payload)
		return false
	case "reload_scripts":
		var paths []string
		for _, v := range msg.Payload {
			if s, ok := value.String(v); ok {
				paths = append(paths, s)
			}
		}
		a.deferScriptReload(false, paths)
		return false
	case "reload_all_scripts":
		a.deferScriptReload(true, nil)
		return false
	case "breakpoint":
		if len(msg.Payload) == 3 {
			line, ok1 := value.Int(msg.Payload[0])
			source, ok2 := value.String(msg.Payload[1])
			set, ok3 := value.Bool(msg.Payload[2])
			if ok1 && ok2 && ok3 {
				a.setBreakpoint(source, int(line), set)
			}
		}
		return false
	case "set_skip_breakpoints":
		if len(msg.Payload) == 1 {
			if skip, ok := value.Bool(msg.Payload[0]); ok {
				a.setSkipBreakpoints(skip)
			}
		}
		return false
	case "set_ignore_error_breaks":
		if len(msg.Payload) == 1 {
			if ignore, ok := value.Bool(msg.Payload[0]); ok {
				a.setIgnoreErrorBreaks(ignore)
			}
		}
		return false
	case "evaluate":
		a.evaluate(threadID, msg.Payload)
		return false

	default:
		_, captured := a.dispatch(msg.Verb, msg.Payload, threadID, true)
		_ = captured
		return false
	}
}

func (a *Agent) setDepth(depth, linesLeft int) {
	if a.scripts != nil {
		a.scripts.SetDepth(depth, linesLeft)
	}
}

// sendStackDump implements the "get_stack_dump" handler: every frame
// from 0 to StackDepth().
func (a *Agent) sendStackDump(threadID int) {
	if a.scripts == nil {
		_ = a.send("stack_dump", threadID, value.Array{})
		return
	}
	depth := a.scripts.StackDepth()
	frames := a.scripts.CurrentStack()
	if depth < len(frames) {
		frames = frames[:depth]
	}
	out := make(value.Array, 0, len(frames))
	for _, f := range frames {
		out = append(out, value.Array{f.File, int64(f.Line), f.Func})
	}
	_ = a.send("stack_dump", threadID, out)
}

// sendStackFrameVars implements "get_stack_frame_vars" [level]:
// stack_frame_vars [total_count] followed by one stack_frame_var per
// variable (spec.md §4.6).
func (a *Agent) sendStackFrameVars(threadID int, payload value.Array) {
	if a.scripts == nil || len(payload) != 1 {
		_ = a.send("stack_frame_vars", threadID, value.Array{int64(0)})
		return
	}
	level, ok := value.Int(payload[0])
	if !ok {
		_ = a.send("stack_frame_vars", threadID, value.Array{int64(0)})
		return
	}
	vars, err := a.scripts.StackFrameVars(int(level))
	if err != nil {
		a.logger.Warn("debugagent: StackFrameVars failed", slog.Int64("level", level), slog.String("error", err.Error()))
		_ = a.send("stack_frame_vars", threadID, value.Array{int64(0)})
		return
	}
	all := vars.All()
	_ = a.send("stack_frame_vars", threadID, value.Array{int64(len(all))})
	for _, v := range all {
		_ = a.send("stack_frame_var", threadID, value.Array{v.Name, v.Value, int64(v.Kind)})
	}
}

// evaluate implements "evaluate" [expr, frame]: parse and execute expr
// against the broken instance's owner at the given frame, with the
// frame's own locals/globals merged into the evaluation environment
// (spec.md §4.6). The distilled source additionally exposes every
// registered native singleton and script class by name; this
// implementation has no such registry to draw from — ScriptHost's own
// Evaluate is the sole extension point a Go embedder has to add more.
func (a *Agent) evaluate(threadID int, payload value.Array) {
	if a.scripts == nil || len(payload) != 2 {
		return
	}
	expr, ok1 := value.String(payload[0])
	frame, ok2 := value.Int(payload[1])
	if !ok1 || !ok2 {
		return
	}

	env := value.Dict{}
	if vars, err := a.scripts.StackFrameVars(int(frame)); err == nil {
		for _, v := range vars.Locals {
			env[v.Name] = v.Value
		}
		for _, v := range vars.Globals {
			env[v.Name] = v.Value
		}
	}

	result, err := a.scripts.Evaluate(expr, int(frame), env)
	if err != nil {
		a.logger.Warn("debugagent: evaluate failed", slog.String("expr", expr), slog.String("error", err.Error()))
		result = err.Error()
	}
	_ = a.send("evaluation_return", threadID, value.Array{expr, result, int64(scripthost.VarKindEvaluation)})
}
