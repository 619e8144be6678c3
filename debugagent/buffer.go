// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import "github.com/scenedebug/scenedebug/scripthost"

// RecordPrint is the print hook (C1). It appends up to
// max(0, MaxCharsPerSecond - charCount) characters of text as an
// OutputLine. callerID identifies the calling thread for the C8
// reentrancy check — it plays the role a native thread id would play
// in an engine with real hook registration; see the Agent doc comment
// for why this package takes it explicitly instead of guessing it.
func (a *Agent) RecordPrint(callerID int, text string, isError, isRich bool) {
	// C8: test the reentrancy guard before acquiring the mutex — the
	// mutex is already held by the flusher on flushThreadID.
	if a.isReentrant(callerID) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	remaining := a.cfg.MaxCharsPerSecond - a.charCount
	if remaining < 0 {
		remaining = 0
	}
	if remaining == 0 {
		return
	}

	accepted := text
	truncated := false
	if len(text) > remaining {
		accepted = text[:remaining]
		truncated = true
	}
	a.charCount += len(accepted)

	if !a.peer.IsConnected() || len(accepted) == 0 {
		return
	}

	kind := LineLog
	if isError {
		kind = LineError
	} else if isRich {
		kind = LineLogRich
	}
	if truncated {
		a.outputLines = append(a.outputLines, OutputLine{Text: accepted + "[...]", Kind: kind})
		a.outputLines = append(a.outputLines, OutputLine{Text: "[output overflow, print less text!]", Kind: LineError})
		return
	}
	a.outputLines = append(a.outputLines, OutputLine{Text: accepted, Kind: kind})
}

// RecordError is the error hook (C2). It builds an ErrorRecord,
// stamps its timestamp and current script stack, then enforces the
// applicable per-second budget.
func (a *Agent) RecordError(callerID int, in ErrorInput) {
	if a.isReentrant(callerID) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	var callstack []scripthost.StackFrame
	if a.scripts != nil {
		callstack = a.scripts.CurrentStack()
	}
	record := ErrorRecord{
		Func:         in.Func,
		File:         in.File,
		Line:         in.Line,
		Message:      in.Message,
		Description:  in.Description,
		Warning:      in.Warning,
		EditorNotify: in.EditorNotify,
		Timestamp:    timestampFromMillis(a.nowMillis()),
		Callstack:    callstack,
	}

	connected := a.peer.IsConnected()

	if in.Warning {
		a.warnCount++
		if a.warnCount > a.cfg.MaxWarningsPerSecond {
			a.nWarningsDropped++
			if !a.warnedWarningsThisWindow {
				a.warnedWarningsThisWindow = true
				if connected {
					a.errorRecords = append(a.errorRecords, overflowRecord(
						"TOO_MANY_WARNINGS",
						"Too many warnings! Ignoring warnings for up to 1 second.",
						a.nowMillis(),
					))
				}
			}
			return
		}
		if connected {
			a.errorRecords = append(a.errorRecords, record)
		}
		return
	}

	a.errCount++
	if a.errCount > a.cfg.MaxErrorsPerSecond {
		a.nErrorsDropped++
		if !a.warnedErrorsThisWindow {
			a.warnedErrorsThisWindow = true
			if connected {
				a.errorRecords = append(a.errorRecords, overflowRecord(
					"TOO_MANY_ERRORS",
					"Too many errors! Ignoring errors for up to 1 second.",
					a.nowMillis(),
				))
			}
		}
		return
	}
	if connected {
		a.errorRecords = append(a.errorRecords, record)
	}
}

func overflowRecord(message, description string, nowMs int64) ErrorRecord {
	return ErrorRecord{
		Message:     message,
		Description: description,
		Timestamp:   timestampFromMillis(nowMs),
	}
}

// isReentrant implements C8: it must run before a.mu is acquired,
// because a.mu is already held by the flusher on flushThreadID while
// flushing is true. flushing/flushThreadID are atomics for exactly
// this reason — reading them never blocks on, or participates in,
// a.mu.
func (a *Agent) isReentrant(callerID int) bool {
	return a.flushing.Load() && int64(callerID) == a.flushThreadID.Load()
}
