// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"fmt"
	"strings"

	"github.com/scenedebug/scenedebug/peer"
	"github.com/scenedebug/scenedebug/value"
)

// flushWindowMillis is the rate-limit window length (spec.md §4.3
// step 5, §6).
const flushWindowMillis = 1000

// flushOutput is C3: it drains the output and error buffers to the
// peer, coalescing adjacent plain LOG lines into a single message,
// and resets the per-window rate-limit counters once 1000ms have
// elapsed since the last reset. callerID is whichever thread is
// pumping — MainThreadID for the idle path, or the breaking thread's
// id from inside Debug.
func (a *Agent) flushOutput(callerID int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.flushing.Store(true)
	a.flushThreadID.Store(int64(callerID))
	defer a.flushing.Store(false)

	if a.closed || !a.peer.IsConnected() {
		return
	}

	if a.nMessagesDropped > 0 {
		text := fmt.Sprintf("Too many messages! %d messages were dropped. Consider throttling the driver or raising max_queued_messages.", a.nMessagesDropped)
		if a.putFrameLocked("error", callerID, errorRecordPayload(overflowRecord("TOO_MANY_MESSAGES", text, a.nowMillis()))) {
			a.nMessagesDropped = 0
		}
	}

	a.flushOutputLinesLocked(callerID)

	for _, rec := range a.errorRecords {
		a.putFrameLocked("error", callerID, errorRecordPayload(rec))
	}
	a.errorRecords = a.errorRecords[:0]

	a.maybeResetWindowLocked()
}

// flushOutputLinesLocked implements spec.md §4.3 step 3's coalescing
// walk: consecutive LOG lines merge into one LOG message joined by
// "\n"; ERROR and LOG_RICH lines break the run and flush individually.
func (a *Agent) flushOutputLinesLocked(callerID int) {
	if len(a.outputLines) == 0 {
		return
	}

	var strs value.Array
	var kinds value.Array
	var pendingLogGroup []string

	flushPendingGroup := func() {
		if len(pendingLogGroup) == 0 {
			return
		}
		strs = append(strs, strings.Join(pendingLogGroup, "\n"))
		kinds = append(kinds, int64(LineLog))
		pendingLogGroup = nil
	}

	for _, line := range a.outputLines {
		if line.Kind == LineLog {
			pendingLogGroup = append(pendingLogGroup, line.Text)
			continue
		}
		flushPendingGroup()
		strs = append(strs, line.Text)
		kinds = append(kinds, int64(line.Kind))
	}
	flushPendingGroup()

	a.putFrameLocked("output", callerID, value.Array{strs, kinds})
	a.outputLines = a.outputLines[:0]
}

// maybeResetWindowLocked implements spec.md §4.3 step 5. Note that
// nMessagesDropped is deliberately excluded — it only resets when its
// own overflow message is successfully delivered, above.
func (a *Agent) maybeResetWindowLocked() {
	now := a.nowMillis()
	if now-a.lastResetMs <= flushWindowMillis {
		return
	}
	a.lastResetMs = now
	a.charCount = 0
	a.errCount = 0
	a.warnCount = 0
	a.nErrorsDropped = 0
	a.nWarningsDropped = 0
	a.warnedErrorsThisWindow = false
	a.warnedWarningsThisWindow = false
}

// putFrameLocked sends verb/payload to the peer. a.mu must already be
// held by the caller. Reports whether the send succeeded; any failure
// increments nMessagesDropped (spec.md §4.3's "any attempted
// send_message failure").
func (a *Agent) putFrameLocked(verb string, threadID int, payload value.Array) bool {
	if err := a.peer.PutMessage(peer.Frame{Verb: verb, ThreadID: threadID, Payload: payload}); err != nil {
		a.nMessagesDropped++
		return false
	}
	return true
}

// errorRecordPayload serializes an ErrorRecord to the wire array
// shape: [func, file, line, message, description, warning, hr, min,
// sec, msec, editor_notify, callstack].
func errorRecordPayload(rec ErrorRecord) value.Array {
	callstack := make(value.Array, 0, len(rec.Callstack))
	for _, frame := range rec.Callstack {
		callstack = append(callstack, value.Array{frame.File, int64(frame.Line), frame.Func})
	}
	return value.Array{
		rec.Func,
		rec.File,
		int64(rec.Line),
		rec.Message,
		rec.Description,
		rec.Warning,
		int64(rec.Timestamp.Hr),
		int64(rec.Timestamp.Min),
		int64(rec.Timestamp.Sec),
		int64(rec.Timestamp.Msec),
		rec.EditorNotify,
		callstack,
	}
}
