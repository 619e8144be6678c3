// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

// Idle is the idle-path entrypoint a host calls once per frame from
// threadID's own goroutine (MainThreadID for a single-threaded host):
// it flushes buffered output/errors, drains and dispatches every
// message waiting in threadID's inbox, ticks every registered
// profiler, and ticks the Performance monitor (spec.md §4.9). Idle
// never blocks. Unknown namespaces and uncaptured commands are not
// logged on this path per spec.md §4.4/§4.6's rationale, carried by
// dispatch's insideBreak=false; other warnings (a failed peer poll, a
// non-numeric custom monitor, a failing capture handler) are still
// logged.
func (a *Agent) Idle(threadID int) error {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return ErrClosed
	}

	a.flushOutput(threadID)
	a.pollInbox()

	for {
		msg, ok := a.popMessage(threadID)
		if !ok {
			break
		}
		a.dispatch(msg.Verb, msg.Payload, threadID, false)
	}

	if a.profilers != nil {
		a.profilers.Tick()
	}
	a.tickPerformance(threadID)

	return nil
}
