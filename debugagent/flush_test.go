// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"testing"
	"time"

	"github.com/scenedebug/scenedebug/value"
)

func TestFlushResetsWindowAfterOneSecond(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 5, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})
	h.recvFrame(t) // hello

	h.agent.RecordPrint(MainThreadID, "abcde", false, false)
	h.agent.mu.Lock()
	if h.agent.charCount != 5 {
		t.Fatalf("charCount = %d, want 5", h.agent.charCount)
	}
	h.agent.mu.Unlock()
	h.agent.flushOutput(MainThreadID)
	h.recvFrameVerb(t, "output")

	// A second print within the same window should be fully dropped —
	// the budget is already exhausted.
	h.agent.RecordPrint(MainThreadID, "z", false, false)
	h.agent.mu.Lock()
	linesBefore := len(h.agent.outputLines)
	h.agent.mu.Unlock()
	if linesBefore != 0 {
		t.Fatalf("expected the budget-exhausted print to be dropped, got %d buffered lines", linesBefore)
	}

	h.clock.Advance(1100 * time.Millisecond)
	h.agent.flushOutput(MainThreadID) // no output this call, but resets the window

	h.agent.RecordPrint(MainThreadID, "fresh", false, false)
	h.agent.mu.Lock()
	charCount := h.agent.charCount
	h.agent.mu.Unlock()
	if charCount != 5 {
		t.Fatalf("charCount after window reset = %d, want 5 (budget replenished)", charCount)
	}
}

func TestFlushSendsDroppedMessageWarning(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})
	h.recvFrame(t) // hello

	h.agent.mu.Lock()
	h.agent.nMessagesDropped = 3
	h.agent.mu.Unlock()

	h.agent.flushOutput(MainThreadID)
	frame := h.recvFrameVerb(t, "error")

	message, _ := value.String(frame.Payload[3])
	if message != "TOO_MANY_MESSAGES" {
		t.Fatalf("error message = %q, want TOO_MANY_MESSAGES", message)
	}

	h.agent.mu.Lock()
	dropped := h.agent.nMessagesDropped
	h.agent.mu.Unlock()
	if dropped != 0 {
		t.Fatalf("nMessagesDropped after a successful overflow send = %d, want 0", dropped)
	}
}
