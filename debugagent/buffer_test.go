// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"testing"

	"github.com/scenedebug/scenedebug/scripthost"
	"github.com/scenedebug/scenedebug/value"
)

func TestRecordPrintBudgetTruncation(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 10, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})
	h.recvFrame(t) // hello

	h.agent.RecordPrint(MainThreadID, "0123456789ABCDEF", false, false)

	h.agent.flushOutput(MainThreadID)
	frame := h.recvFrameVerb(t, "output")

	strs, ok := value.ArrayOf(frame.Payload[0])
	if !ok || len(strs) != 2 {
		t.Fatalf("output payload[0] = %v, want 2 entries (truncated line + overflow warning)", frame.Payload[0])
	}
	text, _ := value.String(strs[0])
	if text != "0123456789[...]" {
		t.Fatalf("truncated line = %q", text)
	}
	overflow, _ := value.String(strs[1])
	if overflow != "[output overflow, print less text!]" {
		t.Fatalf("overflow line = %q", overflow)
	}
}

func TestRecordPrintCoalescesPlainLogLines(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})
	h.recvFrame(t) // hello

	h.agent.RecordPrint(MainThreadID, "first", false, false)
	h.agent.RecordPrint(MainThreadID, "second", false, false)
	h.agent.RecordPrint(MainThreadID, "rich", false, true)
	h.agent.RecordPrint(MainThreadID, "third", false, false)

	h.agent.flushOutput(MainThreadID)
	frame := h.recvFrameVerb(t, "output")

	strs, _ := value.ArrayOf(frame.Payload[0])
	kinds, _ := value.ArrayOf(frame.Payload[1])
	if len(strs) != 3 {
		t.Fatalf("got %d output entries, want 3 (coalesced group, rich line, coalesced group): %v", len(strs), strs)
	}
	first, _ := value.String(strs[0])
	if first != "first\nsecond" {
		t.Fatalf("first group = %q, want \"first\\nsecond\"", first)
	}
	k0, _ := value.Int(kinds[0])
	if LineKind(k0) != LineLog {
		t.Fatalf("first group kind = %d, want LineLog", k0)
	}
	k1, _ := value.Int(kinds[1])
	if LineKind(k1) != LineLogRich {
		t.Fatalf("second entry kind = %d, want LineLogRich", k1)
	}
}

func TestRecordErrorPerSecondBudget(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 2, MaxWarningsPerSecond: 10})
	h.recvFrame(t) // hello

	for i := 0; i < 5; i++ {
		h.agent.RecordError(MainThreadID, ErrorInput{Func: "f", File: "a.gd", Line: i, Message: "boom"})
	}

	h.agent.flushOutput(MainThreadID)

	var messages []string
	for i := 0; i < 3; i++ {
		frame := h.recvFrameVerb(t, "error")
		msg, _ := value.String(frame.Payload[3])
		messages = append(messages, msg)
	}

	if messages[0] != "boom" || messages[1] != "boom" {
		t.Fatalf("expected the first two errors through, got %v", messages[:2])
	}
	if messages[2] != "TOO_MANY_ERRORS" {
		t.Fatalf("expected a TOO_MANY_ERRORS overflow record third, got %q", messages[2])
	}
}

func TestRecordErrorWarningBudgetIndependentFromErrors(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 1})
	h.recvFrame(t) // hello

	h.agent.RecordError(MainThreadID, ErrorInput{Message: "err1"})
	h.agent.RecordError(MainThreadID, ErrorInput{Message: "warn1", Warning: true})
	h.agent.RecordError(MainThreadID, ErrorInput{Message: "warn2", Warning: true})

	h.agent.flushOutput(MainThreadID)

	var messages []string
	for i := 0; i < 3; i++ {
		frame := h.recvFrameVerb(t, "error")
		msg, _ := value.String(frame.Payload[3])
		messages = append(messages, msg)
	}
	if messages[0] != "err1" {
		t.Fatalf("first record = %q, want err1", messages[0])
	}
	if messages[1] != "warn1" {
		t.Fatalf("second record = %q, want warn1", messages[1])
	}
	if messages[2] != "TOO_MANY_WARNINGS" {
		t.Fatalf("third record = %q, want TOO_MANY_WARNINGS overflow", messages[2])
	}
}

func TestRecordErrorAttachesCurrentStack(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})
	h.recvFrame(t) // hello

	h.scripts.SetFrames([]scripthost.Frame{
		{StackFrame: scripthost.StackFrame{File: "res://player.gd", Line: 12, Func: "take_damage"}},
	})

	h.agent.RecordError(MainThreadID, ErrorInput{Message: "boom"})
	h.agent.flushOutput(MainThreadID)

	frame := h.recvFrameVerb(t, "error")
	callstack, ok := value.ArrayOf(frame.Payload[11])
	if !ok || len(callstack) != 1 {
		t.Fatalf("error payload[11] (callstack) = %v, want one frame", frame.Payload[11])
	}
	entry, _ := value.ArrayOf(callstack[0])
	file, _ := value.String(entry[0])
	if file != "res://player.gd" {
		t.Fatalf("callstack[0].file = %q, want res://player.gd", file)
	}
}

func TestRecordPrintAndErrorReentrancyGuard(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})
	h.recvFrame(t) // hello

	h.agent.flushing.Store(true)
	h.agent.flushThreadID.Store(int64(MainThreadID))

	h.agent.RecordPrint(MainThreadID, "should be dropped", false, false)
	h.agent.RecordError(MainThreadID, ErrorInput{Message: "should be dropped"})

	h.agent.flushing.Store(false)

	h.agent.mu.Lock()
	nLines := len(h.agent.outputLines)
	nErrors := len(h.agent.errorRecords)
	h.agent.mu.Unlock()

	if nLines != 0 {
		t.Fatalf("RecordPrint from the flushing thread should be a no-op, got %d buffered lines", nLines)
	}
	if nErrors != 0 {
		t.Fatalf("RecordError from the flushing thread should be a no-op, got %d buffered records", nErrors)
	}
}
