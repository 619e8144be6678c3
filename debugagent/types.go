// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"github.com/scenedebug/scenedebug/scripthost"
	"github.com/scenedebug/scenedebug/value"
)

// LineKind classifies an OutputLine, per spec.md §3.
type LineKind int

const (
	LineLog LineKind = iota
	LineLogRich
	LineError
)

func (k LineKind) String() string {
	switch k {
	case LineLog:
		return "LOG"
	case LineLogRich:
		return "LOG_RICH"
	case LineError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// OutputLine is one line accepted by RecordPrint, buffered until the
// next flush.
type OutputLine struct {
	Text string
	Kind LineKind
}

// Timestamp is the wall-clock-shaped, monotonic-ms-derived timestamp
// spec.md §3/§6 attaches to every ErrorRecord. Hr can exceed 23 since
// it is derived from an unbounded monotonic counter, not true wall
// time.
type Timestamp struct {
	Hr, Min, Sec, Msec int
}

// timestampFromMillis derives a Timestamp from t milliseconds elapsed
// since the Agent was constructed, per spec.md §6.
func timestampFromMillis(t int64) Timestamp {
	return Timestamp{
		Hr:   int(t / 3600000),
		Min:  int((t / 60000) % 60),
		Sec:  int((t / 1000) % 60),
		Msec: int(t % 1000),
	}
}

// ErrorRecord is one structured error or warning, per spec.md §3.
type ErrorRecord struct {
	Func        string
	File        string
	Line        int
	Message     string
	Description string
	Warning     bool
	Timestamp   Timestamp
	EditorNotify bool
	Callstack   []scripthost.StackFrame
}

// ErrorInput is the caller-facing argument to RecordError — the
// subset of ErrorRecord the caller supplies; Timestamp and Callstack
// are filled in by the Agent itself (spec.md §4.2: "attaches the
// script debugger's current stack").
type ErrorInput struct {
	Func         string
	File         string
	Line         int
	Message      string
	Description  string
	EditorNotify bool
	Warning      bool
}

// CaptureFunc handles one dispatched command within a registered
// namespace. cmd is the part of the verb after the ":"; payload is
// the inbound message's payload array; threadID is the caller thread
// id the reply, if any, should be sent back on (spec.md §6's outbound
// frame shape). captured reports whether this handler recognized cmd
// at all (spec.md §4.4's captured==false triggers the "Unknown
// message received from debugger" warning on the break path). Every
// built-in CaptureFunc is a method value bound to the owning Agent,
// so it does not need the Agent passed in explicitly. Handlers that
// reply do so by calling a.send themselves, on the handler's own
// dedicated reply verb (spec.md §4.7) — the returned value.Array is
// only the synchronous "did this succeed" result, used by tests and
// by the break loop's own direct calls; it is never echoed onto the
// wire automatically.
type CaptureFunc func(cmd string, payload value.Array, threadID int) (result value.Array, captured bool)

// Capture is one registered namespace handler (spec.md §3's Capture
// type).
type Capture struct {
	Namespace string
	Handler   CaptureFunc
}

// MainThreadID is the thread id the Agent seeds an inbox for at
// construction (spec.md §4.9's "seed inbox with the main thread").
// Host applications that only ever call Debug/Idle from one goroutine
// can use this constant as their thread id throughout.
const MainThreadID = 0
