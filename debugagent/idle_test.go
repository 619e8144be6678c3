// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"testing"
	"time"

	"github.com/scenedebug/scenedebug/peer"
	"github.com/scenedebug/scenedebug/profiler"
	"github.com/scenedebug/scenedebug/value"
)

func TestIdleDrainsInboxAndDispatches(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})
	h.recvFrame(t) // hello

	if err := h.driver.PutMessage(peer.Frame{Verb: "automation:get_current_scene", ThreadID: MainThreadID}); err != nil {
		t.Fatalf("PutMessage: %v", err)
	}

	waitUntil(t, func() bool {
		if err := h.agent.Idle(MainThreadID); err != nil {
			t.Fatalf("Idle: %v", err)
		}
		if err := h.driver.Poll(); err != nil {
			t.Fatalf("Poll: %v", err)
		}
		return h.driver.HasMessage()
	})

	frame := h.recvFrameVerb(t, "automation:current_scene")
	scene, _ := value.String(frame.Payload[0])
	if scene != "/Root" {
		t.Fatalf("current scene = %q, want /Root", scene)
	}
}

// tickingProfiler implements both profiler.Profiler and profiler.Ticker
// so TestIdleTicksProfilers can observe Registry.Tick being invoked
// through Idle.
type tickingProfiler struct {
	ticks int
}

func (p *tickingProfiler) Enable(enable bool, opts value.Array) error { return nil }
func (p *tickingProfiler) Tick()                                     { p.ticks++ }

func TestIdleTicksProfilers(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})
	h.recvFrame(t) // hello

	tp := &tickingProfiler{}
	if err := profiler.Register(h.profs, "custom", tp); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := h.agent.Idle(MainThreadID); err != nil {
		t.Fatalf("Idle: %v", err)
	}
	if err := h.agent.Idle(MainThreadID); err != nil {
		t.Fatalf("Idle: %v", err)
	}

	if tp.ticks != 2 {
		t.Fatalf("ticks = %d, want 2", tp.ticks)
	}
}

func TestIdleSendsPerformanceFrameOncePerSecond(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})
	h.recvFrame(t) // hello

	h.perf.SetMonitor(0, 60.0)
	h.perf.AddCustomMonitor("draw_calls", "int", int64(42))

	// The first send only happens once enough time has elapsed since
	// construction (see tickPerformance's 1000ms gate).
	h.clock.Advance(1100 * time.Millisecond)

	if err := h.agent.Idle(MainThreadID); err != nil {
		t.Fatalf("Idle: %v", err)
	}

	namesFrame := h.recvFrameVerb(t, "performance:profile_names")
	names, _ := value.ArrayOf(namesFrame.Payload[0])
	if len(names) != 1 || names[0] != "draw_calls" {
		t.Fatalf("profile_names = %v, want [draw_calls]", names)
	}

	frameFrame := h.recvFrameVerb(t, "performance:profile_frame")
	if len(frameFrame.Payload) != profiler.MonitorMax+1 {
		t.Fatalf("profile_frame length = %d, want %d", len(frameFrame.Payload), profiler.MonitorMax+1)
	}
	builtin0, _ := value.Float(frameFrame.Payload[0])
	if builtin0 != 60.0 {
		t.Fatalf("profile_frame[0] = %v, want 60.0", builtin0)
	}
	custom, _ := value.Int(frameFrame.Payload[profiler.MonitorMax])
	if custom != 42 {
		t.Fatalf("profile_frame[custom] = %v, want 42", custom)
	}

	// Once another second has elapsed, the next Idle call resends the
	// frame; the names are not resent (modtime unchanged).
	h.clock.Advance(1000 * time.Millisecond)
	if err := h.agent.Idle(MainThreadID); err != nil {
		t.Fatalf("Idle: %v", err)
	}
	h.recvFrameVerb(t, "performance:profile_frame")
}

func TestIdleReportsNonNumericCustomMonitorAsNil(t *testing.T) {
	h := newTestHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})
	h.recvFrame(t) // hello

	h.perf.AddCustomMonitor("label", "string", "not a number")
	h.clock.Advance(1100 * time.Millisecond)

	if err := h.agent.Idle(MainThreadID); err != nil {
		t.Fatalf("Idle: %v", err)
	}
	h.recvFrameVerb(t, "performance:profile_names")
	frame := h.recvFrameVerb(t, "performance:profile_frame")

	if frame.Payload[profiler.MonitorMax] != nil {
		t.Fatalf("non-numeric custom monitor = %v, want nil", frame.Payload[profiler.MonitorMax])
	}
}
