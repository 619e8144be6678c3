// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"log/slog"

	"github.com/scenedebug/scenedebug/profiler"
	"github.com/scenedebug/scenedebug/value"
)

// performanceTickMillis is the minimum interval between
// performance:profile_frame sends (spec.md §4.9).
const performanceTickMillis = 1000

// tickPerformance is the C9 tail: once per second, resend
// performance:profile_names if the monitor set changed, then always
// send performance:profile_frame. No-op if no PerformanceMonitor was
// supplied to New.
func (a *Agent) tickPerformance(callerID int) {
	if a.perf == nil {
		return
	}

	now := a.nowMillis()
	a.mu.Lock()
	if now-a.lastPerfSendMs < performanceTickMillis {
		a.mu.Unlock()
		return
	}
	a.lastPerfSendMs = now
	lastModTime := a.lastPerfModTime
	a.mu.Unlock()

	modTime := a.perf.GetMonitorModificationTime()
	customNames := a.perf.CustomNames()
	customTypes := a.perf.CustomTypes()

	if modTime != lastModTime {
		a.mu.Lock()
		a.lastPerfModTime = modTime
		a.mu.Unlock()
		namesArr := make(value.Array, len(customNames))
		typesArr := make(value.Array, len(customTypes))
		for i, n := range customNames {
			namesArr[i] = n
		}
		for i, t := range customTypes {
			typesArr[i] = t
		}
		_ = a.send("performance:profile_names", callerID, value.Array{namesArr, typesArr})
	}

	frame := make(value.Array, profiler.MonitorMax+len(customNames))
	for i := 0; i < profiler.MonitorMax; i++ {
		frame[i] = a.perf.GetMonitor(i)
	}
	for i, name := range customNames {
		v, ok := a.perf.GetCustomMonitor(name)
		if !ok {
			frame[profiler.MonitorMax+i] = nil
			continue
		}
		switch value.KindOf(v) {
		case value.KindInt, value.KindFloat:
			frame[profiler.MonitorMax+i] = v
		default:
			a.logger.Warn("debugagent: custom performance monitor is non-numeric",
				slog.String("name", name), slog.String("kind", value.KindOf(v).String()))
			frame[profiler.MonitorMax+i] = nil
		}
	}
	_ = a.send("performance:profile_frame", callerID, frame)
}
