// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import "github.com/scenedebug/scenedebug/value"

// handleProfiler is the "profiler" capture (spec.md §4.7):
// {cmd = profiler_name, data = [enable: bool, opts: Array?]}. Returns
// captured=false if the named profiler is not registered, and the
// supplemented profiler:list read (SPEC_FULL.md §6).
func (a *Agent) handleProfiler(cmd string, payload value.Array, threadID int) (value.Array, bool) {
	if cmd == "list" {
		if a.profilers == nil {
			return value.Array{value.Array{}}, true
		}
		names := a.profilers.List()
		out := make(value.Array, len(names))
		for i, name := range names {
			out[i] = name
		}
		return value.Array{out}, true
	}

	if a.profilers == nil || !a.profilers.IsRegistered(cmd) {
		return nil, false
	}
	if len(payload) < 1 {
		return nil, false
	}
	enable, ok := value.Bool(payload[0])
	if !ok {
		return nil, false
	}
	var opts value.Array
	if len(payload) >= 2 {
		opts, _ = value.ArrayOf(payload[1])
	}
	if err := a.profilers.Enable(cmd, enable, opts); err != nil {
		a.logger.Warn("debugagent: profiler enable failed", "profiler", cmd, "error", err)
	}
	return nil, true
}
