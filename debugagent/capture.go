// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/scenedebug/scenedebug/value"
)

// registerBuiltinCaptures installs the three namespaces spec.md §4.7
// describes: core, profiler, automation.
func (a *Agent) registerBuiltinCaptures() {
	a.register("core", a.handleCore)
	a.register("profiler", a.handleProfiler)
	a.register("automation", a.handleAutomation)
}

// dispatch is C4: it splits verb on the first ':' (spec.md §4.4),
// routes to the matching capture, and — only when insideBreak is true
// (the break loop's synchronous pump) — logs an unregistered
// namespace or an uncaptured command. The idle path stays silent, per
// spec.md §4.4's rationale and this repository's ambient logging rule
// (SPEC_FULL.md §4.1).
func (a *Agent) dispatch(verb string, payload value.Array, threadID int, insideBreak bool) (value.Array, bool) {
	ns, cmd := splitVerb(verb)

	a.mu.Lock()
	handler, ok := a.captures[ns]
	a.mu.Unlock()

	if !ok {
		if insideBreak {
			a.logger.Warn("debugagent: unknown capture namespace",
				slog.String("namespace", ns), slog.String("cmd", cmd))
		}
		return nil, false
	}

	correlationID := uuid.New().String()
	if insideBreak {
		a.logger.Debug("debugagent: dispatching capture",
			slog.String("namespace", ns), slog.String("cmd", cmd), slog.String("correlation_id", correlationID))
	}

	result, captured := handler(cmd, payload, threadID)
	if !captured && insideBreak {
		a.logger.Warn("debugagent: unknown message received from debugger",
			slog.String("namespace", ns), slog.String("cmd", cmd))
	}
	return result, captured
}

// splitVerb implements spec.md §4.4's namespace split: a bare verb
// with no ':' routes to "core".
func splitVerb(verb string) (ns, cmd string) {
	i := strings.IndexByte(verb, ':')
	if i < 0 {
		return "core", verb
	}
	return verb[:i], verb[i+1:]
}
