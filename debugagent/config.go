// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/scenedebug/scenedebug/lib/clock"
)

// Config carries the process-wide options spec.md §6 names, plus the
// domain-stack additions SPEC_FULL.md §5 wires in (input throttling,
// scene-tree recursion cap, optional project filesystem root for
// core:filesystem_list/read).
type Config struct {
	// MaxCharsPerSecond is the C1 output character budget.
	MaxCharsPerSecond int
	// MaxErrorsPerSecond is the C2 error budget.
	MaxErrorsPerSecond int
	// MaxWarningsPerSecond is the C2 warning budget.
	MaxWarningsPerSecond int

	// MaxQueuedMessages bounds the peer's own outbound queue; exceeding
	// it is the peer's concern, but the Agent surfaces every put
	// failure (regardless of cause) as n_messages_dropped.
	MaxQueuedMessages int

	// TreeRecursionDepth bounds the serialization depth of node dicts
	// returned by automation:get_tree / get_node / query_nodes
	// (spec.md §9's open question — this implementation adds the cap
	// the source leaves unbounded). The query_nodes / count_nodes
	// search itself walks the whole tree.
	TreeRecursionDepth int

	// InputEventsPerSecond and InputBurst configure the token-bucket
	// throttle on synthetic automation input (mouse/key/touch/action),
	// protecting the scene graph's input subsystem from an automation
	// driver flooding it. Zero means "use DefaultInputEventsPerSecond".
	InputEventsPerSecond float64
	InputBurst           int

	// ProjectRoot, if non-empty, is the directory core:filesystem_list
	// and core:filesystem_read expose. Empty disables both commands.
	ProjectRoot string

	// ScreenshotCompressThreshold is the minimum PNG payload size, in
	// bytes, at or above which automation:screenshot compresses with zstd
	// before framing it onto the peer.
	ScreenshotCompressThreshold int

	// MouseMode, if non-nil, lets Debug capture and restore the host's
	// mouse mode around a main-thread break (spec.md §4.6: "force it
	// to VISIBLE" on entry, restore on exit). A host with no mouse of
	// its own (a headless service, most tests) leaves this nil.
	MouseMode MouseModeController

	// AllowFocusSteal, if non-nil, is invoked on every break entry so
	// the host can bring its window/editor forward (spec.md §4.6's
	// "optional allow_focus_steal hook").
	AllowFocusSteal func()

	Logger *slog.Logger
	Clock  clock.Clock
}

// MouseModeController lets the break loop force the host's mouse into
// a visible, unconfined mode while broken and restore whatever mode
// was active beforehand.
type MouseModeController interface {
	CaptureMode() int
	SetMode(mode int)
}

// MouseModeVisible is the mode Debug forces on a main-thread break,
// matching spec.md §4.6's "force it to VISIBLE".
const MouseModeVisible = 0

const (
	// DefaultInputEventsPerSecond is used when Config.InputEventsPerSecond
	// is zero.
	DefaultInputEventsPerSecond = 200.0
	// DefaultInputBurst is used when Config.InputBurst is zero.
	DefaultInputBurst = 50
	// DefaultTreeRecursionDepth is used when Config.TreeRecursionDepth
	// is zero.
	DefaultTreeRecursionDepth = 64
	// DefaultScreenshotCompressThreshold is used when
	// Config.ScreenshotCompressThreshold is zero.
	DefaultScreenshotCompressThreshold = 4096
)

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Clock == nil {
		c.Clock = clock.Real()
	}
	if c.InputEventsPerSecond <= 0 {
		c.InputEventsPerSecond = DefaultInputEventsPerSecond
	}
	if c.InputBurst <= 0 {
		c.InputBurst = DefaultInputBurst
	}
	if c.TreeRecursionDepth <= 0 {
		c.TreeRecursionDepth = DefaultTreeRecursionDepth
	}
	if c.ScreenshotCompressThreshold <= 0 {
		c.ScreenshotCompressThreshold = DefaultScreenshotCompressThreshold
	}
	return c
}

func newInputLimiter(cfg Config) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(cfg.InputEventsPerSecond), cfg.InputBurst)
}
