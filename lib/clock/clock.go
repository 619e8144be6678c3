// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts time operations for testability. Every function that
// would otherwise call time.Now, time.After, time.AfterFunc, or
// time.Sleep directly instead takes a Clock (or is a method on a struct
// holding one).
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once
	// duration d elapses. If d <= 0 the channel receives immediately.
	After(d time.Duration) <-chan time.Time

	// AfterFunc waits for duration d, then calls f. The returned
	// Timer's C field is always nil. If d <= 0, f runs immediately.
	AfterFunc(d time.Duration, f func()) *Timer

	// NewTicker returns a Ticker delivering ticks on its C channel
	// every d. Panics if d <= 0.
	NewTicker(d time.Duration) *Ticker

	// Sleep pauses the calling goroutine for at least d.
	Sleep(d time.Duration)
}

// Ticker wraps a periodic timer. Read ticks from C; call Stop when the
// Ticker is no longer needed.
type Ticker struct {
	// C delivers ticks. Buffered with capacity 1, matching time.Ticker.
	C <-chan time.Time

	stopFunc  func()
	resetFunc func(time.Duration)
}

// Stop turns off the ticker. Does not close C.
func (t *Ticker) Stop() { t.stopFunc() }

// Reset restarts the ticker with a new interval.
func (t *Ticker) Reset(d time.Duration) { t.resetFunc(d) }

// Timer represents a scheduled one-shot event. C is always nil for
// timers created by AfterFunc.
type Timer struct {
	C <-chan time.Time

	stopFunc  func() bool
	resetFunc func(time.Duration) bool
}

// Stop prevents the Timer from firing. Returns false if it already
// fired or was already stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }

// Reset reschedules the Timer to fire after d. Returns whether the
// timer was active before the reset.
func (t *Timer) Reset(d time.Duration) bool { return t.resetFunc(d) }
