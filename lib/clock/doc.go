// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time so the rate-limit windows (debugagent's
// per-second char/error/warning budgets), the break loop's poll-sleep,
// and the Performance profiler's tick interval can all be driven
// deterministically in tests.
//
// Production code calls [Real]; tests inject [Fake] and advance it
// explicitly with [FakeClock.Advance] instead of sleeping in wall time.
package clock
