// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

// Package profiler defines the registry of named, independently
// enable/disable-able profilers the "profiler" capture namespace
// controls, plus the PerformanceMonitor seam debugagent's periodic
// performance tick reads from.
package profiler
