// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package profiler

import (
	"sync"

	"github.com/scenedebug/scenedebug/value"
)

// MonitorMax is the number of built-in performance monitors
// debugagent's periodic tick always reports, before any host-defined
// custom monitors. Indices [0, MonitorMax) are built-in; indices
// [MonitorMax, MonitorMax+len(CustomNames())) are custom.
const MonitorMax = 40

// PerformanceMonitor is the optional "Performance singleton" spec.md
// §4.9 looks for at construction. If present, debugagent installs a
// periodic tick that samples it and forwards profile_names /
// profile_frame messages over the peer.
type PerformanceMonitor interface {
	// GetMonitorModificationTime returns a counter that increases
	// whenever the set of custom monitors (not their values) changes.
	// debugagent compares this across ticks to decide whether to
	// resend profile_names.
	GetMonitorModificationTime() int64

	// GetMonitor returns the current value of built-in monitor i,
	// 0 <= i < MonitorMax.
	GetMonitor(i int) float64

	// CustomNames and CustomTypes return the names and type hints of
	// every registered custom monitor, in a stable parallel order.
	CustomNames() []string
	CustomTypes() []string

	// GetCustomMonitor returns the current value of the named custom
	// monitor. ok is false if name is unrecognized.
	GetCustomMonitor(name string) (value.Value, bool)
}

// MockPerformance is a minimal in-memory PerformanceMonitor. Built-in
// monitor values are a fixed-size array the caller sets directly;
// custom monitors are added by name and can be non-numeric, to
// exercise spec.md §4.9's "non-numeric custom values become null
// with a warning" edge case.
type MockPerformance struct {
	mu sync.Mutex

	builtin [MonitorMax]float64

	customOrder []string
	customTypes map[string]string
	customVals  map[string]value.Value

	modTime int64
}

func NewMockPerformance() *MockPerformance {
	return &MockPerformance{
		customTypes: make(map[string]string),
		customVals:  make(map[string]value.Value),
	}
}

// SetMonitor sets built-in monitor i's value. Does not affect the
// modification time — built-in monitor values change every frame in
// a real engine and are never part of the structural "did the set of
// monitors change" signal.
func (p *MockPerformance) SetMonitor(i int, v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= MonitorMax {
		return
	}
	p.builtin[i] = v
}

// AddCustomMonitor registers a new custom monitor (or replaces an
// existing one's type/value in place, preserving its position) and
// bumps the modification time, since the set of known monitors
// changed.
func (p *MockPerformance) AddCustomMonitor(name, typeHint string, v value.Value) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.customVals[name]; !exists {
		p.customOrder = append(p.customOrder, name)
	}
	p.customTypes[name] = typeHint
	p.customVals[name] = v
	p.modTime++
}

// SetCustomMonitor updates an already-registered custom monitor's
// value without bumping the modification time.
func (p *MockPerformance) SetCustomMonitor(name string, v value.Value) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.customVals[name]; !ok {
		return
	}
	p.customVals[name] = v
}

func (p *MockPerformance) GetMonitorModificationTime() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modTime
}

func (p *MockPerformance) GetMonitor(i int) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= MonitorMax {
		return 0
	}
	return p.builtin[i]
}

func (p *MockPerformance) CustomNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.customOrder))
	copy(out, p.customOrder)
	return out
}

func (p *MockPerformance) CustomTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.customOrder))
	for i, name := range p.customOrder {
		out[i] = p.customTypes[name]
	}
	return out
}

func (p *MockPerformance) GetCustomMonitor(name string) (value.Value, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.customVals[name]
	return v, ok
}
