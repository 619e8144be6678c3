// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package profiler

import (
	"fmt"
	"sort"
	"sync"

	"github.com/scenedebug/scenedebug/value"
)

// Profiler is one named, independently toggleable profiler. A host
// application registers whatever profilers it supports (physics,
// rendering, a custom script profiler, ...) under a name; the
// "profiler" capture namespace enables/disables them by that name.
type Profiler interface {
	// Enable turns the profiler on or off. opts carries
	// profiler-specific options, exactly as received from the
	// automation driver's {enable, opts} payload.
	Enable(enable bool, opts value.Array) error
}

// Ticker is an optional interface a Profiler can implement to receive
// a per-frame callback from Registry.Tick. Profilers that only need
// on/off state (the common case) don't need to implement it.
type Ticker interface {
	Tick()
}

// Registry is the ProfilerRegistry named in SPEC_FULL.md §7: the
// collection of registered profilers the "profiler" capture namespace
// enables and disables by name, plus profiler:list discovery.
type Registry interface {
	// Enable enables or disables the named profiler. Returns an error
	// if name is not registered (the capture checks IsRegistered first
	// and reports an unregistered name as captured=false per spec.md
	// §4.7).
	Enable(name string, enable bool, opts value.Array) error

	// IsRegistered reports whether name has been registered.
	IsRegistered(name string) bool

	// List returns the names of every registered profiler, sorted.
	List() []string

	// Tick invokes Tick() on every registered profiler that
	// implements Ticker. Called once per host frame.
	Tick()
}

// registry is the concrete, mutex-guarded Registry implementation.
type registry struct {
	mu        sync.Mutex
	profilers map[string]Profiler
}

// NewRegistry returns an empty Registry.
func NewRegistry() Registry {
	return &registry{profilers: make(map[string]Profiler)}
}

// Register adds a profiler under name. Not part of the Registry
// interface itself — registration is a construction-time concern
// owned by whoever wires the host's profilers, not by the capture
// namespace.
func Register(r Registry, name string, p Profiler) error {
	reg, ok := r.(*registry)
	if !ok {
		return fmt.Errorf("profiler: Register requires the concrete registry returned by NewRegistry")
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.profilers[name] = p
	return nil
}

func (r *registry) Enable(name string, enable bool, opts value.Array) error {
	r.mu.Lock()
	p, ok := r.profilers[name]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("profiler: %q is not registered", name)
	}
	return p.Enable(enable, opts)
}

func (r *registry) IsRegistered(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.profilers[name]
	return ok
}

func (r *registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.profilers))
	for name := range r.profilers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *registry) Tick() {
	r.mu.Lock()
	tickers := make([]Ticker, 0, len(r.profilers))
	for _, p := range r.profilers {
		if t, ok := p.(Ticker); ok {
			tickers = append(tickers, t)
		}
	}
	r.mu.Unlock()
	for _, t := range tickers {
		t.Tick()
	}
}

// SimpleProfiler is a minimal Profiler reference implementation: it
// only tracks on/off state and the last options it was given, enough
// for tests and the demo binaries.
type SimpleProfiler struct {
	mu      sync.Mutex
	enabled bool
	lastOpts value.Array
}

func NewSimpleProfiler() *SimpleProfiler {
	return &SimpleProfiler{}
}

func (p *SimpleProfiler) Enable(enable bool, opts value.Array) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enable
	p.lastOpts = opts
	return nil
}

func (p *SimpleProfiler) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

func (p *SimpleProfiler) LastOpts() value.Array {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastOpts
}
