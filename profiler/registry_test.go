// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package profiler

import (
	"testing"

	"github.com/scenedebug/scenedebug/value"
)

type tickingProfiler struct {
	*SimpleProfiler
	ticks int
}

func (t *tickingProfiler) Tick() { t.ticks++ }

func TestRegistryEnableAndList(t *testing.T) {
	reg := NewRegistry()
	physics := NewSimpleProfiler()
	render := NewSimpleProfiler()
	if err := Register(reg, "physics", physics); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(reg, "render", render); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if !reg.IsRegistered("physics") {
		t.Fatal("expected physics to be registered")
	}
	if reg.IsRegistered("missing") {
		t.Fatal("expected missing to be unregistered")
	}

	names := reg.List()
	if len(names) != 2 || names[0] != "physics" || names[1] != "render" {
		t.Fatalf("List() = %v", names)
	}

	if err := reg.Enable("physics", true, value.Array{int64(1)}); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if !physics.Enabled() {
		t.Fatal("expected physics to be enabled")
	}
	if len(physics.LastOpts()) != 1 {
		t.Fatalf("LastOpts() = %v", physics.LastOpts())
	}

	if err := reg.Enable("missing", true, nil); err == nil {
		t.Fatal("expected error enabling unregistered profiler")
	}
}

func TestRegistryTick(t *testing.T) {
	reg := NewRegistry()
	tp := &tickingProfiler{SimpleProfiler: NewSimpleProfiler()}
	if err := Register(reg, "custom", tp); err != nil {
		t.Fatalf("Register: %v", err)
	}
	reg.Tick()
	reg.Tick()
	if tp.ticks != 2 {
		t.Fatalf("ticks = %d, want 2", tp.ticks)
	}
}

func TestMockPerformanceModificationTime(t *testing.T) {
	perf := NewMockPerformance()
	perf.SetMonitor(0, 60.0)
	if perf.GetMonitorModificationTime() != 0 {
		t.Fatal("SetMonitor must not bump modification time")
	}

	perf.AddCustomMonitor("enemies_alive", "int", int64(3))
	first := perf.GetMonitorModificationTime()
	if first == 0 {
		t.Fatal("AddCustomMonitor must bump modification time")
	}

	perf.SetCustomMonitor("enemies_alive", int64(5))
	if perf.GetMonitorModificationTime() != first {
		t.Fatal("SetCustomMonitor must not bump modification time")
	}

	v, ok := perf.GetCustomMonitor("enemies_alive")
	if !ok || v != int64(5) {
		t.Fatalf("GetCustomMonitor = (%v, %v)", v, ok)
	}

	if got := perf.GetMonitor(0); got != 60.0 {
		t.Fatalf("GetMonitor(0) = %v, want 60.0", got)
	}

	names := perf.CustomNames()
	types := perf.CustomTypes()
	if len(names) != 1 || names[0] != "enemies_alive" || types[0] != "int" {
		t.Fatalf("CustomNames/Types = %v, %v", names, types)
	}
}
