// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package scripthost

import (
	"testing"

	"github.com/scenedebug/scenedebug/value"
)

func TestMockStackAndVars(t *testing.T) {
	m := NewMock()
	m.SetGlobal("g", int64(7))
	m.SetFrames([]Frame{
		{
			StackFrame: StackFrame{File: "res://player.gd", Line: 12, Func: "_physics_process"},
			Locals:     map[string]value.Value{"x": int64(3)},
			Self:       value.Dict{"name": "player"},
		},
		{
			StackFrame: StackFrame{File: "res://player.gd", Line: 40, Func: "take_damage"},
			Locals:     map[string]value.Value{"amount": int64(5)},
		},
	})

	if depth := m.StackDepth(); depth != 2 {
		t.Fatalf("StackDepth() = %d, want 2", depth)
	}
	stack := m.CurrentStack()
	if len(stack) != 2 || stack[0].Func != "_physics_process" || stack[1].Func != "take_damage" {
		t.Fatalf("CurrentStack() = %+v", stack)
	}

	vars, err := m.StackFrameVars(0)
	if err != nil {
		t.Fatalf("StackFrameVars: %v", err)
	}
	if len(vars.Members) != 1 || vars.Members[0].Name != "self" {
		t.Fatalf("expected self member, got %+v", vars.Members)
	}
	if len(vars.Locals) != 1 || vars.Locals[0].Name != "x" {
		t.Fatalf("expected local x, got %+v", vars.Locals)
	}
	if len(vars.Globals) != 1 || vars.Globals[0].Name != "g" {
		t.Fatalf("expected global g, got %+v", vars.Globals)
	}
	if got := len(vars.All()); got != 3 {
		t.Fatalf("All() length = %d, want 3", got)
	}

	if _, err := m.StackFrameVars(5); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestMockEvaluate(t *testing.T) {
	m := NewMock()
	m.SetFrames([]Frame{
		{Locals: map[string]value.Value{"x": int64(3)}},
	})

	got, err := m.Evaluate("x + 1", 0, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != int64(4) {
		t.Fatalf("Evaluate(x + 1) = %v (%T), want int64(4)", got, got)
	}

	got, err = m.Evaluate("x", 0, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != int64(3) {
		t.Fatalf("Evaluate(x) = %v, want int64(3)", got)
	}

	got, err = m.Evaluate("x * 2", 0, value.Dict{"x": int64(10)})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != int64(20) {
		t.Fatalf("Evaluate(x * 2) with env override = %v, want int64(20)", got)
	}

	if _, err := m.Evaluate("missing_name", 0, nil); err == nil {
		t.Fatal("expected error resolving unknown identifier")
	}
}

func TestMockDepthAndFlags(t *testing.T) {
	m := NewMock()
	m.SetDepth(-1, 1)
	if depth, linesLeft := m.Depth(); depth != -1 || linesLeft != 1 {
		t.Fatalf("Depth() = (%d, %d), want (-1, 1)", depth, linesLeft)
	}

	m.SetSkipBreakpoints(true)
	if !m.SkipBreakpoints() {
		t.Fatal("expected SkipBreakpoints() to be true")
	}
	m.SetIgnoreErrorBreaks(true)
	if !m.IgnoreErrorBreaks() {
		t.Fatal("expected IgnoreErrorBreaks() to be true")
	}

	m.SetCurrentError("division by zero")
	if m.CurrentError() != "division by zero" {
		t.Fatalf("CurrentError() = %q", m.CurrentError())
	}
}

func TestMockBreakpoints(t *testing.T) {
	m := NewMock()
	if err := m.SetBreakpoint("res://a.gd", 10, true); err != nil {
		t.Fatalf("SetBreakpoint: %v", err)
	}
	if !m.HasBreakpoint("res://a.gd", 10) {
		t.Fatal("expected breakpoint at res://a.gd:10")
	}
	if err := m.SetBreakpoint("res://a.gd", 10, false); err != nil {
		t.Fatalf("SetBreakpoint: %v", err)
	}
	if m.HasBreakpoint("res://a.gd", 10) {
		t.Fatal("expected breakpoint to be removed")
	}
}

var _ Host = (*Mock)(nil)
