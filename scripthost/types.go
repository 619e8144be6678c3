// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package scripthost

import "github.com/scenedebug/scenedebug/value"

// StackFrame is one frame of a call stack, as seen from the script
// adapter. Fields are opaque strings — the core never parses them.
type StackFrame struct {
	File string
	Line int
	Func string
}

// VarKind classifies a StackVariable by where it was found.
type VarKind int

const (
	VarKindLocal VarKind = iota
	VarKindMember
	VarKindGlobal
	VarKindEvaluation
)

// StackVariable is one named value visible at a stack frame.
type StackVariable struct {
	Name  string
	Value value.Value
	Kind  VarKind
}

// FrameVars is the result of introspecting one stack frame: the three
// name/value lists spec.md §4.6's get_stack_frame_vars sends, in the
// order the wire protocol expects them (locals, then members, then
// globals — kinds 0/1/2). Members already has "self" prepended by the
// Host implementation when the frame has an owning instance.
type FrameVars struct {
	Members []StackVariable
	Locals  []StackVariable
	Globals []StackVariable
}

// All concatenates Locals, Members, and Globals in wire order. Used by
// the break loop to compute the total count and stream the vars.
func (f FrameVars) All() []StackVariable {
	all := make([]StackVariable, 0, len(f.Members)+len(f.Locals)+len(f.Globals))
	all = append(all, f.Locals...)
	all = append(all, f.Members...)
	all = append(all, f.Globals...)
	return all
}
