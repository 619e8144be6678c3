// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package scenegraph

import "github.com/scenedebug/scenedebug/value"

// InputKind selects which fields of an InputEvent are meaningful.
type InputKind int

const (
	InputMouseButton InputKind = iota
	InputMouseMotion
	InputKey
	InputTouch
	InputAction
)

// InputEvent is a synthetic input event built from an
// automation:mouse_button/mouse_motion/key/touch/action command.
// Fields irrelevant to Kind are left zero. The automation capture does
// not set Device, so debugger-injected events carry Device 0 and no
// separate synthetic device id.
type InputEvent struct {
	Kind InputKind
	Device int

	X, Y       float64
	RelX, RelY float64

	Button      int
	Pressed     bool
	DoubleClick bool

	Keycode  int
	Physical bool

	Index int // touch point index

	Action   string
	Strength float64
}

// SceneGraph is the scene-tree adapter debugagent.Agent's automation
// capture drives. A real implementation wraps whatever scene tree the
// host application embeds; [Mock] is a minimal in-memory reference
// implementation.
type SceneGraph interface {
	// Root returns the current scene tree's root node.
	Root() *Node

	// GetNode resolves a slash-separated path to a node.
	GetNode(path string) (*Node, error)

	// GetProperty reads a property from the node at path.
	GetProperty(path, property string) (value.Value, error)

	// SetProperty writes a property on the node at path.
	SetProperty(path, property string, v value.Value) error

	// CallMethod invokes a bound method on the node at path.
	CallMethod(path, method string, args value.Array) (value.Value, error)

	// DispatchInputEvent feeds a synthesized input event into the
	// input subsystem.
	DispatchInputEvent(evt InputEvent) error

	// Screenshot captures the root viewport, or the viewport owning
	// path if path is non-empty, as PNG-encoded bytes.
	Screenshot(path string) ([]byte, error)

	// CurrentScene returns the path of the currently loaded scene.
	CurrentScene() string

	// ChangeScene loads the scene at path, replacing the current one.
	ChangeScene(path string) error

	// ReloadScene reloads the currently loaded scene from disk.
	ReloadScene() error

	// SetPaused pauses or resumes scene tree processing.
	SetPaused(paused bool)

	// SetTimeScale scales the rate at which scene tree time advances.
	SetTimeScale(scale float64)
}
