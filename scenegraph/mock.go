// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package scenegraph

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/scenedebug/scenedebug/value"
)

// Mock is a minimal in-memory SceneGraph, standing in for a real
// engine scene tree in tests and the demo binaries. Screenshot
// renders a fixed-size solid-color placeholder image whose color
// reflects the current pause state rather than any real framebuffer.
type Mock struct {
	mu sync.Mutex

	root         *Node
	currentScene string
	paused       bool
	timeScale    float64

	inputLog []InputEvent
}

// NewMock returns a Mock rooted at root, with an initial scene path
// and a default time scale of 1.0.
func NewMock(root *Node, scenePath string) *Mock {
	return &Mock{
		root:         root,
		currentScene: scenePath,
		timeScale:    1.0,
	}
}

func (m *Mock) Root() *Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.root
}

func (m *Mock) GetNode(path string) (*Node, error) {
	m.mu.Lock()
	root := m.root
	m.mu.Unlock()
	return root.find(path)
}

func (m *Mock) GetProperty(path, property string) (value.Value, error) {
	node, err := m.GetNode(path)
	if err != nil {
		return nil, err
	}
	v, ok := node.Property(property)
	if !ok {
		return nil, fmt.Errorf("scenegraph: node %q has no property %q", path, property)
	}
	return v, nil
}

func (m *Mock) SetProperty(path, property string, v value.Value) error {
	node, err := m.GetNode(path)
	if err != nil {
		return err
	}
	node.SetProperty(property, v)
	return nil
}

func (m *Mock) CallMethod(path, method string, args value.Array) (value.Value, error) {
	node, err := m.GetNode(path)
	if err != nil {
		return nil, err
	}
	node.mu.RLock()
	fn, ok := node.methods[method]
	node.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("scenegraph: node %q has no method %q", path, method)
	}
	return fn(args)
}

func (m *Mock) DispatchInputEvent(evt InputEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputLog = append(m.inputLog, evt)
	return nil
}

// InputLog returns every InputEvent DispatchInputEvent has recorded,
// for test assertions.
func (m *Mock) InputLog() []InputEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]InputEvent, len(m.inputLog))
	copy(out, m.inputLog)
	return out
}

// Screenshot renders a 4x4 placeholder PNG: green while running, red
// while paused. Real hosts would capture an actual framebuffer; this
// mock only needs to exercise the wire path (PNG bytes -> zstd
// compression -> automation:screenshot).
func (m *Mock) Screenshot(path string) ([]byte, error) {
	if path != "" {
		if _, err := m.GetNode(path); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	paused := m.paused
	m.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fill := color.RGBA{R: 0, G: 200, B: 0, A: 255}
	if paused {
		fill = color.RGBA{R: 200, G: 0, B: 0, A: 255}
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("scenegraph: encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *Mock) CurrentScene() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentScene
}

func (m *Mock) ChangeScene(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentScene = path
	return nil
}

func (m *Mock) ReloadScene() error {
	return nil
}

func (m *Mock) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = paused
}

func (m *Mock) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *Mock) SetTimeScale(scale float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeScale = scale
}

func (m *Mock) TimeScale() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeScale
}

var _ SceneGraph = (*Mock)(nil)
