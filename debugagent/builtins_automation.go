// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/scenedebug/scenedebug/scenegraph"
	"github.com/scenedebug/scenedebug/value"
)

// treeCache holds the last serialized root and its BLAKE3 digest, so
// repeated get_tree calls with no intervening mutation can
// skip re-serializing the subtree (SPEC_FULL.md §5, P10).
type treeCache struct {
	mu         sync.Mutex
	hash       scenegraph.Hash
	serialized value.Dict
	valid      bool
}

// snapshot returns the cached serialization if root's current hash
// matches the cached one, recomputing and caching otherwise.
func (c *treeCache) snapshot(root *scenegraph.Node, depth int) (value.Dict, scenegraph.Hash, error) {
	hash, err := scenegraph.TreeHash(root, depth)
	if err != nil {
		return nil, scenegraph.Hash{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.hash == hash {
		return c.serialized, hash, nil
	}
	serialized := root.Serialize(depth)
	c.hash, c.serialized, c.valid = hash, serialized, true
	return serialized, hash, nil
}

// handleAutomation is the "automation" capture (spec.md §4.7): scene
// graph and input control.
func (a *Agent) handleAutomation(cmd string, payload value.Array, threadID int) (value.Array, bool) {
	if a.scene == nil {
		return nil, false
	}
	switch cmd {
	case "get_tree":
		return a.automationGetTree(threadID)
	case "get_node":
		return a.automationGetNode(payload, threadID)
	case "get_property":
		return a.automationGetProperty(payload, threadID)
	case "set_property":
		return a.automationSetProperty(payload, threadID)
	case "call_method":
		return a.automationCallMethod(payload, threadID)
	case "get_property_list":
		return a.automationGetPropertyList(payload, threadID)
	case "mouse_button", "mouse_motion", "key", "touch", "action":
		return a.automationInput(cmd, payload, threadID)
	case "screenshot":
		return a.automationScreenshot(payload, threadID)
	case "query_nodes":
		return a.automationQueryNodes(payload, threadID)
	case "count_nodes":
		return a.automationCountNodes(payload, threadID)
	case "get_current_scene":
		return a.automationCurrentScene(threadID)
	case "change_scene":
		return a.automationChangeScene(payload, threadID)
	case "reload_scene":
		return a.automationReloadScene(threadID)
	case "pause":
		return a.automationPause(payload, threadID)
	case "time_scale":
		return a.automationTimeScale(payload, threadID)
	default:
		return nil, false
	}
}

func (a *Agent) automationGetTree(threadID int) (value.Array, bool) {
	dict, hash, err := a.treeCache.snapshot(a.scene.Root(), a.cfg.TreeRecursionDepth)
	if err != nil {
		a.logger.Warn("debugagent: get_tree failed", slog.String("error", err.Error()))
		return nil, true
	}
	_ = a.send("automation:tree", threadID, value.Array{dict, hashHex(hash)})
	return nil, true
}

func (a *Agent) automationGetNode(payload value.Array, threadID int) (value.Array, bool) {
	if len(payload) != 1 {
		return nil, true
	}
	path, ok := value.String(payload[0])
	if !ok {
		return nil, true
	}
	node, err := a.scene.GetNode(path)
	if err != nil {
		_ = a.send("automation:node", threadID, value.Array{nil})
		return nil, true
	}
	_ = a.send("automation:node", threadID, value.Array{node.Serialize(a.cfg.TreeRecursionDepth)})
	return nil, true
}

func (a *Agent) automationGetProperty(payload value.Array, threadID int) (value.Array, bool) {
	if len(payload) != 2 {
		return nil, true
	}
	path, ok1 := value.String(payload[0])
	prop, ok2 := value.String(payload[1])
	if !ok1 || !ok2 {
		return nil, true
	}
	v, err := a.scene.GetProperty(path, prop)
	if err != nil {
		_ = a.send("automation:property", threadID, value.Array{path, prop, nil})
		return nil, true
	}
	_ = a.send("automation:property", threadID, value.Array{path, prop, v})
	return nil, true
}

func (a *Agent) automationSetProperty(payload value.Array, threadID int) (value.Array, bool) {
	if len(payload) != 3 {
		return nil, true
	}
	path, ok1 := value.String(payload[0])
	prop, ok2 := value.String(payload[1])
	if !ok1 || !ok2 {
		return nil, true
	}
	err := a.scene.SetProperty(path, prop, payload[2])
	_ = a.send("automation:set_result", threadID, value.Array{path, prop, err == nil})
	return nil, true
}

func (a *Agent) automationCallMethod(payload value.Array, threadID int) (value.Array, bool) {
	if len(payload) < 2 {
		return nil, true
	}
	path, ok1 := value.String(payload[0])
	method, ok2 := value.String(payload[1])
	if !ok1 || !ok2 {
		return nil, true
	}
	var args value.Array
	if len(payload) >= 3 {
		args, _ = value.ArrayOf(payload[2])
	}
	result, err := a.scene.CallMethod(path, method, args)
	if err != nil {
		_ = a.send("automation:call_result", threadID, value.Array{path, method, false, nil})
		return nil, true
	}
	_ = a.send("automation:call_result", threadID, value.Array{path, method, true, result})
	return nil, true
}

func (a *Agent) automationGetPropertyList(payload value.Array, threadID int) (value.Array, bool) {
	if len(payload) != 1 {
		return nil, true
	}
	path, ok := value.String(payload[0])
	if !ok {
		return nil, true
	}
	node, err := a.scene.GetNode(path)
	if err != nil {
		_ = a.send("automation:property", threadID, value.Array{path, nil})
		return nil, true
	}
	props := node.Serialize(0) // only need top-level fields, not children
	names := make(value.Array, 0, len(props))
	for name, v := range props {
		if name == "children" || name == "truncated" {
			continue
		}
		names = append(names, value.Dict{"name": name, "type": value.KindOf(v).String()})
	}
	_ = a.send("automation:property", threadID, value.Array{path, names})
	return nil, true
}

func (a *Agent) automationInput(cmd string, payload value.Array, threadID int) (value.Array, bool) {
	if !a.inputLimiter.Allow() {
		_ = a.send("automation:input_result", threadID, value.Array{cmd, false})
		return nil, true
	}
	evt, ok := buildInputEvent(cmd, payload)
	if !ok {
		return nil, true
	}
	err := a.scene.DispatchInputEvent(evt)
	_ = a.send("automation:input_result", threadID, value.Array{cmd, err == nil})
	return nil, true
}

func buildInputEvent(cmd string, payload value.Array) (scenegraph.InputEvent, bool) {
	switch cmd {
	case "mouse_button":
		if len(payload) < 4 {
			return scenegraph.InputEvent{}, false
		}
		x, _ := value.Float(payload[0])
		y, _ := value.Float(payload[1])
		button, _ := value.Int(payload[2])
		pressed, _ := value.Bool(payload[3])
		doubleClick := false
		if len(payload) >= 5 {
			doubleClick, _ = value.Bool(payload[4])
		}
		return scenegraph.InputEvent{Kind: scenegraph.InputMouseButton, X: x, Y: y, Button: int(button), Pressed: pressed, DoubleClick: doubleClick}, true

	case "mouse_motion":
		if len(payload) < 4 {
			return scenegraph.InputEvent{}, false
		}
		x, _ := value.Float(payload[0])
		y, _ := value.Float(payload[1])
		relX, _ := value.Float(payload[2])
		relY, _ := value.Float(payload[3])
		return scenegraph.InputEvent{Kind: scenegraph.InputMouseMotion, X: x, Y: y, RelX: relX, RelY: relY}, true

	case "key":
		if len(payload) < 2 {
			return scenegraph.InputEvent{}, false
		}
		keycode, _ := value.Int(payload[0])
		pressed, _ := value.Bool(payload[1])
		physical := false
		if len(payload) >= 3 {
			physical, _ = value.Bool(payload[2])
		}
		return scenegraph.InputEvent{Kind: scenegraph.InputKey, Keycode: int(keycode), Pressed: pressed, Physical: physical}, true

	case "touch":
		if len(payload) < 4 {
			return scenegraph.InputEvent{}, false
		}
		index, _ := value.Int(payload[0])
		x, _ := value.Float(payload[1])
		y, _ := value.Float(payload[2])
		pressed, _ := value.Bool(payload[3])
		return scenegraph.InputEvent{Kind: scenegraph.InputTouch, Index: int(index), X: x, Y: y, Pressed: pressed}, true

	case "action":
		if len(payload) < 2 {
			return scenegraph.InputEvent{}, false
		}
		name, _ := value.String(payload[0])
		pressed, _ := value.Bool(payload[1])
		strength := 1.0
		if len(payload) >= 3 {
			strength, _ = value.Float(payload[2])
		}
		return scenegraph.InputEvent{Kind: scenegraph.InputAction, Action: name, Pressed: pressed, Strength: strength}, true

	default:
		return scenegraph.InputEvent{}, false
	}
}

func (a *Agent) automationScreenshot(payload value.Array, threadID int) (value.Array, bool) {
	path := ""
	if len(payload) >= 1 {
		path, _ = value.String(payload[0])
	}
	correlationID := uuid.New().String()
	png, err := a.scene.Screenshot(path)
	if err != nil {
		a.logger.Warn("debugagent: screenshot failed", slog.String("path", path), slog.String("error", err.Error()))
		_ = a.send("automation:screenshot", threadID, value.Array{correlationID, false, nil})
		return nil, true
	}

	if len(png) < a.cfg.ScreenshotCompressThreshold || a.zstdEncoder == nil {
		_ = a.send("automation:screenshot", threadID, value.Array{correlationID, false, png})
		return nil, true
	}
	compressed := a.zstdEncoder.EncodeAll(png, nil)
	_ = a.send("automation:screenshot", threadID, value.Array{correlationID, true, compressed})
	return nil, true
}

func (a *Agent) automationQueryNodes(payload value.Array, threadID int) (value.Array, bool) {
	if len(payload) != 1 {
		return nil, true
	}
	pattern, ok := value.String(payload[0])
	if !ok {
		return nil, true
	}
	matches := scenegraph.QueryNodes(a.scene.Root(), pattern)
	out := make(value.Array, 0, len(matches))
	for _, n := range matches {
		out = append(out, n.Serialize(a.cfg.TreeRecursionDepth))
	}
	_ = a.send("automation:query_result", threadID, value.Array{out})
	return nil, true
}

func (a *Agent) automationCountNodes(payload value.Array, threadID int) (value.Array, bool) {
	if len(payload) != 1 {
		return nil, true
	}
	pattern, ok := value.String(payload[0])
	if !ok {
		return nil, true
	}
	count := scenegraph.CountNodes(a.scene.Root(), pattern)
	_ = a.send("automation:count_result", threadID, value.Array{int64(count)})
	return nil, true
}

func (a *Agent) automationCurrentScene(threadID int) (value.Array, bool) {
	_ = a.send("automation:current_scene", threadID, value.Array{a.scene.CurrentScene()})
	return nil, true
}

func (a *Agent) automationChangeScene(payload value.Array, threadID int) (value.Array, bool) {
	if len(payload) != 1 {
		return nil, true
	}
	path, ok := value.String(payload[0])
	if !ok {
		return nil, true
	}
	err := a.scene.ChangeScene(path)
	_ = a.send("automation:scene_result", threadID, value.Array{"change_scene", err == nil})
	return nil, true
}

func (a *Agent) automationReloadScene(threadID int) (value.Array, bool) {
	err := a.scene.ReloadScene()
	_ = a.send("automation:scene_result", threadID, value.Array{"reload_scene", err == nil})
	return nil, true
}

func (a *Agent) automationPause(payload value.Array, threadID int) (value.Array, bool) {
	if len(payload) != 1 {
		return nil, true
	}
	paused, ok := value.Bool(payload[0])
	if !ok {
		return nil, true
	}
	a.scene.SetPaused(paused)
	_ = a.send("automation:pause_result", threadID, value.Array{paused})
	return nil, true
}

func (a *Agent) automationTimeScale(payload value.Array, threadID int) (value.Array, bool) {
	if len(payload) != 1 {
		return nil, true
	}
	scale, ok := value.Float(payload[0])
	if !ok {
		return nil, true
	}
	a.scene.SetTimeScale(scale)
	_ = a.send("automation:time_scale_result", threadID, value.Array{scale})
	return nil, true
}

func hashHex(h scenegraph.Hash) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(h)*2)
	for i, b := range h {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0f]
	}
	return string(out)
}
