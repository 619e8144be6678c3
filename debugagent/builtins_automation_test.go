// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/scenedebug/scenedebug/peer"
	"github.com/scenedebug/scenedebug/profiler"
	"github.com/scenedebug/scenedebug/scenegraph"
	"github.com/scenedebug/scenedebug/scripthost"
	"github.com/scenedebug/scenedebug/value"
)

func buildAutomationTestTree() *scenegraph.Node {
	root := scenegraph.NewNode("Root", "Node", scenegraph.KindOther)
	player := scenegraph.NewNode("Player", "CharacterBody2D", scenegraph.KindNode2D)
	player.SetProperty("health", int64(100))
	enemy := scenegraph.NewNode("Enemy1", "CharacterBody2D", scenegraph.KindNode2D)
	root.AddChild(player)
	root.AddChild(enemy)
	return root
}

// automationHarness is a standalone Agent+driver pair rooted at
// buildAutomationTestTree, used by the automation capture tests in
// this file instead of the generic testHarness (which roots its mock
// scene at a bare, childless node).
type automationHarness struct {
	agent  *Agent
	driver peer.Peer
}

func newAutomationHarness(t *testing.T, cfg Config) *automationHarness {
	t.Helper()
	agentSide, driverSide := peer.NewInProcessPair(testLogger())
	scene := scenegraph.NewMock(buildAutomationTestTree(), "/Root")

	cfg.Logger = testLogger()
	agent, err := New(agentSide, scripthost.NewMock(), scene, profiler.NewRegistry(), nil, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { agent.Close() })

	h := &automationHarness{agent: agent, driver: driverSide}
	h.recvFrame(t) // hello
	return h
}

func (h *automationHarness) recvFrame(t *testing.T) peer.Frame {
	t.Helper()
	return recvFrameFrom(t, h.driver)
}

func (h *automationHarness) recvFrameVerb(t *testing.T, verb string) peer.Frame {
	t.Helper()
	return recvFrameVerbFrom(t, h.driver, verb)
}

func TestAutomationGetTree(t *testing.T) {
	h := newAutomationHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})

	_, captured := h.agent.dispatch("automation:get_tree", nil, MainThreadID, false)
	if !captured {
		t.Fatal("automation:get_tree not captured")
	}
	frame := h.recvFrameVerb(t, "automation:tree")
	dict, ok := value.DictOf(frame.Payload[0])
	if !ok || dict["name"] != "Root" {
		t.Fatalf("get_tree dict = %v, want name=Root", frame.Payload[0])
	}
	hashHex1, _ := value.String(frame.Payload[1])
	if hashHex1 == "" {
		t.Fatal("get_tree hash is empty")
	}

	_, captured = h.agent.dispatch("automation:get_tree", nil, MainThreadID, false)
	if !captured {
		t.Fatal("second automation:get_tree not captured")
	}
	frame2 := h.recvFrameVerb(t, "automation:tree")
	hashHex2, _ := value.String(frame2.Payload[1])
	if hashHex1 != hashHex2 {
		t.Fatalf("hash changed across unmutated get_tree calls: %q != %q", hashHex1, hashHex2)
	}
}

func TestAutomationQueryAndCountNodes(t *testing.T) {
	h := newAutomationHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})

	h.agent.dispatch("automation:query_nodes", value.Array{"Enemy*"}, MainThreadID, false)
	frame := h.recvFrameVerb(t, "automation:query_result")
	matches, _ := value.ArrayOf(frame.Payload[0])
	if len(matches) != 1 {
		t.Fatalf("query_nodes(\"Enemy*\") = %d matches, want 1", len(matches))
	}

	h.agent.dispatch("automation:count_nodes", value.Array{"CharacterBody2D"}, MainThreadID, false)
	countFrame := h.recvFrameVerb(t, "automation:count_result")
	count, _ := value.Int(countFrame.Payload[0])
	if count != 2 {
		t.Fatalf("count_nodes(\"CharacterBody2D\") = %d, want 2", count)
	}
}

func TestAutomationSetAndGetProperty(t *testing.T) {
	h := newAutomationHarness(t, Config{MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10})

	h.agent.dispatch("automation:set_property", value.Array{"/Root/Player", "health", int64(50)}, MainThreadID, false)
	setFrame := h.recvFrameVerb(t, "automation:set_result")
	ok, _ := value.Bool(setFrame.Payload[2])
	if !ok {
		t.Fatal("set_property reported failure")
	}

	h.agent.dispatch("automation:get_property", value.Array{"/Root/Player", "health"}, MainThreadID, false)
	getFrame := h.recvFrameVerb(t, "automation:property")
	health, _ := value.Int(getFrame.Payload[2])
	if health != 50 {
		t.Fatalf("health after set_property = %v, want 50", getFrame.Payload[2])
	}
}

func TestAutomationInputThrottling(t *testing.T) {
	h := newAutomationHarness(t, Config{
		MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10,
		InputEventsPerSecond: 1, InputBurst: 1,
	})

	h.agent.dispatch("automation:key", value.Array{int64(65), true}, MainThreadID, false)
	first := h.recvFrameVerb(t, "automation:input_result")
	ok1, _ := value.Bool(first.Payload[1])
	if !ok1 {
		t.Fatal("first input event should be allowed by the burst allowance")
	}

	h.agent.dispatch("automation:key", value.Array{int64(66), true}, MainThreadID, false)
	second := h.recvFrameVerb(t, "automation:input_result")
	ok2, _ := value.Bool(second.Payload[1])
	if ok2 {
		t.Fatal("second immediate input event should be throttled")
	}
}

func TestAutomationScreenshotCompressesAboveThreshold(t *testing.T) {
	h := newAutomationHarness(t, Config{
		MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10,
		ScreenshotCompressThreshold: 1,
	})

	h.agent.dispatch("automation:screenshot", value.Array{""}, MainThreadID, false)
	frame := h.recvFrameVerb(t, "automation:screenshot")

	compressed, _ := value.Bool(frame.Payload[1])
	if !compressed {
		t.Fatal("expected the screenshot to be compressed given a threshold of 1 byte")
	}
	payload, ok := frame.Payload[2].([]byte)
	if !ok || len(payload) == 0 {
		t.Fatalf("compressed screenshot payload = %v", frame.Payload[2])
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("zstd.NewReader: %v", err)
	}
	defer decoder.Close()
	decoded, err := decoder.DecodeAll(payload, nil)
	if err != nil {
		t.Fatalf("decoding compressed screenshot: %v", err)
	}
	if !bytes.HasPrefix(decoded, []byte("\x89PNG")) {
		t.Fatal("decoded screenshot does not start with a PNG signature")
	}
}

func TestAutomationScreenshotUncompressedBelowThreshold(t *testing.T) {
	h := newAutomationHarness(t, Config{
		MaxCharsPerSecond: 1024, MaxErrorsPerSecond: 10, MaxWarningsPerSecond: 10,
		ScreenshotCompressThreshold: 1 << 20,
	})

	h.agent.dispatch("automation:screenshot", value.Array{""}, MainThreadID, false)
	frame := h.recvFrameVerb(t, "automation:screenshot")

	compressed, _ := value.Bool(frame.Payload[1])
	if compressed {
		t.Fatal("expected an uncompressed screenshot below the threshold")
	}
	payload, ok := frame.Payload[2].([]byte)
	if !ok || !bytes.HasPrefix(payload, []byte("\x89PNG")) {
		t.Fatalf("uncompressed screenshot payload does not look like a PNG: %v", frame.Payload[2])
	}
}
