// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

// Package scenegraph defines the interface debugagent.Agent uses to
// inspect and drive the host application's scene tree: node lookup,
// property/method access, input synthesis, screenshots, and scene
// lifecycle control. [Mock] is a minimal in-memory reference
// implementation used by the engine's own tests and the demo
// binaries, standing in for whatever real scene tree a host
// application would plug in here.
package scenegraph
