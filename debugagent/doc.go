// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

// Package debugagent is the message-multiplexing, rate-limiting,
// reentrancy-safe debug engine at the center of scenedebug: it
// attaches to a [peer.Peer], multiplexes print/error capture,
// breakpoint stepping, profiler control, and scene automation over
// that single transport, and exposes the result to an external
// debugger UI or automation driver.
//
// Agent is deliberately generic over the script language, scene
// graph, and profiler set it drives — those are the [scripthost.Host],
// [scenegraph.SceneGraph], and [profiler.Registry] interfaces a caller
// supplies to [New].
package debugagent
