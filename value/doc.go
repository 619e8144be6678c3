// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

// Package value defines the dynamic value type carried across the
// scenedebug wire protocol and exposed to capture handlers, the break
// loop's expression evaluator, and scene-graph property getters/setters.
//
// The runtime being debugged has its own dynamic value system (script
// variables, node properties, evaluated expressions). scenedebug does not
// require reflection into that system: it only needs a sum type over
// {null, bool, int, float, string, bytes, array, dict, opaque object} that
// every adapter (script host, scene graph, profiler registry) can produce
// and that the wire codec can serialize.
//
// [Value] is a plain Go `any`; [Kind] classifies it; [Opaque] wraps a
// runtime object that has no wire representation (e.g. a live node
// reference) but still needs a human-readable stand-in when it crosses
// the peer.
package value
