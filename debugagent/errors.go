// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import "errors"

// Sentinel errors a caller may want to switch on with errors.Is.
// Everything else returned from this package is wrapped with
// fmt.Errorf("...: %w", ...) around one of these, or is a plain
// one-off error for a condition that has no programmatic meaning to
// callers (e.g. "node not found at path").
var (
	// ErrPeerDisconnected is returned by Debug when the peer is no
	// longer connected, either at entry or discovered mid-pump.
	ErrPeerDisconnected = errors.New("debugagent: peer disconnected")

	// ErrCannotBlock is returned by Debug when the configured peer
	// does not support blocking I/O (Peer.CanBlock() == false).
	ErrCannotBlock = errors.New("debugagent: peer does not support blocking I/O")

	// ErrUnknownNamespace names the condition of a verb whose namespace
	// has no registered capture. dispatch does not return it: it
	// reports that case as captured=false, and nothing is sent to the
	// peer; see spec.md §4.4.
	ErrUnknownNamespace = errors.New("debugagent: unknown capture namespace")

	// ErrClosed is returned by Idle and Debug once Close has been
	// called, including by a Debug call that was already pumping.
	ErrClosed = errors.New("debugagent: agent is closed")
)
