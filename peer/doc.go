// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

// Package peer implements the transport side of the debug protocol:
// the [Peer] contract debugagent.Agent is built against, the wire
// framing used to carry [Frame] values over a byte stream, and two
// concrete transports.
//
// The package is organized the way a framed-protocol package usually
// is:
//
//   - frame.go: wire format (length-prefixed CBOR) and the [Frame] type
//   - peer.go: the [Peer] interface and the stream-backed implementation
//     shared by both concrete transports
//   - tcp.go: TCP listener/dialer construction (debugger UI over the
//     network or localhost)
//   - inprocess.go: net.Pipe-backed pair for tests and the in-process demo
//   - auth.go: optional pre-shared-token handshake gating acceptance of
//     a connection before any frame is exchanged
package peer
