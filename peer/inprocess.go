// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import (
	"log/slog"
	"net"
)

// NewInProcessPair returns two Peers connected by a net.Pipe, one to
// hand to debugagent.New and one to drive as the "external tool" side.
// Used by engine tests and the in-process demo binary, which do not
// need a real socket.
func NewInProcessPair(logger *slog.Logger) (agentSide, driverSide Peer) {
	a, b := net.Pipe()
	return newStreamPeer(a, logger), newStreamPeer(b, logger)
}
