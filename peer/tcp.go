// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import (
	"context"
	"fmt"
	"log/slog"
	"net"
)

// Compile-time interface check.
var _ Peer = (*streamPeer)(nil)

// TCPListenerOptions configures NewTCPListener.
type TCPListenerOptions struct {
	// Logger receives warnings about malformed frames. Defaults to
	// slog.Default() when nil.
	Logger *slog.Logger

	// Secret, when non-empty, requires every accepted connection to
	// complete the handshake in auth.go before it is handed back as a
	// Peer. Connections that fail the handshake are closed.
	Secret []byte
}

// TCPListener accepts inbound TCP connections from a debugger UI or
// automation driver. This is the development/same-LAN transport — no
// NAT traversal. Each accepted connection becomes one [Peer].
type TCPListener struct {
	listener net.Listener
	options  TCPListenerOptions
}

// NewTCPListener binds address (e.g. ":7777" or "127.0.0.1:7777") and
// returns a listener ready to Accept.
func NewTCPListener(address string, options TCPListenerOptions) (*TCPListener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}
	return &TCPListener{listener: ln, options: options}, nil
}

// Address returns the bound address, resolving ":0" to the actual port.
func (l *TCPListener) Address() string { return l.listener.Addr().String() }

// Accept blocks until a connection arrives, completes the optional
// auth handshake, and returns it as a Peer. Call in a loop from the
// host application's own goroutine.
func (l *TCPListener) Accept(ctx context.Context) (Peer, error) {
	conn, err := l.listener.Accept()
	if err != nil {
		return nil, fmt.Errorf("accept: %w", err)
	}
	if len(l.options.Secret) > 0 {
		if err := authenticateServer(ctx, conn, l.options.Secret); err != nil {
			conn.Close()
			return nil, fmt.Errorf("peer auth: %w", err)
		}
	}
	return newStreamPeer(conn, l.options.Logger), nil
}

// Close stops accepting new connections. Existing Peers are unaffected.
func (l *TCPListener) Close() error { return l.listener.Close() }

// TCPDialerOptions configures DialTCP.
type TCPDialerOptions struct {
	Logger *slog.Logger
	Secret []byte
}

// DialTCP connects to a TCPListener at address and returns the
// connection as a Peer, completing the optional auth handshake first.
func DialTCP(ctx context.Context, address string, options TCPDialerOptions) (Peer, error) {
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	if len(options.Secret) > 0 {
		if err := authenticateClient(ctx, conn, options.Secret); err != nil {
			conn.Close()
			return nil, fmt.Errorf("peer auth: %w", err)
		}
	}
	return newStreamPeer(conn, options.Logger), nil
}
