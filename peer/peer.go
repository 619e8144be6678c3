// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import (
	"errors"
	"io"
	"log/slog"
	"sync"
)

// Peer is the transport contract consumed by debugagent.Agent (spec.md
// §6). It is the only interface the core engine depends on to talk to
// the outside world — any reliable duplex byte stream with message
// boundaries can implement it.
type Peer interface {
	// Poll pulls every frame currently available from the transport
	// into an internal queue, without blocking. Call before HasMessage.
	Poll() error

	// HasMessage reports whether a polled frame is waiting to be read.
	HasMessage() bool

	// GetMessage pops and returns the oldest polled frame. Returns an
	// error if none is available — call HasMessage first.
	GetMessage() (Frame, error)

	// PutMessage sends a frame. May block briefly under transport
	// backpressure; any non-nil error is treated as a dropped message
	// by the caller.
	PutMessage(Frame) error

	// IsConnected reports whether the transport is still usable.
	IsConnected() bool

	// CanBlock reports whether PutMessage/the underlying transport
	// supports blocking I/O. debugagent.Agent.Debug refuses to enter
	// the break loop on a peer that cannot.
	CanBlock() bool
}

// streamPeer adapts any io.ReadWriteCloser (a net.Conn, a net.Pipe
// half, ...) to Peer using the length-prefixed CBOR framing in
// frame.go. A background goroutine reads frames continuously (Read on
// a stream is inherently blocking) and delivers them to a buffered
// channel; Poll drains that channel into a plain queue so HasMessage
// and GetMessage never block.
type streamPeer struct {
	conn   io.ReadWriteCloser
	logger *slog.Logger

	writeMu sync.Mutex

	incoming chan Frame
	readErr  chan error

	queueMu sync.Mutex
	queue   []Frame

	closed    chan struct{}
	closeOnce sync.Once

	connectedMu sync.Mutex
	connected   bool
}

// newStreamPeer wraps conn and starts the background frame reader.
// logger may be nil (defaults to slog.Default()).
func newStreamPeer(conn io.ReadWriteCloser, logger *slog.Logger) *streamPeer {
	if logger == nil {
		logger = slog.Default()
	}
	p := &streamPeer{
		conn:      conn,
		logger:    logger,
		incoming:  make(chan Frame, 256),
		readErr:   make(chan error, 1),
		closed:    make(chan struct{}),
		connected: true,
	}
	go p.readLoop()
	return p
}

func (p *streamPeer) readLoop() {
	for {
		frame, err := ReadFrame(p.conn)
		if err != nil {
			if errors.Is(err, ErrMalformedFrame) {
				p.logger.Warn("peer: dropping malformed frame", slog.String("error", err.Error()))
				continue
			}
			p.setDisconnected()
			select {
			case p.readErr <- err:
			default:
			}
			return
		}
		select {
		case p.incoming <- frame:
		case <-p.closed:
			return
		}
	}
}

func (p *streamPeer) setDisconnected() {
	p.connectedMu.Lock()
	p.connected = false
	p.connectedMu.Unlock()
}

// Poll drains every frame the background reader has buffered so far
// into the synchronous queue, without blocking.
func (p *streamPeer) Poll() error {
	p.queueMu.Lock()
	defer p.queueMu.Unlock()
	for {
		select {
		case frame := <-p.incoming:
			p.queue = append(p.queue, frame)
		default:
			return nil
		}
	}
}

func (p *streamPeer) HasMessage() bool {
	p.queueMu.Lock()
	defer p.queueMu.Unlock()
	return len(p.queue) > 0
}

func (p *streamPeer) GetMessage() (Frame, error) {
	p.queueMu.Lock()
	defer p.queueMu.Unlock()
	if len(p.queue) == 0 {
		return Frame{}, io.EOF
	}
	frame := p.queue[0]
	p.queue = p.queue[1:]
	return frame, nil
}

func (p *streamPeer) PutMessage(f Frame) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if err := WriteFrame(p.conn, f); err != nil {
		p.setDisconnected()
		return err
	}
	return nil
}

func (p *streamPeer) IsConnected() bool {
	p.connectedMu.Lock()
	defer p.connectedMu.Unlock()
	return p.connected
}

func (p *streamPeer) CanBlock() bool { return true }

// Close shuts down the underlying connection and stops the background
// reader.
func (p *streamPeer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.setDisconnected()
		close(p.closed)
		err = p.conn.Close()
	})
	return err
}
