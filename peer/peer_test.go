// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/scenedebug/scenedebug/value"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := Frame{Verb: "core:break", ThreadID: 42, Payload: value.Array{"a", int64(1)}}
	if err := WriteFrame(&buf, in); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	out, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if out.Verb != in.Verb || out.ThreadID != in.ThreadID {
		t.Fatalf("round trip mismatch: %+v vs %+v", in, out)
	}
	if len(out.Payload) != 2 || out.Payload[0] != "a" || out.Payload[1] != int64(1) {
		t.Fatalf("payload mismatch: %+v", out.Payload)
	}
}

func TestFrameEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, Frame{Verb: "continue", ThreadID: 1}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	out, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if len(out.Payload) != 0 {
		t.Fatalf("expected empty payload, got %+v", out.Payload)
	}
}

func TestReadFrameMalformed(t *testing.T) {
	var buf bytes.Buffer
	// Encode a 2-element array instead of the required 3.
	encoded, err := value.Marshal(value.Array{"oops", int64(1)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := writeFramed(&buf, encoded); err != nil {
		t.Fatalf("writeFramed: %v", err)
	}
	if _, err := ReadFrame(&buf); err == nil {
		t.Fatal("expected ErrMalformedFrame, got nil")
	}
}

func TestInProcessPairRoundTrip(t *testing.T) {
	agentSide, driverSide := NewInProcessPair(nil)
	defer agentSide.(interface{ Close() error }).Close()
	defer driverSide.(interface{ Close() error }).Close()

	if err := driverSide.PutMessage(Frame{Verb: "continue", ThreadID: 1, Payload: value.Array{}}); err != nil {
		t.Fatalf("PutMessage: %v", err)
	}

	deadline := time.After(time.Second)
	for {
		agentSide.Poll()
		if agentSide.HasMessage() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for message")
		case <-time.After(time.Millisecond):
		}
	}
	frame, err := agentSide.GetMessage()
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if frame.Verb != "continue" {
		t.Fatalf("got verb %q", frame.Verb)
	}
}

func TestTCPPeerAuthHandshake(t *testing.T) {
	secret := []byte("shared-secret")
	listener, err := NewTCPListener("127.0.0.1:0", TCPListenerOptions{Secret: secret})
	if err != nil {
		t.Fatalf("NewTCPListener: %v", err)
	}
	defer listener.Close()

	serverPeer := make(chan Peer, 1)
	serverErr := make(chan error, 1)
	go func() {
		p, err := listener.Accept(context.Background())
		if err != nil {
			serverErr <- err
			return
		}
		serverPeer <- p
	}()

	clientPeer, err := DialTCP(context.Background(), listener.Address(), TCPDialerOptions{Secret: secret})
	if err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	defer clientPeer.(interface{ Close() error }).Close()

	select {
	case err := <-serverErr:
		t.Fatalf("Accept: %v", err)
	case p := <-serverPeer:
		defer p.(interface{ Close() error }).Close()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
}

func TestTCPPeerAuthRejectsWrongSecret(t *testing.T) {
	listener, err := NewTCPListener("127.0.0.1:0", TCPListenerOptions{Secret: []byte("correct")})
	if err != nil {
		t.Fatalf("NewTCPListener: %v", err)
	}
	defer listener.Close()

	acceptErr := make(chan error, 1)
	go func() {
		_, err := listener.Accept(context.Background())
		acceptErr <- err
	}()

	_, err = DialTCP(context.Background(), listener.Address(), TCPDialerOptions{Secret: []byte("wrong")})
	if err == nil {
		t.Fatal("expected DialTCP to fail with wrong secret")
	}
	select {
	case err := <-acceptErr:
		if err == nil {
			t.Fatal("expected Accept to report auth failure")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept to finish")
	}
}
