// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/scenedebug/scenedebug/value"
)

// frameHeaderLength is the size of the length prefix: 4 bytes,
// big-endian uint32.
const frameHeaderLength = 4

// maxFrameLength bounds a single frame's CBOR payload. 16 MB is
// generous for a debug session — the largest single payload in
// practice is an uncompressed screenshot, and automation:screenshot
// compresses those at or above debugagent's
// Config.ScreenshotCompressThreshold.
const maxFrameLength = 16 * 1024 * 1024

// ErrMalformedFrame is returned by ReadFrame when the bytes on the
// wire do not decode to a 3-element [verb, thread id, payload] array.
// Per the protocol's shape check, the caller should drop the frame and
// keep reading rather than treat this as a connection error — the
// length prefix already isolated the bad bytes from the rest of the
// stream.
var ErrMalformedFrame = errors.New("peer: malformed frame")

// Frame is one message exchanged with the peer. Inbound, ThreadID is
// the origin thread id that produced the message; outbound, it is the
// calling thread id that produced the send. See spec.md §6.
type Frame struct {
	Verb     string
	ThreadID int
	Payload  value.Array
}

// wireFrame is the exact 3-element shape encoded on the wire.
type wireFrame struct {
	_        struct{} `cbor:",toarray"`
	Verb     string
	ThreadID int64
	Payload  value.Array
}

// WriteFrame writes a length-prefixed, CBOR-encoded Frame to w.
func WriteFrame(w io.Writer, f Frame) error {
	encoded, err := value.Marshal(wireFrame{Verb: f.Verb, ThreadID: int64(f.ThreadID), Payload: f.Payload})
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if len(encoded) > maxFrameLength {
		return fmt.Errorf("encoded frame length %d exceeds maximum %d", len(encoded), maxFrameLength)
	}
	var header [frameHeaderLength]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(encoded)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(encoded); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed, CBOR-encoded Frame from r.
// Returns ErrMalformedFrame (wrapped) if the frame decodes but does not
// have the required [verb, thread id, payload] shape; the header and
// payload have still been consumed from r in that case, so the caller
// can safely continue reading the next frame. Any other returned error
// (EOF, oversized length) means the stream itself is no longer usable.
func ReadFrame(r io.Reader) (Frame, error) {
	var header [frameHeaderLength]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, err
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > maxFrameLength {
		return Frame{}, fmt.Errorf("frame length %d exceeds maximum %d", length, maxFrameLength)
	}
	body := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return Frame{}, err
		}
	}

	decoded, err := value.Unmarshal(body)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	arr, ok := value.ArrayOf(decoded)
	if !ok || len(arr) != 3 {
		return Frame{}, fmt.Errorf("%w: expected 3-element array, got %T", ErrMalformedFrame, decoded)
	}
	verb, ok := value.String(arr[0])
	if !ok {
		return Frame{}, fmt.Errorf("%w: verb is not a string", ErrMalformedFrame)
	}
	threadID, ok := value.Int(arr[1])
	if !ok {
		return Frame{}, fmt.Errorf("%w: thread id is not an int", ErrMalformedFrame)
	}
	payload, ok := value.ArrayOf(arr[2])
	if !ok {
		if arr[2] == nil {
			payload = value.Array{}
		} else {
			return Frame{}, fmt.Errorf("%w: payload is not an array", ErrMalformedFrame)
		}
	}
	return Frame{Verb: verb, ThreadID: int(threadID), Payload: payload}, nil
}
