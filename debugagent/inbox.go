// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"log/slog"

	"github.com/scenedebug/scenedebug/peer"
	"github.com/scenedebug/scenedebug/value"
)

// inboundMessage is a demuxed {verb, payload} pair, the thread id
// already having done its job of routing it to the right inbox
// (spec.md §3's Message).
type inboundMessage struct {
	Verb    string
	Payload value.Array
}

// threadInbox is one thread's FIFO queue of demuxed inbound messages
// (spec.md §3's PerThreadInbox, one entry).
type threadInbox struct {
	queue []inboundMessage
}

func newThreadInbox() *threadInbox {
	return &threadInbox{}
}

func (t *threadInbox) push(m inboundMessage) {
	t.queue = append(t.queue, m)
}

func (t *threadInbox) hasMessage() bool {
	return len(t.queue) > 0
}

func (t *threadInbox) pop() (inboundMessage, bool) {
	if len(t.queue) == 0 {
		return inboundMessage{}, false
	}
	m := t.queue[0]
	t.queue = t.queue[1:]
	return m, true
}

// pollInbox pulls every currently available frame from the peer
// (without blocking) and demultiplexes it by origin thread id into
// the matching inbox entry (spec.md §4.5). Frames for threads with no
// registered inbox are discarded (I5); so are frames failing the
// shape check — peer.Poll/peer.GetMessage already enforce that shape,
// so there is nothing further to validate here.
func (a *Agent) pollInbox() {
	if err := a.peer.Poll(); err != nil {
		a.logger.Warn("debugagent: peer poll failed", slog.String("error", err.Error()))
		return
	}
	for a.peer.HasMessage() {
		frame, err := a.peer.GetMessage()
		if err != nil {
			break
		}
		a.demux(frame)
	}
}

func (a *Agent) demux(frame peer.Frame) {
	a.mu.Lock()
	defer a.mu.Unlock()
	inbox, ok := a.inboxes[frame.ThreadID]
	if !ok {
		return
	}
	inbox.push(inboundMessage{Verb: frame.Verb, Payload: frame.Payload})
}

// hasMessage and popMessage operate on the caller's own inbox only,
// per spec.md §4.5's has_message()/get_message() contract.
func (a *Agent) hasMessage(threadID int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	inbox, ok := a.inboxes[threadID]
	return ok && inbox.hasMessage()
}

func (a *Agent) popMessage(threadID int) (inboundMessage, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	inbox, ok := a.inboxes[threadID]
	if !ok {
		return inboundMessage{}, false
	}
	return inbox.pop()
}
