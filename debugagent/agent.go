// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/time/rate"

	"github.com/scenedebug/scenedebug/lib/clock"
	"github.com/scenedebug/scenedebug/peer"
	"github.com/scenedebug/scenedebug/profiler"
	"github.com/scenedebug/scenedebug/scenegraph"
	"github.com/scenedebug/scenedebug/scripthost"
	"github.com/scenedebug/scenedebug/value"
)

// ProtocolVersion is the version advertised in the hello message sent
// once per Agent, right after construction.
const ProtocolVersion = "1.0"

// Agent is the core debug engine: C1–C9 of spec.md, generalized over
// the script/scene/profiler collaborators a caller supplies.
//
// There is no language-level global print/error hook registry here —
// per spec.md §9's design note, the "hook" is simply RecordPrint /
// RecordError bound to a *Agent. A host application wires its own
// print/error paths to call them; Close makes both no-ops, which is
// the observable effect of "uninstalling" them.
type Agent struct {
	mu sync.Mutex

	peer      peer.Peer
	scripts   scripthost.Host
	scene     scenegraph.SceneGraph
	profilers profiler.Registry
	perf      profiler.PerformanceMonitor

	cfg    Config
	logger *slog.Logger
	clock  clock.Clock

	startedAt int64 // clock.Now() UnixMilli at construction, for timestampFromMillis

	// C1 output buffer state.
	outputLines []OutputLine
	charCount   int

	// C2 error buffer state.
	errorRecords      []ErrorRecord
	errCount          int
	warnCount         int
	nErrorsDropped    int
	nWarningsDropped  int
	warnedErrorsThisWindow   bool
	warnedWarningsThisWindow bool

	// Shared rate-limit window state.
	lastResetMs      int64
	nMessagesDropped int

	// C8 reentrancy guard. These are atomics, not fields guarded by
	// mu, specifically so RecordPrint/RecordError can test them
	// *before* acquiring mu — acquiring mu first would deadlock when
	// the flusher's own thread re-enters via a print/error hook it
	// calls while draining (spec.md §4.8/§9).
	flushing      atomic.Bool
	flushThreadID atomic.Int64

	// C4 capture registry.
	captures map[string]CaptureFunc

	// C5 per-thread inbox.
	inboxes map[int]*threadInbox

	// C6 break loop bookkeeping, keyed by thread id of whichever
	// thread(s) are currently inside Debug.
	breakState map[int]*breakThreadState

	// automation input throttle (SPEC_FULL.md P9).
	inputLimiter *rate.Limiter

	// automation:screenshot compression (SPEC_FULL.md §5) and
	// automation:get_tree subtree memoization (P10).
	zstdEncoder *zstd.Encoder
	treeCache   treeCache

	// core:reload_scripts / reload_all_scripts deferral (spec.md
	// §4.6). Owned by the Agent, not scripthost.Host — the host's own
	// idle loop is responsible for acting on it; see
	// PendingScriptReload.
	pendingReloadAll   bool
	pendingReloadPaths []string

	// core:break deferral (idle path only — see handleCore). The
	// break loop itself handles its own already-in-break "break"
	// verb inline; this flag is for a driver asking to enter a break
	// from outside one.
	pendingForceBreak bool

	// Performance profiler tick state (C9 tail, spec.md §4.9).
	lastPerfSendMs  int64
	lastPerfModTime int64

	closed bool
}

// New constructs an Agent attached to p, registers the built-in core/
// profiler/automation captures, seeds the main thread's inbox, and
// sends the hello capability message. perf may be nil if the host
// exposes no Performance singleton — the periodic profiler tick is
// then simply never installed (spec.md §4.9).
func New(p peer.Peer, scripts scripthost.Host, scene scenegraph.SceneGraph, profilers profiler.Registry, perf profiler.PerformanceMonitor, cfg Config) (*Agent, error) {
	if p == nil {
		return nil, fmt.Errorf("debugagent: peer must not be nil")
	}
	cfg = cfg.withDefaults()

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("debugagent: constructing zstd encoder: %w", err)
	}

	a := &Agent{
		peer:         p,
		scripts:      scripts,
		scene:        scene,
		profilers:    profilers,
		perf:         perf,
		cfg:          cfg,
		logger:       cfg.Logger,
		clock:        cfg.Clock,
		startedAt:    cfg.Clock.Now().UnixMilli(),
		lastResetMs:  0,
		captures:     make(map[string]CaptureFunc),
		inboxes:      make(map[int]*threadInbox),
		breakState:   make(map[int]*breakThreadState),
		inputLimiter: newInputLimiter(cfg),
		zstdEncoder:  encoder,
	}

	a.registerBuiltinCaptures()
	a.inboxes[MainThreadID] = newThreadInbox()

	if err := a.sendHello(); err != nil {
		a.logger.Warn("debugagent: failed to send hello", slog.String("error", err.Error()))
	}
	return a, nil
}

// Close removes the Agent's hooks: RecordPrint, RecordError, and
// Idle become no-ops (Idle returns ErrClosed), and Debug calls in
// progress return ErrClosed on their next pump iteration. Close does
// not close the underlying peer.
func (a *Agent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.zstdEncoder != nil {
		a.zstdEncoder.Close()
	}
	return nil
}

func (a *Agent) register(namespace string, fn CaptureFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.captures[namespace] = fn
}

func (a *Agent) sendHello() error {
	a.mu.Lock()
	namespaces := make([]string, 0, len(a.captures))
	for ns := range a.captures {
		namespaces = append(namespaces, ns)
	}
	a.mu.Unlock()

	payload := make(value.Array, 0, 1+len(namespaces))
	payload = append(payload, ProtocolVersion)
	for _, ns := range namespaces {
		payload = append(payload, ns)
	}
	return a.send("hello", MainThreadID, payload)
}

// send writes verb/threadID/payload to the peer, counting any failure
// as a dropped message per spec.md §4.3.
func (a *Agent) send(verb string, threadID int, payload value.Array) error {
	if err := a.peer.PutMessage(peer.Frame{Verb: verb, ThreadID: threadID, Payload: payload}); err != nil {
		a.mu.Lock()
		a.nMessagesDropped++
		a.mu.Unlock()
		return err
	}
	return nil
}

// nowMillis returns milliseconds elapsed since construction, the
// monotonic clock spec.md §6 bases timestamps and window resets on.
func (a *Agent) nowMillis() int64 {
	return a.clock.Now().UnixMilli() - a.startedAt
}

// requestForceBreak records an idle-path "core:break" request; see
// ConsumeForceBreak.
func (a *Agent) requestForceBreak() {
	a.mu.Lock()
	a.pendingForceBreak = true
	a.mu.Unlock()
}

// ConsumeForceBreak reports and clears whether a driver has asked
// (via "core:break" on the idle path) to enter a break. Like
// PendingScriptReload, this package cannot itself force the script
// VM to stop — the host's own idle loop should check this once per
// frame and, if true, arrange for Debug to be called on the
// appropriate thread at its next safe point.
func (a *Agent) ConsumeForceBreak() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	v := a.pendingForceBreak
	a.pendingForceBreak = false
	return v
}

// PendingScriptReload reports and clears any reload_scripts /
// reload_all_scripts request deferred by the break loop (spec.md
// §4.6). The host's own idle loop should call this once per frame and
// act on a true return by reloading the named scripts (or everything,
// if all is true) through whatever means it normally does so — this
// package never touches script source itself.
func (a *Agent) PendingScriptReload() (all bool, paths []string, pending bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.pendingReloadAll && len(a.pendingReloadPaths) == 0 {
		return false, nil, false
	}
	all, paths = a.pendingReloadAll, a.pendingReloadPaths
	a.pendingReloadAll = false
	a.pendingReloadPaths = nil
	return all, paths, true
}
