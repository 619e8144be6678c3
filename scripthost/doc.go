// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

// Package scripthost defines the interface debugagent.Agent uses to
// talk to the host application's script language adapter: stack
// introspection, breakpoint storage, and expression evaluation.
//
// scenedebug does not implement a script language. [Host] is the seam;
// [Mock] is a minimal in-memory reference implementation used by the
// engine's own tests and the demo binaries, standing in for whatever
// real interpreter a host application would plug in here.
package scripthost
