// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package debugagent

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/scenedebug/scenedebug/value"
)

// handleCore is the "core" capture (spec.md §4.7): breakpoint/flag/
// reload verbs identical to the break loop's own inline handling of
// them, plus "break" (ask the script debugger to enter a break from
// outside one) and the supplemented version/filesystem introspection
// commands (SPEC_FULL.md §6).
func (a *Agent) handleCore(cmd string, payload value.Array, threadID int) (value.Array, bool) {
	switch cmd {
	case "break":
		a.requestForceBreak()
		return nil, true

	case "breakpoint":
		if len(payload) != 3 {
			return nil, true
		}
		line, ok1 := value.Int(payload[0])
		source, ok2 := value.String(payload[1])
		set, ok3 := value.Bool(payload[2])
		if !ok1 || !ok2 || !ok3 {
			return nil, true
		}
		a.setBreakpoint(source, int(line), set)
		return nil, true

	case "set_skip_breakpoints":
		if len(payload) != 1 {
			return nil, true
		}
		skip, ok := value.Bool(payload[0])
		if !ok {
			return nil, true
		}
		a.setSkipBreakpoints(skip)
		return nil, true

	case "set_ignore_error_breaks":
		if len(payload) != 1 {
			return nil, true
		}
		ignore, ok := value.Bool(payload[0])
		if !ok {
			return nil, true
		}
		a.setIgnoreErrorBreaks(ignore)
		return nil, true

	case "reload_scripts":
		var paths []string
		for _, v := range payload {
			if s, ok := value.String(v); ok {
				paths = append(paths, s)
			}
		}
		a.deferScriptReload(false, paths)
		return nil, true

	case "reload_all_scripts":
		a.deferScriptReload(true, nil)
		return nil, true

	case "version":
		return a.helloPayload(), true

	case "filesystem_list":
		if len(payload) != 1 {
			return nil, true
		}
		rel, ok := value.String(payload[0])
		if !ok {
			return nil, true
		}
		entries, err := a.filesystemList(rel)
		if err != nil {
			a.logger.Warn("debugagent: core:filesystem_list failed", "path", rel, "error", err)
			return value.Array{value.Array{}}, true
		}
		return value.Array{entries}, true

	case "filesystem_read":
		if len(payload) != 1 {
			return nil, true
		}
		rel, ok := value.String(payload[0])
		if !ok {
			return nil, true
		}
		data, err := a.filesystemRead(rel)
		if err != nil {
			a.logger.Warn("debugagent: core:filesystem_read failed", "path", rel, "error", err)
			return value.Array{nil}, true
		}
		return value.Array{data}, true

	default:
		return nil, false
	}
}

func (a *Agent) helloPayload() value.Array {
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
	return payload
}

// setBreakpoint, setSkipBreakpoints, setIgnoreErrorBreaks are shared
// between handleCore (idle path) and the break loop's own inline
// switch (spec.md §4.6 pump), since both are "ask the script debugger
// to change its breakpoint/flag state" — the only difference is
// which path the verb arrived on.
func (a *Agent) setBreakpoint(source string, line int, enabled bool) {
	if a.scripts == nil {
		return
	}
	if err := a.scripts.SetBreakpoint(source, line, enabled); err != nil {
		a.logger.Warn("debugagent: SetBreakpoint failed", "source", source, "line", line, "error", err)
	}
}

func (a *Agent) setSkipBreakpoints(skip bool) {
	if a.scripts != nil {
		a.scripts.SetSkipBreakpoints(skip)
	}
}

func (a *Agent) setIgnoreErrorBreaks(ignore bool) {
	if a.scripts != nil {
		a.scripts.SetIgnoreErrorBreaks(ignore)
	}
}

func (a *Agent) deferScriptReload(all bool, paths []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if all {
		a.pendingReloadAll = true
		return
	}
	a.pendingReloadPaths = append(a.pendingReloadPaths, paths...)
}

// filesystemList and filesystemRead implement the supplemented
// core:filesystem_list / core:filesystem_read commands
// (SPEC_FULL.md §6), confined to Config.ProjectRoot. Both use the
// standard library exclusively: no example repo in the pack carries a
// project-tree browsing library, and the access pattern (list one
// directory, read one file, both path-confined) does not warrant one.
func (a *Agent) filesystemList(rel string) (value.Array, error) {
	root, full, err := a.resolveProjectPath(rel)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}
	out := make(value.Array, 0, len(entries))
	for _, entry := range entries {
		out = append(out, value.Dict{
			"name":   entry.Name(),
			"is_dir": entry.IsDir(),
		})
	}
	_ = root
	return out, nil
}

func (a *Agent) filesystemRead(rel string) ([]byte, error) {
	_, full, err := a.resolveProjectPath(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// resolveProjectPath joins rel onto Config.ProjectRoot and rejects any
// result that escapes the root, preventing ../ traversal.
func (a *Agent) resolveProjectPath(rel string) (root, full string, err error) {
	root = a.cfg.ProjectRoot
	if root == "" {
		return "", "", fs.ErrPermission
	}
	full = filepath.Join(root, filepath.Clean("/"+rel))
	relCheck, err := filepath.Rel(root, full)
	if err != nil || strings.HasPrefix(relCheck, "..") {
		return "", "", fs.ErrPermission
	}
	return root, full, nil
}
