// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the scenedebug demo
// binaries.
//
// Configuration is loaded from a single file specified by either the
// SCENEDEBUG_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks and no automatic file
// discovery — this keeps startup deterministic and auditable. The file
// may be YAML or JSONC (JSON with comments and trailing commas); the
// loader picks the parser by the file's extension.
//
// Key exports:
//
//   - [Config] -- master struct: Agent (debugagent.Config knobs),
//     Transport (peer wiring), Scene (mock scene-graph seed data)
//   - [Default] -- a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
package config
