// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment identifies the deployment type, mirroring how stricter
// defaults (Production) differ from loose ones (Development).
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config is the master configuration for the scenedebug demo binaries.
// The core debugagent package itself takes a debugagent.Config built
// in Go, not loaded from YAML — this Config is a thin, serializable
// superset for the cmd/ binaries to construct one from.
type Config struct {
	Environment Environment `yaml:"environment"`

	Agent     AgentConfig     `yaml:"agent"`
	Transport TransportConfig `yaml:"transport"`
	Scene     SceneConfig     `yaml:"scene"`
}

// AgentConfig mirrors debugagent.Config's rate-limit and domain knobs.
type AgentConfig struct {
	MaxCharsPerSecond    int `yaml:"max_chars_per_second"`
	MaxErrorsPerSecond   int `yaml:"max_errors_per_second"`
	MaxWarningsPerSecond int `yaml:"max_warnings_per_second"`
	MaxQueuedMessages    int `yaml:"max_queued_messages"`
	TreeRecursionDepth   int `yaml:"tree_recursion_depth"`

	InputEventsPerSecond float64 `yaml:"input_events_per_second"`
	InputBurst           int     `yaml:"input_burst"`

	ProjectRoot string `yaml:"project_root"`

	ScreenshotCompressThreshold int `yaml:"screenshot_compress_threshold"`
}

// TransportConfig selects and configures the Peer the demo binary
// wires the Agent to.
type TransportConfig struct {
	// Mode is "tcp" or "inprocess". Default: "tcp".
	Mode string `yaml:"mode"`

	// Address is the TCP listen/dial address (e.g. ":7777").
	Address string `yaml:"address"`

	// PresharedKeyHex, if non-empty, is hex-decoded into the HKDF/
	// ChaCha20-Poly1305 mutual handshake secret (peer/auth.go). Empty
	// disables authentication — fine for a loopback dev session, never
	// for anything else.
	PresharedKeyHex string `yaml:"preshared_key_hex"`
}

// SceneConfig seeds the demo binary's mock scene tree.
type SceneConfig struct {
	// RootName/RootClass name the synthetic tree root.
	RootName  string `yaml:"root_name"`
	RootClass string `yaml:"root_class"`
}

// Default returns development defaults. These exist to give every
// field a sensible zero value before a config file is merged in, not
// as a substitute for one.
func Default() *Config {
	return &Config{
		Environment: Development,
		Agent: AgentConfig{
			MaxCharsPerSecond:           32768,
			MaxErrorsPerSecond:         50,
			MaxWarningsPerSecond:       50,
			MaxQueuedMessages:          4096,
			TreeRecursionDepth:         64,
			InputEventsPerSecond:       200,
			InputBurst:                 50,
			ScreenshotCompressThreshold: 4096,
		},
		Transport: TransportConfig{
			Mode:    "tcp",
			Address: "127.0.0.1:7777",
		},
		Scene: SceneConfig{
			RootName:  "Root",
			RootClass: "Node",
		},
	}
}

// Load loads configuration from the SCENEDEBUG_CONFIG environment
// variable. There is no fallback — if it is unset, this fails.
func Load() (*Config, error) {
	path := os.Getenv("SCENEDEBUG_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("SCENEDEBUG_CONFIG environment variable not set; " +
			"set it to the path of your scenedebug.yaml config file, or use --config")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path. YAML is
// parsed directly; .json/.jsonc files are first stripped of comments
// and trailing commas (valid JSON is valid YAML, so the same
// yaml.Unmarshal call handles both afterward).
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Environment == Production {
		cfg.applyProductionDefaults()
	}
	return cfg, nil
}

// applyProductionDefaults is called when Environment is explicitly
// "production". It sets no values: a production config without
// transport.preshared_key_hex is left as it is and rejected by
// Validate.
func (c *Config) applyProductionDefaults() {
	if c.Transport.PresharedKeyHex == "" {
		// A production deployment with no preshared key is reachable
		// by anything that can open the socket; refuse to guess one
		// for the caller. Validate (below) surfaces this as an error.
	}
}

// Validate checks the configuration for obvious misconfiguration.
func (c *Config) Validate() error {
	var errs []error
	if c.Agent.MaxCharsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("agent.max_chars_per_second must be positive"))
	}
	if c.Transport.Mode != "tcp" && c.Transport.Mode != "inprocess" {
		errs = append(errs, fmt.Errorf("transport.mode must be \"tcp\" or \"inprocess\", got %q", c.Transport.Mode))
	}
	if c.Transport.Mode == "tcp" && c.Transport.Address == "" {
		errs = append(errs, fmt.Errorf("transport.address is required when transport.mode is \"tcp\""))
	}
	if c.Environment == Production && c.Transport.Mode == "tcp" && c.Transport.PresharedKeyHex == "" {
		errs = append(errs, fmt.Errorf("transport.preshared_key_hex is required in production"))
	}
	if len(errs) == 0 {
		return nil
	}
	joined := errs[0]
	for _, e := range errs[1:] {
		joined = fmt.Errorf("%w; %w", joined, e)
	}
	return joined
}
