// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

// scenedebug-demo hosts a debugagent.Agent wired to the in-memory
// scripthost/scenegraph/profiler reference implementations, so that
// scenedebug-console (or any other scenedebug.proto-speaking tool) has
// something real to attach to without embedding this package inside an
// actual game runtime.
//
// Usage:
//
//	scenedebug-demo [--config path] [--version]
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/scenedebug/scenedebug/debugagent"
	"github.com/scenedebug/scenedebug/lib/config"
	"github.com/scenedebug/scenedebug/peer"
	"github.com/scenedebug/scenedebug/profiler"
	"github.com/scenedebug/scenedebug/scenegraph"
	"github.com/scenedebug/scenedebug/scripthost"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var showVersion bool

	flagSet := pflag.NewFlagSet("scenedebug-demo", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to scenedebug.yaml (overrides SCENEDEBUG_CONFIG)")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Printf("scenedebug-demo %s\n", debugagent.ProtocolVersion)
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var agentPeer peer.Peer
	switch cfg.Transport.Mode {
	case "inprocess":
		agentPeer, _ = peer.NewInProcessPair(logger)
		logger.Warn("transport.mode=inprocess has no external driver; scenedebug-console cannot attach")
	default:
		secret, err := decodeSecret(cfg.Transport.PresharedKeyHex)
		if err != nil {
			return err
		}
		listener, err := peer.NewTCPListener(cfg.Transport.Address, peer.TCPListenerOptions{Logger: logger, Secret: secret})
		if err != nil {
			return err
		}
		defer listener.Close()
		logger.Info("listening", slog.String("address", listener.Address()))

		acceptedPeer, err := waitForConnection(ctx, listener)
		if err != nil {
			return err
		}
		agentPeer = acceptedPeer
	}

	scripts := scripthost.NewMock()
	scene := scenegraph.NewMock(buildDemoTree(cfg), "/Root")
	profilers := profiler.NewRegistry()
	profiler.Register(profilers, "physics", profiler.NewSimpleProfiler())
	profiler.Register(profilers, "rendering", profiler.NewSimpleProfiler())
	perf := profiler.NewMockPerformance()
	perf.SetMonitor(0, 60.0) // frame time placeholder

	agentCfg := debugagent.Config{
		MaxCharsPerSecond:           cfg.Agent.MaxCharsPerSecond,
		MaxErrorsPerSecond:          cfg.Agent.MaxErrorsPerSecond,
		MaxWarningsPerSecond:        cfg.Agent.MaxWarningsPerSecond,
		MaxQueuedMessages:           cfg.Agent.MaxQueuedMessages,
		TreeRecursionDepth:          cfg.Agent.TreeRecursionDepth,
		InputEventsPerSecond:        cfg.Agent.InputEventsPerSecond,
		InputBurst:                  cfg.Agent.InputBurst,
		ProjectRoot:                 cfg.Agent.ProjectRoot,
		ScreenshotCompressThreshold: cfg.Agent.ScreenshotCompressThreshold,
		Logger:                      logger,
	}

	agent, err := debugagent.New(agentPeer, scripts, scene, profilers, perf, agentCfg)
	if err != nil {
		return fmt.Errorf("constructing agent: %w", err)
	}
	defer agent.Close()

	logger.Info("scenedebug-demo running")
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
			if err := agent.Idle(debugagent.MainThreadID); err != nil {
				logger.Warn("idle tick failed", slog.String("error", err.Error()))
			}
			if all, paths, pending := agent.PendingScriptReload(); pending {
				logger.Info("script reload requested", slog.Bool("all", all), slog.Any("paths", paths))
			}
			if agent.ConsumeForceBreak() {
				if err := agent.Debug(debugagent.MainThreadID, true, false); err != nil {
					logger.Warn("debug loop exited", slog.String("error", err.Error()))
				}
			}
		}
	}
}

func loadConfig(explicitPath string) (*config.Config, error) {
	if explicitPath != "" {
		return config.LoadFile(explicitPath)
	}
	if os.Getenv("SCENEDEBUG_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

func decodeSecret(hexKey string) ([]byte, error) {
	if hexKey == "" {
		return nil, nil
	}
	secret, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding transport.preshared_key_hex: %w", err)
	}
	return secret, nil
}

func waitForConnection(ctx context.Context, listener *peer.TCPListener) (peer.Peer, error) {
	type result struct {
		p   peer.Peer
		err error
	}
	done := make(chan result, 1)
	go func() {
		p, err := listener.Accept(ctx)
		done <- result{p, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.p, r.err
	}
}

// buildDemoTree constructs a small synthetic scene tree so
// automation:get_tree/query_nodes have something to show.
func buildDemoTree(cfg *config.Config) *scenegraph.Node {
	root := scenegraph.NewNode(cfg.Scene.RootName, cfg.Scene.RootClass, scenegraph.KindOther)
	player := scenegraph.NewNode("Player", "CharacterBody2D", scenegraph.KindNode2D)
	player.SetTransform2D(scenegraph.Vec2{X: 32, Y: 64}, scenegraph.Vec2{}, scenegraph.Vec2{X: 1, Y: 1})
	player.SetProperty("health", int64(100))
	enemies := scenegraph.NewNode("Enemies", "Node2D", scenegraph.KindNode2D)
	for i := 0; i < 3; i++ {
		enemy := scenegraph.NewNode(fmt.Sprintf("Enemy%d", i+1), "CharacterBody2D", scenegraph.KindNode2D)
		enemy.SetTransform2D(scenegraph.Vec2{X: float64(100 + i*40), Y: 64}, scenegraph.Vec2{}, scenegraph.Vec2{X: 1, Y: 1})
		enemies.AddChild(enemy)
	}
	hud := scenegraph.NewNode("HUD", "Control", scenegraph.KindControl)
	hud.SetControlGeometry(scenegraph.Vec2{}, scenegraph.Vec2{X: 1280, Y: 720})

	root.AddChild(player)
	root.AddChild(enemies)
	root.AddChild(hud)
	return root
}
