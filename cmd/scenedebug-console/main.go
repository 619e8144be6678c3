// Copyright 2026 The scenedebug Authors
// SPDX-License-Identifier: Apache-2.0

// scenedebug-console is a terminal debugger UI: the "external tool"
// side of the scenedebug protocol. It dials a scenedebug-demo (or any
// other scenedebug-speaking) agent over TCP, displays output/error
// messages and break-loop transitions as they arrive, and lets the
// operator type commands back.
//
// Usage:
//
//	scenedebug-console --address 127.0.0.1:7777 [--key <hex>]
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scenedebug/scenedebug/peer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var address string
	var keyHex string
	var showVersion bool

	flagSet := pflag.NewFlagSet("scenedebug-console", pflag.ContinueOnError)
	flagSet.StringVar(&address, "address", "127.0.0.1:7777", "address of the scenedebug agent to attach to")
	flagSet.StringVar(&keyHex, "key", "", "hex-encoded preshared key, if the agent requires authentication")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Println("scenedebug-console 1.0")
		return nil
	}

	secret, err := decodeKey(keyHex)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p, err := peer.DialTCP(ctx, address, peer.TCPDialerOptions{Logger: logger, Secret: secret})
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", address, err)
	}

	program := tea.NewProgram(newModel(p), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func decodeKey(hexKey string) ([]byte, error) {
	if hexKey == "" {
		return nil, nil
	}
	secret, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding --key: %w", err)
	}
	return secret, nil
}
