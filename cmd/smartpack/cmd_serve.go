// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/SmartPack/cmd/smartpack/config"
	"github.com/AleutianAI/SmartPack/services/explorer"
)

// serveConfig resolves the service configuration: file, then environment,
// then flags that were set explicitly.
func serveConfig(cmd *cobra.Command, opts *serveOptions, lookup func(string) (string, bool)) (explorer.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return explorer.Config{}, err
	}
	if err := config.ApplyEnv(&cfg, lookup); err != nil {
		return explorer.Config{}, err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.port
	}
	return cfg.ToExplorerConfig(version), nil
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := serveConfig(cmd, opts, os.LookupEnv)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	svc, err := explorer.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create explorer service: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("SmartPack explorer starting", "version", version, "port", cfg.Port)
	if err := svc.Run(ctx); err != nil {
		return fmt.Errorf("explorer server error: %w", err)
	}
	slog.Info("SmartPack explorer stopped")
	return nil
}
