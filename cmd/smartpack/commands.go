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
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/SmartPack/pkg/algorithms"
	"github.com/AleutianAI/SmartPack/pkg/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

type serveOptions struct {
	configPath string
	host       string
	port       int
}

type runOptions struct {
	target int
	k      int
	json   bool
	plain  bool
}

type configInitOptions struct {
	path  string
	force bool
}

func familyNames() string {
	names := make([]string, 0, len(algorithms.Families()))
	for _, f := range algorithms.Families() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	var (
		logLevel  string
		logDir    string
		logFormat string
		logger    *logging.Logger
	)

	rootCmd := &cobra.Command{
		Use:   "smartpack",
		Short: "SmartPack: explore classic DSA patterns step by step",
		Long: `SmartPack runs seven classic array and string algorithms and explains
every step they take. Use "serve" for the HTTP and websocket API, or "run" to
trace a single analysis in the terminal.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logFormat != "json" && logFormat != "text" {
				return fmt.Errorf("invalid log format %q (want json or text)", logFormat)
			}
			l, err := logging.New(logging.Config{
				Level:   logLevel,
				Output:  cmd.ErrOrStderr(),
				Text:    logFormat == "text",
				LogDir:  logDir,
				Service: "smartpack",
			})
			if err != nil {
				return err
			}
			logger = l
			slog.SetDefault(l.Slog())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logger == nil {
				return nil
			}
			return logger.Close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"Also append JSON logs to a daily file in this directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json",
		"Log format on stderr: json or text")

	rootCmd.AddCommand(newServeCmd(), newRunCmd(), newPatternsCmd(), newConfigCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SmartPack HTTP API",
		Long: `Starts the analysis API. Configuration is read from --config (or
~/.smartpack/smartpack.yaml when present), then environment variables, then
flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	opts.bind(serveCmd)
	return serveCmd
}

func (o *serveOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&o.host, "host", "", "Interface to bind")
	cmd.Flags().IntVarP(&o.port, "port", "p", 8000, "HTTP port")
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	runCmd := &cobra.Command{
		Use:   "run <family> [values...]",
		Short: "Trace one analysis in the terminal",
		Long: fmt.Sprintf(`Runs one analysis and prints its step-by-step trace.

Families: %s.
Values are integers, except for anagrams and encoding which take strings.
Put "--" before values that start with a minus sign.`, familyNames()),
		Example: `  smartpack run duplicates 1 2 3 1
  smartpack run anagrams listen silent
  smartpack run pairs --target 9 2 7 11 15
  smartpack run frequency --k 2 -- -1 -1 2 2 3
  smartpack run encoding --json hello world`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, args, opts)
		},
	}
	runCmd.Flags().IntVar(&opts.target, "target", 0, "Target sum (pairs)")
	runCmd.Flags().IntVar(&opts.k, "k", algorithms.DefaultK, "How many values to return (frequency)")
	runCmd.Flags().BoolVar(&opts.json, "json", false, "Print the API response JSON")
	runCmd.Flags().BoolVar(&opts.plain, "plain", false, "Disable styling even on a terminal")
	return runCmd
}

func newPatternsCmd() *cobra.Command {
	var plain, asJSON bool
	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the patterns each algorithm teaches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatterns(cmd, asJSON, plain)
		},
	}
	patternsCmd.Flags().BoolVar(&asJSON, "json", false, "Print the API response JSON")
	patternsCmd.Flags().BoolVar(&plain, "plain", false, "Disable styling even on a terminal")
	return patternsCmd
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the SmartPack configuration file",
	}

	opts := &configInitOptions{}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, opts)
		},
	}
	initCmd.Flags().StringVar(&opts.path, "path", "", "Target file (default ~/.smartpack/smartpack.yaml)")
	initCmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
