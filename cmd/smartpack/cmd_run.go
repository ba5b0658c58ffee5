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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/SmartPack/cmd/smartpack/config"
	"github.com/AleutianAI/SmartPack/pkg/algorithms"
	"github.com/AleutianAI/SmartPack/services/explorer/datatypes"
)

// errInvalidInput marks errors caused by the command line arguments.
var errInvalidInput = errors.New("invalid input")

// buildRequest turns "run" arguments into a validated request.
func buildRequest(cmd *cobra.Command, args []string, opts *runOptions) (datatypes.StreamRequest, error) {
	family, ok := algorithms.ParseFamily(args[0])
	if !ok {
		return datatypes.StreamRequest{}, fmt.Errorf("%w: unknown family %q (want one of %s)",
			errInvalidInput, args[0], familyNames())
	}

	req := datatypes.StreamRequest{Family: string(family)}
	values := args[1:]
	if family.TakesStrings() {
		req.Strings = values
	} else {
		req.Numbers = make([]int, 0, len(values))
		for _, v := range values {
			n, err := strconv.Atoi(v)
			if err != nil {
				return req, fmt.Errorf("%w: %q is not an integer", errInvalidInput, v)
			}
			req.Numbers = append(req.Numbers, n)
		}
	}

	if cmd.Flags().Changed("target") {
		target := opts.target
		req.Target = &target
	}
	if cmd.Flags().Changed("k") {
		k := opts.k
		req.K = &k
	}

	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("%w: %s", errInvalidInput, strings.Join(datatypes.ValidationDetails(err), "; "))
	}
	return req, nil
}

func runAnalysis(cmd *cobra.Command, args []string, opts *runOptions) error {
	req, err := buildRequest(cmd, args, opts)
	if err != nil {
		return err
	}

	family, in := req.ToInput()
	res, err := algorithms.Analyze(family, in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		return writeJSON(out, datatypes.NewAnalysisResponse(res))
	}
	return newRenderer(out, opts.plain).Result(res)
}

func runPatterns(cmd *cobra.Command, asJSON, plain bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, datatypes.PatternMappingResponse{Patterns: algorithms.Patterns()})
	}
	return newRenderer(out, plain).Patterns(algorithms.Patterns())
}

func runConfigInit(cmd *cobra.Command, opts *configInitOptions) error {
	path := opts.path
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := config.WriteDefault(path, opts.force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
