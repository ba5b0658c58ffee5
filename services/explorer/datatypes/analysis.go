// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides the wire types for the explorer service.
//
// This file contains the analysis request and response bodies. Streaming
// frames live in stream.go.
package datatypes

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/SmartPack/pkg/algorithms"
)

// =============================================================================
// Input Limits
// =============================================================================

const (
	// MaxElements is the maximum number of numbers or strings per request.
	MaxElements = 100_000

	// MaxStringRunes is the maximum length of a single input string.
	MaxStringRunes = 10_000

	// MaxAbsInt is the largest magnitude accepted for any integer field.
	// Larger values cannot round-trip through JavaScript clients.
	MaxAbsInt = 1<<53 - 1
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// analysisValidate is the validator instance for analysis datatypes.
// Initialized in init() with custom validators.
var analysisValidate *validator.Validate

func init() {
	analysisValidate = validator.New()
	analysisValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = analysisValidate.RegisterValidation("dsa_int_bound", validateIntBound)
	_ = analysisValidate.RegisterValidation("dsa_family", validateFamily)
}

// validateIntBound rejects integers outside [-MaxAbsInt, MaxAbsInt].
func validateIntBound(fl validator.FieldLevel) bool {
	v := fl.Field().Int()
	return v >= -MaxAbsInt && v <= MaxAbsInt
}

// validateFamily accepts only registered problem families.
func validateFamily(fl validator.FieldLevel) bool {
	_, ok := algorithms.ParseFamily(fl.Field().String())
	return ok
}

// ValidationDetails flattens a validation error into one message per
// failing field, e.g. "numbers[2] failed dsa_int_bound". Errors that are
// not validation errors yield their own message.
func ValidationDetails(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fmt.Sprintf("%s failed %s", fieldPath(fe), fe.Tag()))
	}
	return details
}

// fieldPath renders the namespace without the top-level struct name.
func fieldPath(fe validator.FieldError) string {
	if _, path, ok := strings.Cut(fe.Namespace(), "."); ok {
		return path
	}
	return fe.Namespace()
}

// =============================================================================
// Request Types
// =============================================================================

// NumericAnalysisRequest is the body for the numeric analysis endpoints.
//
// # Description
//
// Used by POST /analyze/duplicates, /frequency, /pairs, /products and
// /sequences. Target is required by /pairs only; K is read by /frequency
// only and defaults to 1.
//
// # Validation
//
//   - Numbers: required (may be empty), at most MaxElements, each within MaxAbsInt
//   - Target: optional, within MaxAbsInt
//   - K: optional, non-negative
//
// # Examples
//
//	{"numbers": [2, 7, 11, 15], "target": 9}
//	{"numbers": [1, 1, 1, 2, 2, 3], "k": 2}
type NumericAnalysisRequest struct {
	Numbers []int          `json:"numbers" validate:"required,max=100000,dive,dsa_int_bound"`
	Target  *int           `json:"target,omitempty" validate:"omitempty,dsa_int_bound"`
	K       *int           `json:"k,omitempty" validate:"omitempty,gte=0,lte=100000"`
	Options map[string]any `json:"options,omitempty"`
}

// Validate validates the request fields.
func (r *NumericAnalysisRequest) Validate() error {
	return analysisValidate.Struct(r)
}

// ToInput converts the request into an analysis input.
func (r *NumericAnalysisRequest) ToInput() algorithms.Input {
	return algorithms.Input{Numbers: r.Numbers, Target: r.Target, K: r.K}
}

// StringAnalysisRequest is the body for POST /analyze/anagrams and
// /analyze/encoding.
//
// # Validation
//
//   - Strings: required (may be empty), at most MaxElements, each at most MaxStringRunes
type StringAnalysisRequest struct {
	Strings []string       `json:"strings" validate:"required,max=100000,dive,max=10000"`
	Options map[string]any `json:"options,omitempty"`
}

// Validate validates the request fields.
func (r *StringAnalysisRequest) Validate() error {
	return analysisValidate.Struct(r)
}

// ToInput converts the request into an analysis input.
func (r *StringAnalysisRequest) ToInput() algorithms.Input {
	return algorithms.Input{Strings: r.Strings}
}

// =============================================================================
// Response Types
// =============================================================================

// AnalysisResponse is the wire form of an analysis result.
//
// # Examples
//
//	{
//	    "result": [0, 1],
//	    "algorithm": "Two Sum (Hash Map)",
//	    "complexity": {"time": "O(n)", "space": "O(n)"},
//	    "explanation": "Uses hash map to find complement in single pass",
//	    "steps": ["Looking for two numbers that sum to 9", ...],
//	    "visualization_data": {"type": "two_sum", ...}
//	}
type AnalysisResponse struct {
	Result            any                      `json:"result"`
	Algorithm         string                   `json:"algorithm"`
	Complexity        algorithms.Complexity    `json:"complexity"`
	Explanation       string                   `json:"explanation"`
	Steps             []string                 `json:"steps"`
	VisualizationData algorithms.Visualization `json:"visualization_data"`
}

// NewAnalysisResponse converts an analysis result to its wire form.
func NewAnalysisResponse(r *algorithms.Result) AnalysisResponse {
	return AnalysisResponse{
		Result:            r.Value,
		Algorithm:         r.Descriptor.Label,
		Complexity:        r.Descriptor.Complexity,
		Explanation:       r.Descriptor.Explanation,
		Steps:             r.Steps,
		VisualizationData: r.Visualization,
	}
}

// PatternMappingResponse is the body of GET /algorithms/mapping.
type PatternMappingResponse struct {
	Patterns []algorithms.Pattern `json:"patterns"`
}

// ServiceInfo is the body of GET /.
type ServiceInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every 4xx/5xx reply.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
