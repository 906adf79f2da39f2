// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"io"
	"time"

	"pii-guardian/internal/config"
	"pii-guardian/internal/observability"
	"pii-guardian/internal/recognizer"
)

// BuildDetector assembles a detector from configuration: resolves the mode
// (custom or preset), wires the recognizer client unless disabled, and
// attaches an observer writing to logWriter.
func BuildDetector(cfg *config.Config, mode string, logWriter io.Writer) (*Detector, error) {
	pol, err := cfg.ResolvePolicy(mode)
	if err != nil {
		return nil, fmt.Errorf("resolving mode: %w", err)
	}

	level := observability.ObservabilityOff
	if cfg.Defaults.Verbose {
		level = observability.ObservabilityMetrics
	}
	if cfg.Defaults.Debug {
		level = observability.ObservabilityDebug
	}
	observer := observability.NewStandardObserver(level, logWriter)

	opts := []Option{WithObserver(observer)}
	if !cfg.Recognizer.Disabled && cfg.Recognizer.Endpoint != "" {
		client := recognizer.NewHTTPClient(
			cfg.Recognizer.Endpoint,
			recognizer.WithTimeout(time.Duration(cfg.Recognizer.TimeoutMS)*time.Millisecond),
			recognizer.WithMaxTextLength(cfg.Recognizer.MaxTextLength),
		)
		opts = append(opts, WithRecognizer(client))
	}

	return NewDetector(pol, opts...)
}
