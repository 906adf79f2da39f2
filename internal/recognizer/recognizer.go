// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package recognizer defines the contract with the external named-entity
// recognition service that supplies contextual sightings (names, addresses,
// birth dates, organizations) the regex library cannot see.
package recognizer

import (
	"context"
	"errors"

	"pii-guardian/internal/detector"
)

// ErrUnavailable signals that the service cannot be reached right now.
// The pipeline treats it as a soft failure: detection proceeds regex-only
// and the result is marked degraded.
var ErrUnavailable = errors.New("contextual recognizer unavailable")

// Candidate is one sighting reported by the recognition service.
// Offsets are byte offsets into the submitted text.
type Candidate struct {
	Type       detector.PIIType `json:"type"`
	Start      int              `json:"start"`
	End        int              `json:"end"`
	Confidence float64          `json:"confidence"`
}

// Result is the outcome of one recognition call.
type Result struct {
	Candidates []Candidate
	Truncated  bool // text was cut to the service limit before submission
}

// Recognizer is implemented by anything that can produce contextual
// sightings for a text. minConfidence filters candidates at the source so
// an escalation pass can re-query with a lower cutoff.
type Recognizer interface {
	Recognize(ctx context.Context, text string, minConfidence float64) (Result, error)
}
