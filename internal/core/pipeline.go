// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core orchestrates the detection pipeline: pattern extraction,
// validation, the contextual pass, fusion, scoring, threshold filtering,
// escalation and the final decision.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pii-guardian/internal/afn"
	"pii-guardian/internal/detector"
	"pii-guardian/internal/fusion"
	"pii-guardian/internal/observability"
	"pii-guardian/internal/patterns"
	"pii-guardian/internal/policy"
	"pii-guardian/internal/recognizer"
	"pii-guardian/internal/scoring"
	"pii-guardian/internal/validators"
)

// ErrInvalidEncoding is returned when the input is not valid UTF-8.
var ErrInvalidEncoding = errors.New("text is not valid UTF-8")

// Detector runs the full pipeline for one policy. Safe for concurrent use.
type Detector struct {
	pol      policy.Policy
	lib      *patterns.Library
	set      *validators.Set
	rec      recognizer.Recognizer
	scorer   *scoring.Scorer
	esc      *afn.Escalator
	observer *observability.StandardObserver
}

// Option customizes a Detector.
type Option func(*Detector)

// WithRecognizer wires the contextual recognition service. Without it the
// pipeline runs regex-only.
func WithRecognizer(rec recognizer.Recognizer) Option {
	return func(d *Detector) { d.rec = rec }
}

// WithObserver wires structured operation logging.
func WithObserver(obs *observability.StandardObserver) Option {
	return func(d *Detector) { d.observer = obs }
}

// NewDetector builds a detector for the given policy, failing fast on a
// misconfigured one.
func NewDetector(pol policy.Policy, opts ...Option) (*Detector, error) {
	if err := pol.Validate(); err != nil {
		return nil, fmt.Errorf("building detector: %w", err)
	}
	d := &Detector{
		pol:    pol,
		lib:    patterns.NewLibrary(),
		set:    validators.NewSet(),
		scorer: scoring.NewScorer(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.esc = afn.NewEscalator(pol, d.rec, d.set)
	return d, nil
}

// Policy returns the active policy.
func (d *Detector) Policy() policy.Policy {
	return d.pol
}

// Recognizer returns the wired contextual recognizer, or nil when the
// pipeline runs regex-only.
func (d *Detector) Recognizer() recognizer.Recognizer {
	return d.rec
}

// Detect classifies one text. A failing recognizer degrades the run to
// regex-only instead of failing it; the result carries the degraded mark.
func (d *Detector) Detect(ctx context.Context, text string) (*detector.DetectionResult, error) {
	start := time.Now()
	done := d.observer.StartTiming("pipeline", "detect")

	if !utf8.ValidString(text) {
		done(false, map[string]any{"error": "invalid utf-8"})
		return nil, ErrInvalidEncoding
	}
	if strings.TrimSpace(text) == "" {
		result := d.assemble(nil, text, false, false, start)
		done(true, map[string]any{"empty_input": true})
		return result, nil
	}

	entities := d.regexPass(text)

	degraded := false
	truncated := false
	if d.rec != nil {
		contextual, res, err := d.contextualPass(ctx, text)
		if err != nil {
			degraded = true
		} else {
			truncated = res.Truncated
			entities = append(entities, contextual...)
		}
	}

	fused := fusion.Fuse(entities)
	d.scorer.Score(text, fused)
	kept := d.filter(fused)

	if d.esc.ShouldEscalate(kept) {
		if adds := d.esc.Run(ctx, text, kept, degraded); len(adds) > 0 {
			refused := fusion.Fuse(append(kept, adds...))
			d.scorer.Score(text, refused)
			kept = d.filter(refused)
		}
	}

	result := d.assemble(kept, text, degraded, truncated, start)
	done(true, map[string]any{
		"entities": len(result.Entities),
		"degraded": degraded,
		"mode":     d.pol.Name,
	})
	return result, nil
}

// regexPass extracts pattern candidates and annotates them with validation.
func (d *Detector) regexPass(text string) []detector.Entity {
	raw := d.lib.Extract(text, d.pol.AggressiveRegex)
	entities := make([]detector.Entity, 0, len(raw))
	for _, c := range raw {
		outcome := d.set.Apply(c.Type, c.Value)
		e := detector.Entity{
			Type:       c.Type,
			Value:      c.Value,
			Normalized: outcome.Normalized,
			Start:      c.Start,
			End:        c.End,
			Confidence: scoring.BaseRegex,
			Validation: outcome.Status,

			BaseConfidence: scoring.BaseRegex,
		}
		e.AddSource(detector.SourceRegex)
		entities = append(entities, e)
	}
	return entities
}

// contextualPass queries the recognizer at the mode threshold.
func (d *Detector) contextualPass(ctx context.Context, text string) ([]detector.Entity, recognizer.Result, error) {
	done := d.observer.StartTiming("recognizer", "recognize")
	res, err := d.rec.Recognize(ctx, text, d.pol.Threshold)
	if err != nil {
		done(false, map[string]any{"error": err.Error()})
		return nil, recognizer.Result{}, err
	}
	done(true, map[string]any{"candidates": len(res.Candidates)})

	entities := make([]detector.Entity, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		// Offsets arrive from an external service; clamp rather than
		// trust them to stay inside the text.
		start, end := clampSpan(c.Start, c.End, len(text))
		if start >= end {
			continue
		}
		value := text[start:end]
		outcome := d.set.Apply(c.Type, value)
		e := detector.Entity{
			Type:       c.Type,
			Value:      value,
			Normalized: outcome.Normalized,
			Start:      start,
			End:        end,
			Confidence: c.Confidence,
			Validation: outcome.Status,

			BaseConfidence: c.Confidence,
		}
		e.AddSource(detector.SourceContextual)
		entities = append(entities, e)
	}
	return entities, res, nil
}

func clampSpan(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	return start, end
}

// filter applies checksum and threshold rules. Invalid values are dropped
// unless the policy accepts structurally correct CPF/CNPJ with bad check
// digits; a retained invalid value is kept regardless of the threshold,
// since mistyped documents are exactly what that policy is after. Entities
// recovered by a double-mode escalation are held to half the threshold,
// matching the cutoff they were queried at.
func (d *Detector) filter(entities []detector.Entity) []detector.Entity {
	var kept []detector.Entity
	for _, e := range entities {
		if e.Validation == detector.StatusInvalid {
			if d.retainInvalid(e) {
				kept = append(kept, e)
			}
			continue
		}
		threshold := d.pol.Threshold
		if d.pol.AFN == policy.AFNDouble && e.HasSource(detector.SourceAFN) {
			threshold = d.pol.Threshold / 2
		}
		if e.Confidence < threshold {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

func (d *Detector) retainInvalid(e detector.Entity) bool {
	if !d.pol.AcceptInvalidChecksum {
		return false
	}
	switch e.Type {
	case detector.TypeCPF:
		return len(e.Normalized) == 11
	case detector.TypeCNPJ:
		return len(e.Normalized) == 14
	}
	return false
}

// assemble builds the final decision: any entity means NON_PUBLIC, the
// aggregate confidence is the strongest single entity, and entities come
// out ordered by position.
func (d *Detector) assemble(entities []detector.Entity, text string, degraded, truncated bool, start time.Time) *detector.DetectionResult {
	detector.SortEntities(entities)

	agg := 0.0
	for _, e := range entities {
		if e.Confidence > agg {
			agg = e.Confidence
		}
	}

	classification := detector.ClassificationPublic
	if len(entities) > 0 {
		classification = detector.ClassificationNonPublic
	}

	return &detector.DetectionResult{
		HasPII:              len(entities) > 0,
		Classification:      classification,
		Entities:            entities,
		AggregateConfidence: agg,
		Mode:                d.pol.Name,
		Degraded:            degraded,
		Truncated:           truncated,
		TextLength:          len(text),
		Elapsed:             time.Since(start),
	}
}
