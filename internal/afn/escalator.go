// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package afn implements the anti-false-negative escalation: when a text
// that plausibly carries personal data yields too few entities, cheaper
// passes give way to harder ones before the pipeline accepts the answer.
package afn

import (
	"context"

	"pii-guardian/internal/detector"
	"pii-guardian/internal/patterns"
	"pii-guardian/internal/policy"
	"pii-guardian/internal/recognizer"
	"pii-guardian/internal/validators"
)

// RescanConfidence is the confidence assigned to entities recovered by the
// numeric rescan. Lower than a pattern hit: the run had no formatting.
const RescanConfidence = 0.75

// Escalator runs the escalation passes configured by the active policy.
type Escalator struct {
	pol policy.Policy
	rec recognizer.Recognizer // nil when running regex-only
	set *validators.Set
}

// NewEscalator creates an escalator. rec may be nil.
func NewEscalator(pol policy.Policy, rec recognizer.Recognizer, set *validators.Set) *Escalator {
	return &Escalator{pol: pol, rec: rec, set: set}
}

// ShouldEscalate reports whether the current entity count warrants another
// look at the text.
func (e *Escalator) ShouldEscalate(entities []detector.Entity) bool {
	return e.pol.AFN != policy.AFNNone && len(entities) < e.pol.AFNTrigger
}

// Run produces additional candidate entities for the text. The first pass
// rescans bare 11- and 14-digit runs for checksum-valid documents. In double
// mode a second pass re-queries the recognizer at half the mode threshold.
// Additions still go through fusion and the threshold filter.
func (e *Escalator) Run(ctx context.Context, text string, existing []detector.Entity, degraded bool) []detector.Entity {
	adds := e.numericRescan(text, existing)

	if e.pol.AFN == policy.AFNDouble && e.rec != nil && !degraded {
		res, err := e.rec.Recognize(ctx, text, e.pol.Threshold/2)
		if err == nil {
			for _, c := range res.Candidates {
				if covered(existing, c.Start, c.End) {
					continue
				}
				ent := detector.Entity{
					Type:       c.Type,
					Value:      slice(text, c.Start, c.End),
					Start:      c.Start,
					End:        c.End,
					Confidence: c.Confidence,
					Validation: detector.StatusNotApplicable,
					Reason:     "admitted at escalated cutoff",

					BaseConfidence: c.Confidence,
				}
				ent.AddSource(detector.SourceContextual)
				ent.AddSource(detector.SourceAFN)
				adds = append(adds, ent)
			}
		}
		// an unavailable recognizer here never fails the pipeline; the
		// regex-only escalation result stands
	}

	return adds
}

// numericRescan looks for bare digit runs shaped like a CPF or CNPJ that no
// existing entity already covers.
func (e *Escalator) numericRescan(text string, existing []detector.Entity) []detector.Entity {
	var adds []detector.Entity
	for _, shape := range []struct {
		length int
		typ    detector.PIIType
	}{
		{11, detector.TypeCPF},
		{14, detector.TypeCNPJ},
	} {
		for _, run := range patterns.DigitRuns(text, shape.length) {
			if covered(existing, run.Start, run.End) {
				continue
			}
			outcome := e.set.Apply(shape.typ, run.Value)
			if outcome.Status != detector.StatusValid {
				continue
			}
			ent := detector.Entity{
				Type:       shape.typ,
				Value:      run.Value,
				Normalized: outcome.Normalized,
				Start:      run.Start,
				End:        run.End,
				Confidence: RescanConfidence,
				Validation: detector.StatusValid,
				Reason:     "recovered by numeric rescan",

				BaseConfidence: RescanConfidence,
			}
			ent.AddSource(detector.SourceAFN)
			adds = append(adds, ent)
		}
	}
	return adds
}

func covered(entities []detector.Entity, start, end int) bool {
	for _, e := range entities {
		if e.Start < end && start < e.End {
			return true
		}
	}
	return false
}

func slice(text string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return ""
	}
	return text[start:end]
}
