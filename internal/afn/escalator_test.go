// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package afn

import (
	"context"
	"testing"

	"pii-guardian/internal/detector"
	"pii-guardian/internal/policy"
	"pii-guardian/internal/recognizer"
	"pii-guardian/internal/validators"
)

type fakeRecognizer struct {
	result  recognizer.Result
	lastMin float64
	err     error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, text string, minConfidence float64) (recognizer.Result, error) {
	f.lastMin = minConfidence
	return f.result, f.err
}

func TestShouldEscalate(t *testing.T) {
	set := validators.NewSet()

	tests := []struct {
		name     string
		pol      policy.Policy
		entities int
		want     bool
	}{
		{"strict with no entities", policy.Strict(), 0, true},
		{"strict with one entity", policy.Strict(), 1, true},
		{"strict with enough entities", policy.Strict(), 2, false},
		{"precise never escalates", policy.Precise(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEscalator(tt.pol, nil, set)
			entities := make([]detector.Entity, tt.entities)
			if got := e.ShouldEscalate(entities); got != tt.want {
				t.Errorf("ShouldEscalate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNumericRescanRecoversValidCPF(t *testing.T) {
	e := NewEscalator(policy.Balanced(), nil, validators.NewSet())
	text := "dados do requerente: 12345678909"

	adds := e.Run(context.Background(), text, nil, false)
	if len(adds) != 1 {
		t.Fatalf("expected one recovered entity, got %v", adds)
	}
	got := adds[0]
	if got.Type != detector.TypeCPF || got.Validation != detector.StatusValid {
		t.Errorf("unexpected entity %+v", got)
	}
	if got.Confidence != RescanConfidence {
		t.Errorf("confidence = %.2f, want %.2f", got.Confidence, RescanConfidence)
	}
	if !got.HasSource(detector.SourceAFN) {
		t.Error("recovered entity must carry the afn source")
	}
}

func TestNumericRescanSkipsInvalidRuns(t *testing.T) {
	e := NewEscalator(policy.Balanced(), nil, validators.NewSet())
	adds := e.Run(context.Background(), "protocolo 12345678901 arquivado", nil, false)
	if len(adds) != 0 {
		t.Errorf("checksum-invalid run must not be recovered, got %v", adds)
	}
}

func TestNumericRescanSkipsCoveredSpans(t *testing.T) {
	e := NewEscalator(policy.Balanced(), nil, validators.NewSet())
	text := "dados: 12345678909"
	existing := []detector.Entity{{Type: detector.TypeCPF, Start: 7, End: 18}}
	adds := e.Run(context.Background(), text, existing, false)
	if len(adds) != 0 {
		t.Errorf("covered span must not be re-added, got %v", adds)
	}
}

func TestDoubleModeQueriesAtHalfThreshold(t *testing.T) {
	rec := &fakeRecognizer{result: recognizer.Result{Candidates: []recognizer.Candidate{
		{Type: detector.TypeName, Start: 0, End: 10, Confidence: 0.30},
	}}}
	pol := policy.Strict()
	e := NewEscalator(pol, rec, validators.NewSet())

	adds := e.Run(context.Background(), "João Silva pede acesso", nil, false)

	if rec.lastMin != pol.Threshold/2 {
		t.Errorf("recognizer queried at %.2f, want %.2f", rec.lastMin, pol.Threshold/2)
	}
	if len(adds) != 1 {
		t.Fatalf("expected contextual addition, got %v", adds)
	}
	if !adds[0].HasSource(detector.SourceAFN) || !adds[0].HasSource(detector.SourceContextual) {
		t.Errorf("addition must carry both sources, got %v", adds[0].Sources)
	}
}

func TestDoubleModeSkippedWhenDegraded(t *testing.T) {
	rec := &fakeRecognizer{result: recognizer.Result{Candidates: []recognizer.Candidate{
		{Type: detector.TypeName, Start: 0, End: 10, Confidence: 0.30},
	}}}
	e := NewEscalator(policy.Strict(), rec, validators.NewSet())

	adds := e.Run(context.Background(), "João Silva pede acesso", nil, true)
	if len(adds) != 0 {
		t.Errorf("degraded run must not re-query the recognizer, got %v", adds)
	}
}

func TestSingleModeNeverQueriesRecognizer(t *testing.T) {
	rec := &fakeRecognizer{result: recognizer.Result{Candidates: []recognizer.Candidate{
		{Type: detector.TypeName, Start: 0, End: 10, Confidence: 0.90},
	}}}
	e := NewEscalator(policy.Balanced(), rec, validators.NewSet())

	adds := e.Run(context.Background(), "João Silva pede acesso", nil, false)
	if len(adds) != 0 {
		t.Errorf("single mode adds nothing without digit runs, got %v", adds)
	}
	if rec.lastMin != 0 {
		t.Error("single mode must not call the recognizer")
	}
}
