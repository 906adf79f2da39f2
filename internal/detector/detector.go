// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package detector defines the shared types that flow through the detection
// pipeline: raw pattern candidates, fused entities and the final decision.
package detector

import (
	"sort"
	"time"
)

// PIIType identifies the category of personal data a candidate represents.
type PIIType string

const (
	TypeCPF       PIIType = "CPF"
	TypeCNPJ      PIIType = "CNPJ"
	TypePhone     PIIType = "PHONE"
	TypeEmail     PIIType = "EMAIL"
	TypeCEP       PIIType = "CEP"
	TypeRG        PIIType = "RG"
	TypeCNH       PIIType = "CNH"
	TypeName      PIIType = "NAME"
	TypeAddress   PIIType = "ADDRESS"
	TypeBirthDate PIIType = "BIRTH_DATE"
	TypeOrg       PIIType = "ORG"
)

// Source records which stage of the pipeline produced a sighting.
type Source string

const (
	SourceRegex      Source = "regex"
	SourceContextual Source = "contextual"
	SourceAFN        Source = "afn"
)

// ValidationStatus is the outcome of checksum/structural validation.
type ValidationStatus string

const (
	StatusValid         ValidationStatus = "valid"
	StatusInvalid       ValidationStatus = "invalid"
	StatusNotApplicable ValidationStatus = "not_applicable"
)

// Classification values for a detection decision.
const (
	ClassificationPublic    = "PUBLIC"
	ClassificationNonPublic = "NON_PUBLIC"
)

// RawCandidate is a single pattern hit before validation and fusion.
// Start and End are byte offsets into the input text (End exclusive).
type RawCandidate struct {
	Type  PIIType
	Value string
	Start int
	End   int
}

// Entity is a resolved piece of personal data in the input text.
type Entity struct {
	Type       PIIType          `json:"type"`
	Value      string           `json:"value"`
	Normalized string           `json:"normalized,omitempty"`
	Start      int              `json:"start"`
	End        int              `json:"end"`
	Confidence float64          `json:"confidence"`
	Validation ValidationStatus `json:"validation"`
	Sources    []Source         `json:"sources"`
	Reason     string           `json:"reason,omitempty"`

	// BaseConfidence is the confidence reported by the recognizer for
	// contextual sightings, before any scoring bonus. Scoring reads it
	// instead of Confidence so that rescoring after escalation does not
	// stack bonuses on top of an already-bonused value.
	BaseConfidence float64 `json:"-"`
}

// Length returns the span length in bytes.
func (e Entity) Length() int {
	return e.End - e.Start
}

// HasSource reports whether s contributed to this entity.
func (e Entity) HasSource(s Source) bool {
	for _, have := range e.Sources {
		if have == s {
			return true
		}
	}
	return false
}

// AddSource records s as a contributing source, keeping the list unique
// and sorted so identical inputs always serialize identically.
func (e *Entity) AddSource(s Source) {
	if e.HasSource(s) {
		return
	}
	e.Sources = append(e.Sources, s)
	sort.Slice(e.Sources, func(i, j int) bool { return e.Sources[i] < e.Sources[j] })
}

// Overlaps reports whether the spans of e and other share any bytes.
func (e Entity) Overlaps(other Entity) bool {
	return e.Start < other.End && other.Start < e.End
}

// DetectionResult is the assembled decision for one input text.
type DetectionResult struct {
	HasPII              bool          `json:"has_pii"`
	Classification      string        `json:"classification"`
	Entities            []Entity      `json:"entities"`
	AggregateConfidence float64       `json:"aggregate_confidence"`
	Mode                string        `json:"mode"`
	Degraded            bool          `json:"degraded"`
	Truncated           bool          `json:"truncated,omitempty"`
	TextLength          int           `json:"text_length"`
	Elapsed             time.Duration `json:"-"`
}

// SortEntities orders entities by start offset, breaking ties by end offset
// and then type so output ordering is stable.
func SortEntities(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Start != entities[j].Start {
			return entities[i].Start < entities[j].Start
		}
		if entities[i].End != entities[j].End {
			return entities[i].End < entities[j].End
		}
		return entities[i].Type < entities[j].Type
	})
}
