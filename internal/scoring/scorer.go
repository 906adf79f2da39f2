// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package scoring assigns the final confidence to fused entities. Scores
// start from a per-source base and earn bonuses for checksum validity,
// nearby indicator keywords and multi-source corroboration.
package scoring

import (
	"strings"

	"pii-guardian/internal/detector"
)

// Base confidences and bonuses.
const (
	BaseRegex     = 0.90
	BaseAFN       = 0.75
	BonusValid    = 0.05
	BonusKeyword  = 0.03
	BonusMultiSrc = 0.02
	MaxConfidence = 1.0
)

// indicatorKeywords are the Portuguese terms that, near a span, suggest the
// surrounding text is deliberately presenting personal data.
var indicatorKeywords = []string{
	"cpf",
	"cnpj",
	"rg",
	"cnh",
	"documento",
	"identidade",
	"telefone",
	"celular",
	"contato",
	"fone",
	"email",
	"e-mail",
	"cep",
	"endereço",
	"endereco",
	"nascimento",
	"nome",
	"portador",
	"titular",
}

// Scorer computes entity confidences from the surrounding text.
type Scorer struct {
	extractor *detector.ContextExtractor
}

// NewScorer creates a scorer with the default context window.
func NewScorer() *Scorer {
	return &Scorer{extractor: detector.NewContextExtractor()}
}

// Score recomputes the confidence of each entity in place. Contextual
// sightings keep the confidence reported by the recognizer as their base;
// regex and rescan sightings use the fixed bases.
func (s *Scorer) Score(text string, entities []detector.Entity) {
	for i := range entities {
		entities[i].Confidence = s.scoreOne(text, entities[i])
	}
}

func (s *Scorer) scoreOne(text string, e detector.Entity) float64 {
	conf := baseConfidence(e)

	if e.Validation == detector.StatusValid {
		conf += BonusValid
	}
	if s.HasIndicatorKeyword(text, e.Start, e.End) {
		conf += BonusKeyword
	}
	if len(e.Sources) > 1 {
		conf += BonusMultiSrc
	}

	if conf > MaxConfidence {
		conf = MaxConfidence
	}
	return conf
}

// baseConfidence picks the starting score for an entity. When several
// sources contributed, the strongest base applies.
func baseConfidence(e detector.Entity) float64 {
	base := 0.0
	for _, src := range e.Sources {
		var b float64
		switch src {
		case detector.SourceRegex:
			b = BaseRegex
		case detector.SourceAFN:
			// a contextual sighting admitted by escalation keeps the
			// confidence the recognizer reported
			if !e.HasSource(detector.SourceContextual) {
				b = BaseAFN
			}
		case detector.SourceContextual:
			b = e.BaseConfidence // as reported by the recognizer
		}
		if b > base {
			base = b
		}
	}
	if base == 0 {
		base = e.BaseConfidence
	}
	return base
}

// HasIndicatorKeyword reports whether an indicator keyword appears within
// the context window around the [start, end) span, or inside the span
// itself. Label-anchored patterns such as "RG: 12.345.678-9" carry their
// indicator inside the match.
func (s *Scorer) HasIndicatorKeyword(text string, start, end int) bool {
	window := s.extractor.Window(text, start, end)
	span := ""
	if start >= 0 && end <= len(text) && start < end {
		span = text[start:end]
	}
	// Collapse whitespace so keywords broken across line wraps still match.
	nearby := strings.Join(strings.Fields(strings.ToLower(window.Before+" "+span+" "+window.After)), " ")
	for _, kw := range indicatorKeywords {
		if strings.Contains(nearby, kw) {
			return true
		}
	}
	return false
}
