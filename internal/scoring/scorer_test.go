// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package scoring

import (
	"strings"
	"testing"

	"pii-guardian/internal/detector"
)

func regexEntity(start, end int, val detector.ValidationStatus) detector.Entity {
	e := detector.Entity{Type: detector.TypeCPF, Start: start, End: end, Validation: val}
	e.AddSource(detector.SourceRegex)
	return e
}

func TestScoreBonuses(t *testing.T) {
	s := NewScorer()

	t.Run("plain regex hit", func(t *testing.T) {
		text := "xxxxxxxxxx 123.456.789-09 yyyyyyyyyy"
		es := []detector.Entity{regexEntity(11, 25, detector.StatusInvalid)}
		s.Score(text, es)
		if es[0].Confidence != BaseRegex {
			t.Errorf("confidence = %.2f, want base %.2f", es[0].Confidence, BaseRegex)
		}
	})

	t.Run("valid checksum bonus", func(t *testing.T) {
		text := "xxxxxxxxxx 123.456.789-09 yyyyyyyyyy"
		es := []detector.Entity{regexEntity(11, 25, detector.StatusValid)}
		s.Score(text, es)
		want := BaseRegex + BonusValid
		if es[0].Confidence != want {
			t.Errorf("confidence = %.2f, want %.2f", es[0].Confidence, want)
		}
	})

	t.Run("keyword bonus", func(t *testing.T) {
		text := "Meu CPF é 123.456.789-09 obrigado"
		start := strings.Index(text, "123")
		es := []detector.Entity{regexEntity(start, start+14, detector.StatusValid)}
		s.Score(text, es)
		want := BaseRegex + BonusValid + BonusKeyword
		if es[0].Confidence != want {
			t.Errorf("confidence = %.2f, want %.2f", es[0].Confidence, want)
		}
	})

	t.Run("keyword outside window ignored", func(t *testing.T) {
		text := "cpf" + strings.Repeat(" x", 40) + " 123.456.789-09"
		start := strings.Index(text, "123")
		es := []detector.Entity{regexEntity(start, start+14, detector.StatusInvalid)}
		s.Score(text, es)
		if es[0].Confidence != BaseRegex {
			t.Errorf("confidence = %.2f, want %.2f without keyword bonus", es[0].Confidence, BaseRegex)
		}
	})

	t.Run("multi source bonus and cap", func(t *testing.T) {
		text := "Meu CPF é 123.456.789-09 obrigado"
		start := strings.Index(text, "123")
		e := regexEntity(start, start+14, detector.StatusValid)
		e.AddSource(detector.SourceContextual)
		es := []detector.Entity{e}
		s.Score(text, es)
		if es[0].Confidence != MaxConfidence {
			t.Errorf("confidence = %.2f, want capped at %.2f", es[0].Confidence, MaxConfidence)
		}
	})
}

func TestScoreContextualBase(t *testing.T) {
	s := NewScorer()
	text := "João Silva enviou o pedido ontem à tarde"
	e := detector.Entity{Type: detector.TypeName, Start: 0, End: 10, Confidence: 0.82,
		Validation: detector.StatusNotApplicable, BaseConfidence: 0.82}
	e.AddSource(detector.SourceContextual)
	es := []detector.Entity{e}
	s.Score(text, es)
	if es[0].Confidence != 0.82 {
		t.Errorf("confidence = %.2f, want recognizer-reported 0.82", es[0].Confidence)
	}
}

// Escalation rescores entities that already went through Score once; each
// bonus must apply against the recognizer-reported base, not the previous
// result.
func TestScoreRepeatedIsStable(t *testing.T) {
	s := NewScorer()
	text := "nome: Carlos Pereira, protocolo 4412"
	e := detector.Entity{Type: detector.TypeName, Start: 6, End: 20, Confidence: 0.72,
		Validation: detector.StatusNotApplicable, BaseConfidence: 0.72}
	e.AddSource(detector.SourceContextual)
	es := []detector.Entity{e}

	want := 0.72 + BonusKeyword
	for pass := 1; pass <= 3; pass++ {
		s.Score(text, es)
		if es[0].Confidence != want {
			t.Fatalf("pass %d: confidence = %.4f, want %.4f", pass, es[0].Confidence, want)
		}
	}
}

// Label-anchored matches like "RG: 12.345.678-9" contain their indicator
// keyword inside the span rather than before it.
func TestScoreKeywordInsideSpan(t *testing.T) {
	s := NewScorer()
	text := strings.Repeat("x", 60) + " RG: 12.345.678-9 " + strings.Repeat("y", 60)
	start := strings.Index(text, "RG:")
	e := detector.Entity{Type: detector.TypeRG, Start: start, End: start + 16,
		Validation: detector.StatusNotApplicable, BaseConfidence: 0.80}
	e.AddSource(detector.SourceContextual)
	es := []detector.Entity{e}
	s.Score(text, es)
	want := 0.80 + BonusKeyword
	if es[0].Confidence != want {
		t.Errorf("confidence = %.2f, want %.2f with in-span keyword", es[0].Confidence, want)
	}
}

func TestScoreAFNBase(t *testing.T) {
	s := NewScorer()
	text := "cadastro 12345678909 pendente"
	e := detector.Entity{Type: detector.TypeCPF, Start: 9, End: 20, Validation: detector.StatusValid}
	e.AddSource(detector.SourceAFN)
	es := []detector.Entity{e}
	s.Score(text, es)
	want := BaseAFN + BonusValid
	if es[0].Confidence != want {
		t.Errorf("confidence = %.2f, want %.2f", es[0].Confidence, want)
	}
}
