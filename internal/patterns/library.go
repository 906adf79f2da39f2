// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package patterns holds the compiled regex library for Brazilian PII and
// extracts raw candidates from text. Patterns are grouped in tiers: the core
// tier matches well-formatted values, the spaced tier tolerates separator
// variations, and the aggressive tier matches bare digit runs that only the
// validators can tell apart.
package patterns

import (
	"regexp"
	"sort"
	"strconv"

	"pii-guardian/internal/detector"
)

// Aggressiveness selects which pattern tiers run.
type Aggressiveness string

const (
	AggressiveOn      Aggressiveness = "on"      // all tiers
	AggressivePartial Aggressiveness = "partial" // core + spaced
	AggressiveOff     Aggressiveness = "off"     // core only
)

// Valid reports whether a is a known aggressiveness level.
func (a Aggressiveness) Valid() bool {
	switch a {
	case AggressiveOn, AggressivePartial, AggressiveOff:
		return true
	}
	return false
}

type tier int

const (
	tierCore tier = iota
	tierSpaced
	tierAggressive
)

type pattern struct {
	typ  detector.PIIType
	tier tier
	re   *regexp.Regexp
}

// Library is an immutable set of compiled patterns. Safe for concurrent use.
type Library struct {
	patterns []pattern
}

// NewLibrary compiles the full pattern set once.
func NewLibrary() *Library {
	return &Library{patterns: []pattern{
		// CPF: 123.456.789-09, spaced variants, bare 11-digit runs.
		{detector.TypeCPF, tierCore, regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}-\d{2}\b`)},
		{detector.TypeCPF, tierSpaced, regexp.MustCompile(`\b\d{3}[.\s]\d{3}[.\s]\d{3}[-.\s]\d{2}\b`)},
		{detector.TypeCPF, tierAggressive, regexp.MustCompile(`\b\d{11}\b`)},

		// CNPJ: 11.222.333/0001-81 and bare 14-digit runs.
		{detector.TypeCNPJ, tierCore, regexp.MustCompile(`\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b`)},
		{detector.TypeCNPJ, tierSpaced, regexp.MustCompile(`\b\d{2}[.\s]\d{3}[.\s]\d{3}[/\s]\d{4}[-.\s]\d{2}\b`)},
		{detector.TypeCNPJ, tierAggressive, regexp.MustCompile(`\b\d{14}\b`)},

		// Phone: optional +55, DDD in parentheses or bare, 8/9-digit subscriber.
		{detector.TypePhone, tierCore, regexp.MustCompile(`(?:\+?55[\s.-]?)?(?:\(\d{2}\)[\s.-]?|\b\d{2}[\s.-])\d{4,5}[\s.-]?\d{4}\b`)},
		{detector.TypePhone, tierAggressive, regexp.MustCompile(`\b\d{10}\b`)},

		// Email.
		{detector.TypeEmail, tierCore, regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},

		// CEP: 70040-010 plus bare 8-digit runs.
		{detector.TypeCEP, tierCore, regexp.MustCompile(`\b\d{5}-\d{3}\b`)},
		{detector.TypeCEP, tierSpaced, regexp.MustCompile(`\b\d{5}[.\s]\d{3}\b`)},
		{detector.TypeCEP, tierAggressive, regexp.MustCompile(`\b\d{8}\b`)},

		// RG: formatted with optional X check character, or keyword-anchored.
		{detector.TypeRG, tierCore, regexp.MustCompile(`\b\d{1,2}\.\d{3}\.\d{3}-[\dXx]\b`)},
		{detector.TypeRG, tierSpaced, regexp.MustCompile(`(?i)\bRG[:.\s]*\d{7,9}\b`)},

		// CNH: eleven digits anchored by the document keyword.
		{detector.TypeCNH, tierCore, regexp.MustCompile(`(?i)\bCNH[:.\s]*\d{11}\b`)},
	}}
}

// Extract runs every pattern enabled at the given aggressiveness level and
// returns the candidates ordered by start offset, then declaration order.
// Identical (type, span) hits from different tiers are deduplicated.
func (l *Library) Extract(text string, level Aggressiveness) []detector.RawCandidate {
	maxTier := tierCore
	switch level {
	case AggressiveOn:
		maxTier = tierAggressive
	case AggressivePartial:
		maxTier = tierSpaced
	}

	type key struct {
		typ        detector.PIIType
		start, end int
	}
	seen := make(map[key]bool)

	var out []detector.RawCandidate
	order := make(map[key]int)
	for i, p := range l.patterns {
		if p.tier > maxTier {
			continue
		}
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			k := key{p.typ, loc[0], loc[1]}
			if seen[k] {
				continue
			}
			seen[k] = true
			order[k] = i
			out = append(out, detector.RawCandidate{
				Type:  p.typ,
				Value: text[loc[0]:loc[1]],
				Start: loc[0],
				End:   loc[1],
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		ki := key{out[i].Type, out[i].Start, out[i].End}
		kj := key{out[j].Type, out[j].Start, out[j].End}
		return order[ki] < order[kj]
	})
	return out
}

// DigitRuns finds bare digit runs of exactly n digits, used by the
// escalation rescan. Runs embedded in longer digit sequences do not match.
func DigitRuns(text string, n int) []detector.RawCandidate {
	re := digitRunRe(n)
	var out []detector.RawCandidate
	for _, loc := range re.FindAllStringIndex(text, -1) {
		out = append(out, detector.RawCandidate{
			Value: text[loc[0]:loc[1]],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return out
}

var digitRunCache = map[int]*regexp.Regexp{
	11: regexp.MustCompile(`\b\d{11}\b`),
	14: regexp.MustCompile(`\b\d{14}\b`),
}

func digitRunRe(n int) *regexp.Regexp {
	if re, ok := digitRunCache[n]; ok {
		return re
	}
	return regexp.MustCompile(`\b\d{` + strconv.Itoa(n) + `}\b`)
}
