// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package fusion resolves the candidates produced by the pattern library,
// the contextual recognizer and the escalation rescan into a single
// non-overlapping set of entities.
package fusion

import (
	"sort"

	"pii-guardian/internal/detector"
)

// MergeSlack is the maximum boundary difference, in bytes, for two
// same-type sightings to be considered the same entity.
const MergeSlack = 2

// Fuse merges near-identical sightings and then resolves remaining overlaps
// greedily. Overlap between distinct entities is won by confidence, then by
// checksum validity, then by span length. The output is ordered by start
// offset and is deterministic for a given input.
func Fuse(in []detector.Entity) []detector.Entity {
	if len(in) == 0 {
		return nil
	}

	entities := make([]detector.Entity, len(in))
	copy(entities, in)

	entities = mergeNearExact(entities)

	// Priority order for the greedy sweep. Start and type act as final
	// tie-breaks so equal candidates resolve the same way every run.
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if validityRank(a.Validation) != validityRank(b.Validation) {
			return validityRank(a.Validation) > validityRank(b.Validation)
		}
		if a.Length() != b.Length() {
			return a.Length() > b.Length()
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Type < b.Type
	})

	var kept []detector.Entity
	for _, cand := range entities {
		winner := overlapWinner(kept, cand)
		if winner < 0 {
			if cand.Reason == "" {
				cand.Reason = "unique span"
			}
			kept = append(kept, cand)
			continue
		}
		// cand lost; note what the kept entity beat it on.
		k := &kept[winner]
		switch {
		case k.Confidence > cand.Confidence:
			k.Reason = "won overlap on confidence"
		case validityRank(k.Validation) > validityRank(cand.Validation):
			k.Reason = "won overlap on checksum validity"
		default:
			k.Reason = "won overlap on span length"
		}
	}

	detector.SortEntities(kept)
	return kept
}

// mergeNearExact collapses same-type sightings whose boundaries differ by at
// most MergeSlack bytes into one entity carrying the union of sources. The
// higher-confidence sighting contributes span and value; a valid checksum
// from either side survives the merge.
func mergeNearExact(entities []detector.Entity) []detector.Entity {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Start != entities[j].Start {
			return entities[i].Start < entities[j].Start
		}
		return entities[i].Confidence > entities[j].Confidence
	})

	var out []detector.Entity
	for _, e := range entities {
		merged := false
		for i := range out {
			if out[i].Type != e.Type {
				continue
			}
			if abs(out[i].Start-e.Start) > MergeSlack || abs(out[i].End-e.End) > MergeSlack {
				continue
			}
			out[i] = mergePair(out[i], e)
			merged = true
			break
		}
		if !merged {
			out = append(out, e)
		}
	}
	return out
}

func mergePair(a, b detector.Entity) detector.Entity {
	winner, loser := a, b
	if b.Confidence > a.Confidence {
		winner, loser = b, a
	}
	for _, s := range loser.Sources {
		winner.AddSource(s)
	}
	if winner.Validation != detector.StatusValid && loser.Validation == detector.StatusValid {
		winner.Validation = detector.StatusValid
		if winner.Normalized == "" {
			winner.Normalized = loser.Normalized
		}
	}
	if len(winner.Sources) > 1 {
		winner.Reason = "corroborated by multiple sources"
	}
	return winner
}

// overlapWinner returns the index of a kept entity overlapping cand, or -1.
// Kept entities are non-overlapping, but cand may span more than one; the
// first overlap is decisive because kept entities outrank cand by sort order.
func overlapWinner(kept []detector.Entity, cand detector.Entity) int {
	for i := range kept {
		if kept[i].Overlaps(cand) {
			return i
		}
	}
	return -1
}

func validityRank(s detector.ValidationStatus) int {
	switch s {
	case detector.StatusValid:
		return 2
	case detector.StatusNotApplicable:
		return 1
	default:
		return 0
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
