// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package policy defines the detection mode presets and their knobs.
// A mode bundles the confidence threshold, the pattern aggressiveness, the
// escalation depth and the invalid-checksum stance into one named policy so
// callers pick a posture instead of tuning knobs individually.
package policy

import (
	"errors"
	"fmt"

	"pii-guardian/internal/patterns"
)

// ErrInvalidPolicy is returned when a policy fails validation.
var ErrInvalidPolicy = errors.New("invalid detection policy")

// AFNPasses controls how far the anti-false-negative escalation goes.
type AFNPasses string

const (
	AFNNone   AFNPasses = "none"
	AFNSingle AFNPasses = "single"
	AFNDouble AFNPasses = "double"
)

// Valid reports whether p is a known escalation depth.
func (p AFNPasses) Valid() bool {
	switch p {
	case AFNNone, AFNSingle, AFNDouble:
		return true
	}
	return false
}

// Mode names.
const (
	ModeStrict   = "strict"
	ModeBalanced = "balanced"
	ModePrecise  = "precise"
)

// DefaultAFNTrigger is the entity count below which escalation kicks in.
const DefaultAFNTrigger = 2

// Policy is a fully resolved detection mode.
type Policy struct {
	Name                  string
	Threshold             float64
	AggressiveRegex       patterns.Aggressiveness
	AFN                   AFNPasses
	AcceptInvalidChecksum bool
	AFNTrigger            int
}

// Strict favors recall: low threshold, every pattern tier, two escalation
// passes, and structurally correct values kept even with bad check digits.
func Strict() Policy {
	return Policy{
		Name:                  ModeStrict,
		Threshold:             0.50,
		AggressiveRegex:       patterns.AggressiveOn,
		AFN:                   AFNDouble,
		AcceptInvalidChecksum: true,
		AFNTrigger:            DefaultAFNTrigger,
	}
}

// Balanced is the default operating point.
func Balanced() Policy {
	return Policy{
		Name:            ModeBalanced,
		Threshold:       0.70,
		AggressiveRegex: patterns.AggressivePartial,
		AFN:             AFNSingle,
		AFNTrigger:      DefaultAFNTrigger,
	}
}

// Precise favors precision: high threshold, formatted patterns only, no
// escalation.
func Precise() Policy {
	return Policy{
		Name:            ModePrecise,
		Threshold:       0.85,
		AggressiveRegex: patterns.AggressiveOff,
		AFN:             AFNNone,
		AFNTrigger:      DefaultAFNTrigger,
	}
}

// ByName resolves a mode name to its preset.
func ByName(name string) (Policy, error) {
	switch name {
	case ModeStrict:
		return Strict(), nil
	case ModeBalanced, "":
		return Balanced(), nil
	case ModePrecise:
		return Precise(), nil
	}
	return Policy{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidPolicy, name)
}

// Validate fails fast on any inconsistent combination. A misconfigured
// policy must never silently fall back to another mode.
func (p Policy) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty mode name", ErrInvalidPolicy)
	}
	if p.Threshold <= 0 || p.Threshold > 1 {
		return fmt.Errorf("%w: threshold %.2f outside (0, 1]", ErrInvalidPolicy, p.Threshold)
	}
	if !p.AggressiveRegex.Valid() {
		return fmt.Errorf("%w: unknown aggressiveness %q", ErrInvalidPolicy, p.AggressiveRegex)
	}
	if !p.AFN.Valid() {
		return fmt.Errorf("%w: unknown afn passes %q", ErrInvalidPolicy, p.AFN)
	}
	if p.AFNTrigger < 0 {
		return fmt.Errorf("%w: negative afn trigger %d", ErrInvalidPolicy, p.AFNTrigger)
	}
	return nil
}
