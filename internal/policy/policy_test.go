// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-guardian/internal/patterns"
)

func TestPresets(t *testing.T) {
	for _, p := range []Policy{Strict(), Balanced(), Precise()} {
		require.NoError(t, p.Validate(), "preset %s must validate", p.Name)
	}

	assert.Less(t, Strict().Threshold, Balanced().Threshold)
	assert.Less(t, Balanced().Threshold, Precise().Threshold)
	assert.True(t, Strict().AcceptInvalidChecksum)
	assert.False(t, Balanced().AcceptInvalidChecksum)
	assert.Equal(t, AFNNone, Precise().AFN)
}

func TestByName(t *testing.T) {
	p, err := ByName("strict")
	require.NoError(t, err)
	assert.Equal(t, ModeStrict, p.Name)

	p, err = ByName("")
	require.NoError(t, err)
	assert.Equal(t, ModeBalanced, p.Name, "empty mode defaults to balanced")

	_, err = ByName("paranoid")
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestValidateFailsFast(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"zero threshold", func(p *Policy) { p.Threshold = 0 }},
		{"threshold above one", func(p *Policy) { p.Threshold = 1.5 }},
		{"unknown aggressiveness", func(p *Policy) { p.AggressiveRegex = patterns.Aggressiveness("max") }},
		{"unknown afn", func(p *Policy) { p.AFN = AFNPasses("triple") }},
		{"negative trigger", func(p *Policy) { p.AFNTrigger = -1 }},
		{"empty name", func(p *Policy) { p.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Balanced()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidPolicy)
		})
	}
}
