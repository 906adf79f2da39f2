// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cep

import "testing"

func TestValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"formatted brasilia", "70040-010", true},
		{"unformatted", "01310100", true},
		{"repeated digits", "00000000", false},
		{"too short", "7004-010", false},
		{"too long", "70040-0100", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.input)
			if got.Valid != tt.valid {
				t.Errorf("Validate(%q).Valid = %v, want %v (%s)", tt.input, got.Valid, tt.valid, got.Message)
			}
		})
	}
}

func TestValidateRegion(t *testing.T) {
	got := NewValidator().Validate("70040-010")
	if got.Region != "Distrito Federal / Goiás / Tocantins / Mato Grosso / Rondônia" {
		t.Errorf("unexpected region %q", got.Region)
	}
}
