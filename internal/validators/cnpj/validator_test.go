// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cnpj

import "testing"

func TestValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"formatted valid", "11.222.333/0001-81", true},
		{"unformatted valid", "11222333000181", true},
		{"wrong check digits", "11.222.333/0001-00", false},
		{"repeated digits", "11.111.111/1111-11", false},
		{"too short", "11.222.333/0001", false},
		{"empty", "", false},
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

func TestCheckDigits(t *testing.T) {
	d1, d2 := CheckDigits("112223330001")
	if d1 != 8 || d2 != 1 {
		t.Errorf("CheckDigits(112223330001) = %d,%d, want 8,1", d1, d2)
	}
}
