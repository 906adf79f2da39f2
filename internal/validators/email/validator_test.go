// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"simple", "joao.silva@gmail.com", true},
		{"brazilian domain", "maria@uol.com.br", true},
		{"plus tag", "user+tag@example.org", true},
		{"uppercase normalized", "Joao.Silva@Gmail.COM", true},
		{"no at sign", "joao.silva.gmail.com", false},
		{"no domain", "joao@", false},
		{"no tld", "joao@localhost", false},
		{"double dots", "joao..silva@gmail.com", false},
		{"numeric tld", "joao@example.123", false},
		{"hyphen-edge label", "joao@-example.com", false},
		{"long local part", strings.Repeat("a", 65) + "@example.com", false},
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
