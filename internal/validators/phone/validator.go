// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package phone validates Brazilian telephone numbers against the ANATEL
// area-code allocation and the fixed/mobile length rules.
package phone

import "pii-guardian/internal/validators/cpf"

// validDDDs is the set of area codes currently allocated by ANATEL.
var validDDDs = map[int]bool{
	11: true, 12: true, 13: true, 14: true, 15: true, 16: true, 17: true, 18: true, 19: true,
	21: true, 22: true, 24: true, 27: true, 28: true,
	31: true, 32: true, 33: true, 34: true, 35: true, 37: true, 38: true,
	41: true, 42: true, 43: true, 44: true, 45: true, 46: true, 47: true, 48: true, 49: true,
	51: true, 53: true, 54: true, 55: true,
	61: true, 62: true, 63: true, 64: true, 65: true, 66: true, 67: true, 68: true, 69: true,
	71: true, 73: true, 74: true, 75: true, 77: true, 79: true,
	81: true, 82: true, 83: true, 84: true, 85: true, 86: true, 87: true, 88: true, 89: true,
	91: true, 92: true, 93: true, 94: true, 95: true, 96: true, 97: true, 98: true, 99: true,
}

// Result holds the validation outcome for a candidate phone number.
type Result struct {
	Normalized string // DDD plus subscriber digits, country code stripped
	Valid      bool
	Message    string
}

// Validator validates Brazilian phone numbers.
type Validator struct{}

// NewValidator creates a new phone validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate strips formatting and the optional +55 country code, then checks
// the area code and the subscriber-number shape: eight digits for landlines,
// nine digits starting with 9 for mobiles.
func (v *Validator) Validate(raw string) Result {
	digits := cpf.Normalize(raw)
	if len(digits) >= 12 && digits[:2] == "55" {
		digits = digits[2:]
	}
	if len(digits) != 10 && len(digits) != 11 {
		return Result{Normalized: digits, Message: "expected 10 or 11 digits after the country code"}
	}
	ddd := int(digits[0]-'0')*10 + int(digits[1]-'0')
	if !validDDDs[ddd] {
		return Result{Normalized: digits, Message: "unassigned area code"}
	}
	subscriber := digits[2:]
	if len(subscriber) == 9 && subscriber[0] != '9' {
		return Result{Normalized: digits, Message: "nine-digit numbers must start with 9"}
	}
	if len(subscriber) == 8 && subscriber[0] == '0' {
		return Result{Normalized: digits, Message: "landline numbers do not start with 0"}
	}
	return Result{Normalized: digits, Valid: true}
}

// ValidDDD reports whether ddd is an allocated area code.
func ValidDDD(ddd int) bool {
	return validDDDs[ddd]
}
