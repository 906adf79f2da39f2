// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package cpf validates Brazilian CPF numbers (Cadastro de Pessoas Físicas).
//
// A CPF has nine base digits followed by two check digits computed with a
// mod-11 scheme. Sequences of a single repeated digit satisfy the math but
// are never issued, so they are rejected explicitly.
package cpf

import "strings"

// Result holds the validation outcome for a candidate CPF.
type Result struct {
	Normalized string // digits only, empty when structurally malformed
	Valid      bool
	Message    string
}

// Validator validates CPF check digits.
type Validator struct{}

// NewValidator creates a new CPF validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate strips formatting from raw and verifies length, the repeated-digit
// blacklist and both check digits.
func (v *Validator) Validate(raw string) Result {
	digits := Normalize(raw)
	if len(digits) != 11 {
		return Result{Normalized: digits, Message: "cpf must have 11 digits"}
	}
	if allSameDigit(digits) {
		return Result{Normalized: digits, Message: "repeated-digit sequence is never issued"}
	}
	d1, d2 := CheckDigits(digits[:9])
	if int(digits[9]-'0') != d1 || int(digits[10]-'0') != d2 {
		return Result{Normalized: digits, Message: "check digits do not match"}
	}
	return Result{Normalized: digits, Valid: true}
}

// CheckDigits computes the two CPF check digits for a nine-digit base.
// The first digit weighs positions 10 down to 2; the second weighs the base
// plus the first digit 11 down to 2. A remainder below 2 yields 0.
func CheckDigits(base string) (int, int) {
	d1 := checkDigit(base, 10)
	d2 := checkDigit(base+string(rune('0'+d1)), 11)
	return d1, d2
}

func checkDigit(digits string, startWeight int) int {
	sum := 0
	for i, r := range digits {
		sum += int(r-'0') * (startWeight - i)
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

// Normalize removes everything except decimal digits.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
