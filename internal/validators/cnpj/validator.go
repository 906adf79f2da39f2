// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package cnpj validates Brazilian CNPJ numbers (Cadastro Nacional da
// Pessoa Jurídica): twelve base digits plus two mod-11 check digits.
package cnpj

import "pii-guardian/internal/validators/cpf"

var (
	firstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Result holds the validation outcome for a candidate CNPJ.
type Result struct {
	Normalized string
	Valid      bool
	Message    string
}

// Validator validates CNPJ check digits.
type Validator struct{}

// NewValidator creates a new CNPJ validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate strips formatting and verifies length, the repeated-digit
// blacklist and both check digits.
func (v *Validator) Validate(raw string) Result {
	digits := cpf.Normalize(raw)
	if len(digits) != 14 {
		return Result{Normalized: digits, Message: "cnpj must have 14 digits"}
	}
	if allSameDigit(digits) {
		return Result{Normalized: digits, Message: "repeated-digit sequence is never issued"}
	}
	d1, d2 := CheckDigits(digits[:12])
	if int(digits[12]-'0') != d1 || int(digits[13]-'0') != d2 {
		return Result{Normalized: digits, Message: "check digits do not match"}
	}
	return Result{Normalized: digits, Valid: true}
}

// CheckDigits computes the two CNPJ check digits for a twelve-digit base.
func CheckDigits(base string) (int, int) {
	d1 := weightedDigit(base, firstWeights)
	d2 := weightedDigit(base+string(rune('0'+d1)), secondWeights)
	return d1, d2
}

func weightedDigit(digits string, weights []int) int {
	sum := 0
	for i := range weights {
		sum += int(digits[i]-'0') * weights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
