// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package cep validates Brazilian postal codes (CEP). The first digit of a
// CEP identifies the postal region assigned by Correios.
package cep

import "pii-guardian/internal/validators/cpf"

// regions maps the leading CEP digit to its postal region.
var regions = map[byte]string{
	'0': "São Paulo (capital)",
	'1': "São Paulo (interior)",
	'2': "Rio de Janeiro / Espírito Santo",
	'3': "Minas Gerais",
	'4': "Bahia / Sergipe",
	'5': "Pernambuco / Alagoas / Paraíba / Rio Grande do Norte",
	'6': "Ceará / Piauí / Maranhão / Pará / Amazonas / Acre / Amapá / Roraima",
	'7': "Distrito Federal / Goiás / Tocantins / Mato Grosso / Rondônia",
	'8': "Paraná / Santa Catarina",
	'9': "Rio Grande do Sul",
}

// Result holds the validation outcome for a candidate CEP.
type Result struct {
	Normalized string
	Valid      bool
	Region     string
	Message    string
}

// Validator validates CEP postal codes.
type Validator struct{}

// NewValidator creates a new CEP validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate strips formatting and checks for exactly eight digits in a known
// postal region, rejecting repeated-digit placeholders like 00000000.
func (v *Validator) Validate(raw string) Result {
	digits := cpf.Normalize(raw)
	if len(digits) != 8 {
		return Result{Normalized: digits, Message: "cep must have 8 digits"}
	}
	if allSameDigit(digits) {
		return Result{Normalized: digits, Message: "repeated-digit placeholder"}
	}
	region, ok := regions[digits[0]]
	if !ok {
		return Result{Normalized: digits, Message: "unknown postal region"}
	}
	return Result{Normalized: digits, Valid: true, Region: region}
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
