// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package validators bundles the per-type validators behind a single entry
// point keyed by PII type.
package validators

import (
	"pii-guardian/internal/detector"
	"pii-guardian/internal/validators/cep"
	"pii-guardian/internal/validators/cnpj"
	"pii-guardian/internal/validators/cpf"
	"pii-guardian/internal/validators/email"
	"pii-guardian/internal/validators/phone"
)

// Outcome is the type-agnostic validation verdict consumed by the pipeline.
type Outcome struct {
	Normalized string
	Status     detector.ValidationStatus
}

// Set holds one validator instance per checkable PII type.
type Set struct {
	cpf   *cpf.Validator
	cnpj  *cnpj.Validator
	phone *phone.Validator
	cep   *cep.Validator
	email *email.Validator
}

// NewSet creates a validator set covering all checkable types.
func NewSet() *Set {
	return &Set{
		cpf:   cpf.NewValidator(),
		cnpj:  cnpj.NewValidator(),
		phone: phone.NewValidator(),
		cep:   cep.NewValidator(),
		email: email.NewValidator(),
	}
}

// Apply validates raw as a value of type t. Types without a checksum or
// structural rule (RG, CNH, contextual types) come back not_applicable with
// a digits-only normalization where that makes sense.
func (s *Set) Apply(t detector.PIIType, raw string) Outcome {
	switch t {
	case detector.TypeCPF:
		r := s.cpf.Validate(raw)
		return Outcome{Normalized: r.Normalized, Status: status(r.Valid)}
	case detector.TypeCNPJ:
		r := s.cnpj.Validate(raw)
		return Outcome{Normalized: r.Normalized, Status: status(r.Valid)}
	case detector.TypePhone:
		r := s.phone.Validate(raw)
		return Outcome{Normalized: r.Normalized, Status: status(r.Valid)}
	case detector.TypeCEP:
		r := s.cep.Validate(raw)
		return Outcome{Normalized: r.Normalized, Status: status(r.Valid)}
	case detector.TypeEmail:
		r := s.email.Validate(raw)
		return Outcome{Normalized: r.Normalized, Status: status(r.Valid)}
	case detector.TypeRG, detector.TypeCNH:
		return Outcome{Normalized: cpf.Normalize(raw), Status: detector.StatusNotApplicable}
	default:
		return Outcome{Normalized: raw, Status: detector.StatusNotApplicable}
	}
}

func status(valid bool) detector.ValidationStatus {
	if valid {
		return detector.StatusValid
	}
	return detector.StatusInvalid
}
