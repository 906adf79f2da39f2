// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package email performs structural validation of email addresses: length
// limits on the local part and domain, a dotted domain and a plausible TLD.
package email

import "strings"

const (
	maxLocalLen  = 64
	maxDomainLen = 255
)

// Result holds the validation outcome for a candidate email address.
type Result struct {
	Normalized string // lowercased address
	Valid      bool
	Message    string
}

// Validator validates email address structure.
type Validator struct{}

// NewValidator creates a new email validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the structural rules. It does not verify deliverability.
func (v *Validator) Validate(raw string) Result {
	addr := strings.ToLower(strings.TrimSpace(raw))
	res := Result{Normalized: addr}

	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		res.Message = "missing local part or domain"
		return res
	}
	local, domain := addr[:at], addr[at+1:]

	if len(local) > maxLocalLen {
		res.Message = "local part exceeds 64 characters"
		return res
	}
	if len(domain) > maxDomainLen {
		res.Message = "domain exceeds 255 characters"
		return res
	}
	if strings.Contains(addr, "..") {
		res.Message = "consecutive dots"
		return res
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		res.Message = "local part starts or ends with a dot"
		return res
	}

	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		res.Message = "domain has no dotted TLD"
		return res
	}
	tld := domain[dot+1:]
	if len(tld) < 2 {
		res.Message = "tld too short"
		return res
	}
	for _, r := range tld {
		if r < 'a' || r > 'z' {
			res.Message = "tld must be alphabetic"
			return res
		}
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			res.Message = "malformed domain label"
			return res
		}
	}

	res.Valid = true
	return res
}
