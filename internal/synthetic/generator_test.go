// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package synthetic

import (
	"strings"
	"testing"

	"pii-guardian/internal/validators/cnpj"
	"pii-guardian/internal/validators/cpf"
	"pii-guardian/internal/validators/phone"
)

func TestGeneratedIdentifiersValidate(t *testing.T) {
	g := NewGenerator(42)
	cpfV := cpf.NewValidator()
	cnpjV := cnpj.NewValidator()
	phoneV := phone.NewValidator()

	for i := 0; i < 50; i++ {
		if res := cpfV.Validate(g.CPF()); !res.Valid {
			t.Errorf("generated CPF invalid: %s", res.Message)
		}
		if res := cnpjV.Validate(g.CNPJ()); !res.Valid {
			t.Errorf("generated CNPJ invalid: %s", res.Message)
		}
		if res := phoneV.Validate(g.Phone()); !res.Valid {
			t.Errorf("generated phone invalid: %s", res.Message)
		}
	}
}

func TestRecordLabelsMatchSpans(t *testing.T) {
	g := NewGenerator(7)
	for i := 0; i < 20; i++ {
		rec := g.Record(true)
		if !rec.HasPII || len(rec.Entities) == 0 {
			t.Fatalf("record %s should carry labeled entities", rec.ID)
		}
		for _, label := range rec.Entities {
			if label.Start < 0 || label.End > len(rec.Text) || label.Start >= label.End {
				t.Fatalf("label span out of bounds: %+v", label)
			}
			if got := rec.Text[label.Start:label.End]; got != label.Value {
				t.Errorf("span text %q != label value %q", got, label.Value)
			}
		}
	}
}

func TestCleanRecordsHaveNoLabels(t *testing.T) {
	g := NewGenerator(1)
	rec := g.Record(false)
	if rec.HasPII || len(rec.Entities) != 0 {
		t.Errorf("clean record should carry no labels: %+v", rec)
	}
	if !strings.HasPrefix(rec.ID, "clean_") {
		t.Errorf("unexpected ID %q", rec.ID)
	}
}

func TestDatasetDeterministicForSeed(t *testing.T) {
	a := NewGenerator(99).Dataset(30, 0.7)
	b := NewGenerator(99).Dataset(30, 0.7)
	if len(a) != 30 || len(b) != 30 {
		t.Fatalf("unexpected sizes: %d, %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Text != b[i].Text || a[i].ID != b[i].ID {
			t.Fatalf("records diverge at %d: %q vs %q", i, a[i].Text, b[i].Text)
		}
	}
	withPII := 0
	for _, rec := range a {
		if rec.HasPII {
			withPII++
		}
	}
	if withPII != 21 {
		t.Errorf("want 21 records with personal data, got %d", withPII)
	}
}
