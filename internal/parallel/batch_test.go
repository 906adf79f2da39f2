// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"testing"

	"pii-guardian/internal/core"
	"pii-guardian/internal/detector"
	"pii-guardian/internal/policy"
)

func newProcessor(t *testing.T, opts ...BatchOption) *BatchProcessor {
	t.Helper()
	det, err := core.NewDetector(policy.Balanced())
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	return NewBatchProcessor(det, opts...)
}

func TestProcessPreservesOrder(t *testing.T) {
	p := newProcessor(t, WithWorkers(8))

	items := make([]Item, 40)
	for i := range items {
		if i%2 == 0 {
			items[i] = Item{ID: fmt.Sprintf("pii-%d", i), Text: "Meu CPF é 123.456.789-09"}
		} else {
			items[i] = Item{ID: fmt.Sprintf("clean-%d", i), Text: "pedido de rotina sem dados"}
		}
	}

	results := p.Process(context.Background(), items)
	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r.Index != i || r.ID != items[i].ID {
			t.Fatalf("result %d out of order: %+v", i, r)
		}
		if r.Err != nil {
			t.Fatalf("item %d failed: %v", i, r.Err)
		}
		wantPII := i%2 == 0
		if r.Result.HasPII != wantPII {
			t.Errorf("item %d HasPII = %v, want %v", i, r.Result.HasPII, wantPII)
		}
	}
}

func TestProcessClassifications(t *testing.T) {
	p := newProcessor(t)
	results := p.Process(context.Background(), []Item{
		{ID: "a", Text: "contato joao@gmail.com"},
		{ID: "b", Text: "sem dados pessoais"},
	})
	if results[0].Result.Classification != detector.ClassificationNonPublic {
		t.Errorf("expected NON_PUBLIC for item a, got %s", results[0].Result.Classification)
	}
	if results[1].Result.Classification != detector.ClassificationPublic {
		t.Errorf("expected PUBLIC for item b, got %s", results[1].Result.Classification)
	}
}

func TestProcessCancelledContext(t *testing.T) {
	p := newProcessor(t, WithWorkers(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]Item, 10)
	for i := range items {
		items[i] = Item{ID: fmt.Sprintf("%d", i), Text: "texto"}
	}
	results := p.Process(ctx, items)
	for _, r := range results {
		if r.Err == nil && r.Result == nil {
			t.Errorf("item %s has neither result nor error", r.ID)
		}
	}
}

func TestProcessEmptyBatch(t *testing.T) {
	p := newProcessor(t)
	if got := p.Process(context.Background(), nil); len(got) != 0 {
		t.Errorf("empty batch should yield no results, got %v", got)
	}
}
