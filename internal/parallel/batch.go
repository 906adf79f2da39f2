// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parallel runs detection over batches of texts with a bounded
// worker pool. Result order always matches input order regardless of which
// worker finished first.
package parallel

import (
	"context"
	"sync"
	"time"

	"pii-guardian/internal/core"
	"pii-guardian/internal/detector"
	"pii-guardian/internal/observability"
)

// DefaultWorkers is the pool size when none is configured.
const DefaultWorkers = 4

// Item is one text in a batch. ID is echoed back in the result so callers
// can correlate; it is not interpreted.
type Item struct {
	ID   string
	Text string
}

// ItemResult pairs an input item with its detection outcome.
type ItemResult struct {
	ID     string
	Index  int
	Result *detector.DetectionResult
	Err    error
}

// BatchProcessor fans a batch out over a fixed number of workers.
type BatchProcessor struct {
	det         *core.Detector
	workers     int
	itemTimeout time.Duration
	observer    *observability.StandardObserver
}

// BatchOption customizes a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithWorkers sets the pool size.
func WithWorkers(n int) BatchOption {
	return func(p *BatchProcessor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithItemTimeout bounds the time spent on a single text. Zero means no
// per-item limit.
func WithItemTimeout(d time.Duration) BatchOption {
	return func(p *BatchProcessor) { p.itemTimeout = d }
}

// WithObserver wires operation logging.
func WithObserver(obs *observability.StandardObserver) BatchOption {
	return func(p *BatchProcessor) { p.observer = obs }
}

// NewBatchProcessor creates a processor around one detector. The detector
// is shared by all workers; it is safe for concurrent use.
func NewBatchProcessor(det *core.Detector, opts ...BatchOption) *BatchProcessor {
	p := &BatchProcessor{det: det, workers: DefaultWorkers}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process detects over all items and returns results in input order.
// Cancelling ctx stops the pool; unprocessed items report ctx.Err().
func (p *BatchProcessor) Process(ctx context.Context, items []Item) []ItemResult {
	done := p.observer.StartTiming("batch", "process")

	results := make([]ItemResult, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.processOne(ctx, idx, items[idx])
			}
		}()
	}

	for idx := range items {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			results[idx] = ItemResult{ID: items[idx].ID, Index: idx, Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
		}
	}
	done(failures == 0, map[string]any{"items": len(items), "failures": failures})
	return results
}

func (p *BatchProcessor) processOne(ctx context.Context, idx int, item Item) ItemResult {
	if err := ctx.Err(); err != nil {
		return ItemResult{ID: item.ID, Index: idx, Err: err}
	}
	itemCtx := ctx
	if p.itemTimeout > 0 {
		var cancel context.CancelFunc
		itemCtx, cancel = context.WithTimeout(ctx, p.itemTimeout)
		defer cancel()
	}
	res, err := p.det.Detect(itemCtx, item.Text)
	return ItemResult{ID: item.ID, Index: idx, Result: res, Err: err}
}
