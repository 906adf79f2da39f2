// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package observability emits structured JSON events for pipeline stages so
// a verbose run shows where time went and which stage produced entities.
package observability

import (
	"encoding/json"
	"io"
	"sync/atomic"
	"time"
)

// ObservabilityLevel controls how much is emitted.
type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// StandardObserver writes operation events for all pipeline components.
type StandardObserver struct {
	level  ObservabilityLevel
	writer io.Writer
	seq    atomic.Uint64
}

// NewStandardObserver creates an observer writing to w.
func NewStandardObserver(level ObservabilityLevel, w io.Writer) *StandardObserver {
	return &StandardObserver{level: level, writer: w}
}

// Enabled reports whether anything will be emitted.
func (o *StandardObserver) Enabled() bool {
	return o != nil && o.level != ObservabilityOff
}

// StartTiming returns a completion function that records the elapsed time
// for one operation of a component.
func (o *StandardObserver) StartTiming(component, operation string) func(success bool, metadata map[string]any) {
	if !o.Enabled() {
		return func(bool, map[string]any) {}
	}
	start := time.Now()
	return func(success bool, metadata map[string]any) {
		o.LogOperation(OperationData{
			Component:  component,
			Operation:  operation,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation emits one event. Metrics level records only failures;
// debug level records everything.
func (o *StandardObserver) LogOperation(data OperationData) {
	if !o.Enabled() {
		return
	}
	if o.level == ObservabilityMetrics && data.Success {
		return
	}
	data.Seq = o.seq.Add(1)
	data.Timestamp = time.Now().UTC().Format(time.RFC3339)
	json.NewEncoder(o.writer).Encode(data)
}

// OperationData is one observability event.
type OperationData struct {
	Component   string         `json:"component"`
	Operation   string         `json:"operation"`
	Seq         uint64         `json:"seq"`
	Timestamp   string         `json:"timestamp"`
	DurationMs  int64          `json:"duration_ms,omitempty"`
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	TextLength  int            `json:"text_length,omitempty"`
	EntityCount int            `json:"entity_count,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
