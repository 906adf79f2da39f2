// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package json renders detection results as a machine-readable JSON
// report. The same document shape is served by the HTTP API.
package json

import (
	"encoding/json"

	"pii-guardian/internal/detector"
	"pii-guardian/internal/formatters"
)

func init() {
	formatters.Register(NewFormatter())
}

type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Machine-readable JSON output"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

type entityDoc struct {
	Type       string   `json:"type"`
	Value      string   `json:"value"`
	Normalized string   `json:"normalized,omitempty"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Confidence float64  `json:"confidence"`
	Validation string   `json:"validation"`
	Sources    []string `json:"sources"`
	Reason     string   `json:"reason,omitempty"`
}

type resultDoc struct {
	ID                  string      `json:"id"`
	HasPII              bool        `json:"has_pii"`
	Classification      string      `json:"classification"`
	Mode                string      `json:"mode"`
	AggregateConfidence float64     `json:"aggregate_confidence"`
	Degraded            bool        `json:"degraded,omitempty"`
	Truncated           bool        `json:"truncated,omitempty"`
	TextLength          int         `json:"text_length"`
	ElapsedMS           int64       `json:"elapsed_ms"`
	Entities            []entityDoc `json:"entities"`
}

type report struct {
	Results []resultDoc `json:"results"`
	Total   int         `json:"total_entities"`
}

// BuildResultDoc converts one detection result into the JSON document
// shape. Exported so the HTTP API can serve single results without
// going through the registry.
func BuildResultDoc(id string, res *detector.DetectionResult, options formatters.FormatterOptions) any {
	return buildResultDoc(id, res, options)
}

func buildResultDoc(id string, res *detector.DetectionResult, options formatters.FormatterOptions) resultDoc {
	doc := resultDoc{
		ID:                  id,
		HasPII:              res.HasPII,
		Classification:      res.Classification,
		Mode:                res.Mode,
		AggregateConfidence: res.AggregateConfidence,
		Degraded:            res.Degraded,
		Truncated:           res.Truncated,
		TextLength:          res.TextLength,
		ElapsedMS:           res.Elapsed.Milliseconds(),
		Entities:            make([]entityDoc, 0, len(res.Entities)),
	}
	for _, e := range res.Entities {
		sources := make([]string, len(e.Sources))
		for i, s := range e.Sources {
			sources[i] = string(s)
		}
		normalized := e.Normalized
		if !options.ShowValues {
			normalized = ""
		}
		doc.Entities = append(doc.Entities, entityDoc{
			Type:       string(e.Type),
			Value:      formatters.DisplayValue(e.Value, options),
			Normalized: normalized,
			Start:      e.Start,
			End:        e.End,
			Confidence: e.Confidence,
			Validation: string(e.Validation),
			Sources:    sources,
			Reason:     e.Reason,
		})
	}
	return doc
}

func (f *Formatter) Format(items []formatters.Item, options formatters.FormatterOptions) (string, error) {
	rep := report{Results: make([]resultDoc, 0, len(items))}
	for _, item := range items {
		rep.Results = append(rep.Results, buildResultDoc(item.ID, item.Result, options))
		rep.Total += len(item.Result.Entities)
	}
	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}
