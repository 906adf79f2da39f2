// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package csv renders detection results as CSV rows, one row per
// detected entity.
package csv

import (
	"encoding/csv"
	"strconv"
	"strings"

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
	return "csv"
}

func (f *Formatter) Description() string {
	return "CSV output, one row per entity"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

var header = []string{
	"id", "classification", "mode", "type", "value",
	"start", "end", "confidence", "validation", "sources",
}

func (f *Formatter) Format(items []formatters.Item, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, item := range items {
		res := item.Result
		if len(res.Entities) == 0 {
			row := []string{
				item.ID, res.Classification, res.Mode,
				"", "", "", "", "", "", "",
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
			continue
		}
		for _, e := range res.Entities {
			sources := make([]string, len(e.Sources))
			for i, s := range e.Sources {
				sources[i] = string(s)
			}
			row := []string{
				item.ID,
				res.Classification,
				res.Mode,
				string(e.Type),
				formatters.DisplayValue(e.Value, options),
				strconv.Itoa(e.Start),
				strconv.Itoa(e.End),
				strconv.FormatFloat(e.Confidence, 'f', 2, 64),
				string(e.Validation),
				strings.Join(sources, "|"),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
