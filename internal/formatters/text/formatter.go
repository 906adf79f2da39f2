// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package text renders detection results as colorized, human-readable
// terminal output.
package text

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

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
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable colorized output"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

var levelColors = map[string]*color.Color{
	"HIGH":   color.New(color.FgRed, color.Bold),
	"MEDIUM": color.New(color.FgYellow),
	"LOW":    color.New(color.FgCyan),
}

var (
	headerColor  = color.New(color.FgWhite, color.Bold)
	publicColor  = color.New(color.FgGreen, color.Bold)
	privateColor = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

func (f *Formatter) Format(items []formatters.Item, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var b strings.Builder
	total := 0
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		f.writeItem(&b, item, options)
		total += len(item.Result.Entities)
	}

	if len(items) > 1 {
		b.WriteString("\n")
		headerColor.Fprintf(&b, "Total: %d entities across %d inputs\n", total, len(items))
	}
	return b.String(), nil
}

func (f *Formatter) writeItem(b *strings.Builder, item formatters.Item, options formatters.FormatterOptions) {
	res := item.Result

	headerColor.Fprintf(b, "=== %s ===\n", item.ID)
	if res.HasPII {
		privateColor.Fprintf(b, "Classification: %s\n", res.Classification)
	} else {
		publicColor.Fprintf(b, "Classification: %s\n", res.Classification)
	}
	fmt.Fprintf(b, "Mode: %s  Confidence: %.2f  Entities: %d\n",
		res.Mode, res.AggregateConfidence, len(res.Entities))
	if res.Degraded {
		dimColor.Fprintln(b, "Note: contextual recognizer unavailable, regex-only results")
	}
	if res.Truncated {
		dimColor.Fprintln(b, "Note: input truncated for contextual analysis")
	}

	for _, e := range res.Entities {
		level := formatters.ConfidenceLevel(e.Confidence)
		c, ok := levelColors[level]
		if !ok {
			c = dimColor
		}
		fmt.Fprintf(b, "  [%s] ", c.Sprint(level))
		fmt.Fprintf(b, "%-10s %s  (%.2f, %s, bytes %d-%d)\n",
			e.Type, formatters.DisplayValue(e.Value, options),
			e.Confidence, e.Validation, e.Start, e.End)
		if options.Verbose {
			sources := make([]string, len(e.Sources))
			for i, s := range e.Sources {
				sources[i] = string(s)
			}
			dimColor.Fprintf(b, "           sources=%s reason=%q\n",
				strings.Join(sources, ","), e.Reason)
		}
	}
	if len(res.Entities) == 0 {
		dimColor.Fprintln(b, "  no personal data detected")
	}
}
