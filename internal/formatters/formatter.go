// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package formatters renders detection results for the CLI and the HTTP
// API. Concrete formatters register themselves at init time; callers go
// through Export so that -format values resolve uniformly.
package formatters

import (
	"fmt"
	"sort"
	"strings"

	"pii-guardian/internal/detector"
)

// Item pairs one detection result with the identifier it was produced
// for (a file path, a batch item ID, or "stdin").
type Item struct {
	ID     string
	Result *detector.DetectionResult
}

// FormatterOptions controls output rendering.
type FormatterOptions struct {
	// Verbose includes per-entity reasons and source provenance.
	Verbose bool
	// NoColor disables ANSI colors for formatters that use them.
	NoColor bool
	// ShowValues prints the matched text. When false, values are
	// replaced with a placeholder so reports can be shared without
	// propagating the detected data.
	ShowValues bool
}

// Formatter converts detection results into a serialized report.
type Formatter interface {
	Format(items []Item, options FormatterOptions) (string, error)
	Name() string
	Description() string
	FileExtension() string
}

// Registry holds available formatters by name.
type Registry struct {
	formatters map[string]Formatter
}

func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

func (r *Registry) Register(f Formatter) {
	r.formatters[f.Name()] = f
}

func (r *Registry) Get(name string) (Formatter, bool) {
	f, ok := r.formatters[name]
	return f, ok
}

// List returns registered formatter names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the registry used by the package-level functions.
var DefaultRegistry = NewRegistry()

func Register(f Formatter) {
	DefaultRegistry.Register(f)
}

func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

func List() []string {
	return DefaultRegistry.List()
}

// Export formats items with the named formatter from the default
// registry.
func Export(items []Item, format string, options FormatterOptions) (string, error) {
	f, ok := Get(format)
	if !ok {
		return "", fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(List(), ", "))
	}
	return f.Format(items, options)
}

// ContentType returns the MIME type for a format, for HTTP responses.
func ContentType(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "csv":
		return "text/csv"
	default:
		return "text/plain; charset=utf-8"
	}
}

// HiddenValue replaces entity values when ShowValues is off.
const HiddenValue = "[hidden]"

// DisplayValue applies the ShowValues option to an entity value.
func DisplayValue(value string, options FormatterOptions) string {
	if options.ShowValues {
		return value
	}
	return HiddenValue
}

// ConfidenceLevel buckets a confidence score for display.
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.90:
		return "HIGH"
	case confidence >= 0.60:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
