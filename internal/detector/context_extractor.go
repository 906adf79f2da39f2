// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

// DefaultContextChars is the window looked at on each side of a span when
// scoring nearby indicator keywords.
const DefaultContextChars = 50

// ContextInfo holds the text surrounding a detected span.
type ContextInfo struct {
	Before string
	After  string
}

// ContextExtractor slices a fixed-size window around a span of the input.
type ContextExtractor struct {
	ContextChars int
}

// NewContextExtractor creates an extractor with the default window size.
func NewContextExtractor() *ContextExtractor {
	return &ContextExtractor{ContextChars: DefaultContextChars}
}

// WithContextChars sets the window size on each side of the span.
func (ce *ContextExtractor) WithContextChars(chars int) *ContextExtractor {
	ce.ContextChars = chars
	return ce
}

// Window returns the text before and after the [start, end) span, clamped to
// the bounds of the input. Offsets are byte offsets.
func (ce *ContextExtractor) Window(text string, start, end int) ContextInfo {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start > end {
		start = end
	}
	from := max(0, start-ce.ContextChars)
	to := min(len(text), end+ce.ContextChars)
	return ContextInfo{
		Before: text[from:start],
		After:  text[end:to],
	}
}
