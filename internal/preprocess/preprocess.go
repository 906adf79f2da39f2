// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package preprocess loads request text out of input files. Plain text
// files pass through, JSON files may carry one request per entry, and
// PDF attachments have their text extracted before detection.
package preprocess

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is one unit of text to run detection over.
type Document struct {
	ID   string
	Text string
}

// maxPDFPages caps extraction so a pathological PDF cannot stall a scan.
const maxPDFPages = 50

// Load reads path and returns the documents it contains, dispatching on
// the file extension. Unknown extensions are treated as plain text.
func Load(path string) ([]Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".pdf":
		return loadPDF(path)
	default:
		return loadPlainText(path)
	}
}

func loadPlainText(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return []Document{{ID: path, Text: normalizeText(string(data))}}, nil
}

// jsonRequest is one entry in a JSON request file. Both Portuguese and
// English field names are accepted.
type jsonRequest struct {
	ID    string `json:"id"`
	Texto string `json:"texto"`
	Text  string `json:"text"`
}

func (r jsonRequest) body() string {
	if r.Texto != "" {
		return r.Texto
	}
	return r.Text
}

// loadJSON accepts three shapes: a bare JSON string, an array of
// strings or request objects, and an object with a "pedidos" array.
func loadJSON(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		return []Document{{ID: path, Text: normalizeText(single)}}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err == nil {
		return decodeEntries(path, entries)
	}

	var wrapper struct {
		Pedidos []json.RawMessage `json:"pedidos"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Pedidos != nil {
		return decodeEntries(path, wrapper.Pedidos)
	}

	return nil, fmt.Errorf("%s: unsupported JSON shape (want string, array, or {\"pedidos\": [...]})", path)
}

func decodeEntries(path string, entries []json.RawMessage) ([]Document, error) {
	docs := make([]Document, 0, len(entries))
	for i, raw := range entries {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			docs = append(docs, Document{
				ID:   fmt.Sprintf("%s#%d", path, i),
				Text: normalizeText(s),
			})
			continue
		}
		var req jsonRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("%s: entry %d is neither string nor request object: %w", path, i, err)
		}
		id := req.ID
		if id == "" {
			id = fmt.Sprintf("%s#%d", path, i)
		}
		docs = append(docs, Document{ID: id, Text: normalizeText(req.body())})
	}
	return docs, nil
}

func loadPDF(path string) ([]Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > maxPDFPages {
		pages = maxPDFPages
	}

	var buf bytes.Buffer
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := extractPageText(p)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}

	return []Document{{ID: path, Text: normalizeText(buf.String())}}, nil
}

// extractPageText rebuilds page text row by row. Rows come back keyed
// by position, so they are ordered top to bottom and each row's
// fragments left to right, with spaces inserted at visible gaps.
func extractPageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	ordered := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			ordered = append(ordered, row)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return averageY(ordered[i].Content) < averageY(ordered[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range ordered {
		line := joinRow(row.Content)
		if strings.TrimSpace(line) == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

func averageY(fragments []pdf.Text) float64 {
	if len(fragments) == 0 {
		return 0
	}
	var total float64
	for _, f := range fragments {
		total += f.Y
	}
	return total / float64(len(fragments))
}

func joinRow(fragments []pdf.Text) string {
	sorted := make([]pdf.Text, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var buf bytes.Buffer
	for i, f := range sorted {
		buf.WriteString(f.S)
		if i == len(sorted)-1 {
			continue
		}
		gap := sorted[i+1].X - (f.X + f.W)
		size := f.FontSize
		if size <= 0 {
			size = 12
		}
		if gap > size*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}

// normalizeText unifies line endings and trims trailing whitespace per
// line so byte offsets are stable across input sources.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
