// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web serves the detection pipeline over HTTP: single and batch
// detection endpoints plus health and service info.
package web

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"pii-guardian/internal/config"
	"pii-guardian/internal/core"
	"pii-guardian/internal/formatters"
	jsonfmt "pii-guardian/internal/formatters/json"
	"pii-guardian/internal/parallel"
	"pii-guardian/internal/recognizer"
	"pii-guardian/internal/version"

	// Register output formatters.
	_ "pii-guardian/internal/formatters/csv"
	_ "pii-guardian/internal/formatters/text"
)

// maxRequestBody caps request payloads at 1 MiB.
const maxRequestBody = 1 << 20

// Server exposes detection over HTTP.
type Server struct {
	cfg    *config.Config
	server *http.Server

	mu        sync.Mutex
	detectors map[string]*core.Detector
}

func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg:       cfg,
		detectors: make(map[string]*core.Detector),
	}
}

// detector returns the cached detector for a mode, building it on first
// use. An empty mode resolves to the configured default.
func (s *Server) detector(mode string) (*core.Detector, error) {
	if mode == "" {
		mode = s.cfg.Defaults.Mode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if det, ok := s.detectors[mode]; ok {
		return det, nil
	}
	det, err := core.BuildDetector(s.cfg, mode, os.Stderr)
	if err != nil {
		return nil, err
	}
	s.detectors[mode] = det
	return det, nil
}

// Handler returns the routed HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/detect", s.handleDetect)
	mux.HandleFunc("/detect/batch", s.handleDetectBatch)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/info", s.handleInfo)
	return withCommonHeaders(mux)
}

// Start binds the configured port, falling back to the next nine ports
// when it is busy, and serves until Stop or a fatal listener error.
func (s *Server) Start() error {
	handler := s.Handler()

	var lastErr error
	for attempt := 0; attempt < 10; attempt++ {
		port := s.cfg.Server.Port + attempt
		addr := net.JoinHostPort(s.cfg.Server.Host, fmt.Sprintf("%d", port))

		listener, err := net.Listen("tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}

		s.server = &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 15 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		fmt.Printf("pii-guardian API listening on http://%s\n", addr)
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("no available port in range %d-%d: %w",
		s.cfg.Server.Port, s.cfg.Server.Port+9, lastErr)
}

// Stop closes the server immediately.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// withCommonHeaders adds CORS headers and answers preflight requests.
func withCommonHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type detectRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode,omitempty"`
	// ShowValues echoes matched values back in the response. Off by
	// default so responses do not repeat the personal data they found.
	ShowValues bool `json:"show_values,omitempty"`
}

type batchRequest struct {
	Texts      []string    `json:"texts,omitempty"`
	Items      []batchItem `json:"items,omitempty"`
	Mode       string      `json:"mode,omitempty"`
	ShowValues bool        `json:"show_values,omitempty"`
}

type batchItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req detectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	det, err := s.detector(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := det.Detect(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	opts := formatters.FormatterOptions{ShowValues: req.ShowValues}
	writeJSON(w, http.StatusOK, jsonfmt.BuildResultDoc("request", result, opts))
}

func (s *Server) handleDetectBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]parallel.Item, 0, len(req.Texts)+len(req.Items))
	for i, text := range req.Texts {
		items = append(items, parallel.Item{ID: fmt.Sprintf("item-%d", i), Text: text})
	}
	for i, item := range req.Items {
		id := item.ID
		if id == "" {
			id = fmt.Sprintf("item-%d", len(req.Texts)+i)
		}
		items = append(items, parallel.Item{ID: id, Text: item.Text})
	}
	if len(items) == 0 {
		writeError(w, http.StatusBadRequest, "empty batch: provide texts or items")
		return
	}

	det, err := s.detector(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	processor := parallel.NewBatchProcessor(det, parallel.WithWorkers(s.cfg.Defaults.Workers))
	results := processor.Process(r.Context(), items)

	opts := formatters.FormatterOptions{ShowValues: req.ShowValues}
	type batchEntry struct {
		ID     string `json:"id"`
		Error  string `json:"error,omitempty"`
		Result any    `json:"result,omitempty"`
	}
	out := make([]batchEntry, 0, len(results))
	for _, res := range results {
		entry := batchEntry{ID: res.ID}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		} else {
			entry.Result = jsonfmt.BuildResultDoc(res.ID, res.Result, opts)
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out, "count": len(out)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "pii-guardian",
		"version":   version.Short(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	modes := []string{"strict", "balanced", "precise"}
	for name := range s.cfg.Modes {
		modes = append(modes, name)
	}
	sort.Strings(modes)

	info := map[string]any{
		"service":      "pii-guardian",
		"build":        version.Full(),
		"modes":        modes,
		"default_mode": s.cfg.Defaults.Mode,
		"formats":      formatters.List(),
		"recognizer": map[string]any{
			"enabled":  !s.cfg.Recognizer.Disabled && s.cfg.Recognizer.Endpoint != "",
			"endpoint": s.cfg.Recognizer.Endpoint,
		},
	}

	// Breaker counters come from the default-mode detector when one has
	// already been built; building one just for /info is not worth it.
	s.mu.Lock()
	det := s.detectors[s.cfg.Defaults.Mode]
	s.mu.Unlock()
	if det != nil {
		if client, ok := det.Recognizer().(*recognizer.HTTPClient); ok {
			info["recognizer_breaker"] = client.BreakerStats()
		}
	}

	writeJSON(w, http.StatusOK, info)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
