// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pii-guardian/internal/detector"
	"pii-guardian/internal/resilience"
)

func noRetry() resilience.RetryConfig {
	return resilience.RetryConfig{MaxRetries: 0, InitialInterval: time.Millisecond, Multiplier: 2.0}
}

func TestRecognize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req recognizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(recognizeResponse{Entities: []Candidate{
			{Type: detector.TypeName, Start: 0, End: 10, Confidence: 0.92},
			{Type: detector.TypeAddress, Start: 20, End: 30, Confidence: 0.40},
		}})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryConfig(noRetry()))
	got, err := client.Recognize(context.Background(), "João Silva mora na Rua das Flores", 0.70)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(got.Candidates) != 1 {
		t.Fatalf("expected low-confidence candidate filtered, got %v", got.Candidates)
	}
	if got.Candidates[0].Type != detector.TypeName {
		t.Errorf("unexpected candidate %v", got.Candidates[0])
	}
}

func TestRecognizeLowerCutoffAdmitsMore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(recognizeResponse{Entities: []Candidate{
			{Type: detector.TypeName, Start: 0, End: 10, Confidence: 0.45},
		}})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryConfig(noRetry()))

	high, err := client.Recognize(context.Background(), "João Silva", 0.70)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	low, err := client.Recognize(context.Background(), "João Silva", 0.35)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(high.Candidates) != 0 || len(low.Candidates) != 1 {
		t.Errorf("cutoff filtering wrong: high=%v low=%v", high.Candidates, low.Candidates)
	}
}

func TestRecognizeServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryConfig(noRetry()))
	_, err := client.Recognize(context.Background(), "texto", 0.70)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestRecognizeConnectionRefusedIsUnavailable(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:1", WithRetryConfig(noRetry()))
	_, err := client.Recognize(context.Background(), "texto", 0.70)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestRecognizeBadRequestIsHardError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported language", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryConfig(noRetry()))
	_, err := client.Recognize(context.Background(), "texto", 0.70)
	if err == nil || errors.Is(err, ErrUnavailable) {
		t.Errorf("expected a hard error, got %v", err)
	}
}

func TestRecognizeTruncatesLongText(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req recognizeRequest
		json.NewDecoder(r.Body).Decode(&req)
		received = req.Text
		json.NewEncoder(w).Encode(recognizeResponse{})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryConfig(noRetry()), WithMaxTextLength(100))
	got, err := client.Recognize(context.Background(), strings.Repeat("a", 500), 0.70)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if !got.Truncated {
		t.Error("expected Truncated to be set")
	}
	if len(received) != 100 {
		t.Errorf("service received %d bytes, want 100", len(received))
	}
}
