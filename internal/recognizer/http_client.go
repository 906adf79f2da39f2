// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pii-guardian/internal/resilience"
)

const (
	// DefaultMaxTextLength bounds what is sent to the service in one call.
	DefaultMaxTextLength = 10000

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 5 * time.Second
)

// HTTPClient talks to the recognition service over HTTP. Calls are guarded
// by short retries and a circuit breaker so a flapping service degrades
// detection instead of stalling it.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	retry    resilience.RetryConfig
	breaker  *resilience.CircuitBreaker
	maxLen   int
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.client.Timeout = d }
}

// WithMaxTextLength sets the text length limit per call.
func WithMaxTextLength(n int) Option {
	return func(c *HTTPClient) { c.maxLen = n }
}

// WithRetryConfig overrides the retry behavior.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *HTTPClient) { c.retry = cfg }
}

// NewHTTPClient creates a client for the service at endpoint, e.g.
// "http://localhost:8500/recognize".
func NewHTTPClient(endpoint string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
		retry:    resilience.RecognizerRetryConfig(),
		breaker:  resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("recognizer")),
		maxLen:   DefaultMaxTextLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type recognizeRequest struct {
	Text          string  `json:"text"`
	MinConfidence float64 `json:"min_confidence"`
}

type recognizeResponse struct {
	Entities []Candidate `json:"entities"`
}

// Recognize submits text to the service and returns its sightings filtered
// to minConfidence. Connectivity problems, timeouts and an open circuit all
// surface as ErrUnavailable.
func (c *HTTPClient) Recognize(ctx context.Context, text string, minConfidence float64) (Result, error) {
	truncated := false
	if len(text) > c.maxLen {
		text = text[:c.maxLen]
		truncated = true
	}

	body, err := json.Marshal(recognizeRequest{Text: text, MinConfidence: minConfidence})
	if err != nil {
		return Result{}, fmt.Errorf("encoding recognize request: %w", err)
	}

	var resp recognizeResponse
	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return resilience.NewPermanentError("building recognize request", err)
		}
		req.Header.Set("Content-Type", "application/json")

		httpResp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer httpResp.Body.Close()

		switch {
		case httpResp.StatusCode == http.StatusOK:
			return json.NewDecoder(httpResp.Body).Decode(&resp)
		case httpResp.StatusCode == http.StatusTooManyRequests,
			httpResp.StatusCode >= http.StatusInternalServerError:
			io.Copy(io.Discard, httpResp.Body)
			return resilience.NewTransientError(
				fmt.Sprintf("recognizer returned status %d", httpResp.StatusCode), nil)
		default:
			payload, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
			return resilience.NewPermanentError(
				fmt.Sprintf("recognizer rejected request: status %d: %s", httpResp.StatusCode, payload), nil)
		}
	}

	err = resilience.RetryWithCircuitBreaker(ctx, c.retry, c.breaker, call)
	if err != nil {
		if resilience.IsRetryable(err) || resilience.IsCircuitBreakerError(err) ||
			ctx.Err() != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return Result{}, err
	}

	out := Result{Truncated: truncated}
	for _, cand := range resp.Entities {
		if cand.Confidence < minConfidence {
			continue
		}
		if cand.Start < 0 || cand.End > len(text) || cand.Start >= cand.End {
			continue
		}
		out.Candidates = append(out.Candidates, cand)
	}
	return out, nil
}

// BreakerStats exposes circuit state for status endpoints.
func (c *HTTPClient) BreakerStats() resilience.CircuitBreakerStats {
	return c.breaker.GetStats()
}
