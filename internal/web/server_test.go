// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pii-guardian/internal/config"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Recognizer.Disabled = true
	srv := httptest.NewServer(NewServer(cfg).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestDetectEndpoint(t *testing.T) {
	srv := testServer(t)

	resp := postJSON(t, srv.URL+"/detect", map[string]any{
		"text":        "Meu CPF é 123.456.789-09, aguardo retorno.",
		"show_values": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var doc struct {
		HasPII         bool   `json:"has_pii"`
		Classification string `json:"classification"`
		Mode           string `json:"mode"`
		Entities       []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"entities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !doc.HasPII || doc.Classification != "NON_PUBLIC" {
		t.Errorf("unexpected decision: %+v", doc)
	}
	if doc.Mode != "balanced" {
		t.Errorf("mode = %q, want balanced", doc.Mode)
	}
	if len(doc.Entities) != 1 || doc.Entities[0].Type != "CPF" || doc.Entities[0].Value != "123.456.789-09" {
		t.Errorf("unexpected entities: %+v", doc.Entities)
	}
}

func TestDetectHidesValuesByDefault(t *testing.T) {
	srv := testServer(t)

	resp := postJSON(t, srv.URL+"/detect", map[string]any{
		"text": "contato: maria.silva@example.com",
	})
	var doc struct {
		Entities []struct {
			Value string `json:"value"`
		} `json:"entities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Entities) != 1 {
		t.Fatalf("want 1 entity, got %+v", doc.Entities)
	}
	if doc.Entities[0].Value == "maria.silva@example.com" {
		t.Error("response should not echo the detected value by default")
	}
}

func TestDetectUnknownMode(t *testing.T) {
	srv := testServer(t)
	resp := postJSON(t, srv.URL+"/detect", map[string]any{"text": "oi", "mode": "turbo"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDetectInvalidBody(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/detect", "application/json", bytes.NewReader([]byte("{nope")))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBatchEndpoint(t *testing.T) {
	srv := testServer(t)

	resp := postJSON(t, srv.URL+"/detect/batch", map[string]any{
		"items": []map[string]string{
			{"id": "p-1", "text": "CPF: 123.456.789-09"},
			{"id": "p-2", "text": "pedido sem dados pessoais"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var doc struct {
		Count   int `json:"count"`
		Results []struct {
			ID     string `json:"id"`
			Result struct {
				HasPII bool `json:"has_pii"`
			} `json:"result"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.Count != 2 {
		t.Fatalf("count = %d", doc.Count)
	}
	if doc.Results[0].ID != "p-1" || !doc.Results[0].Result.HasPII {
		t.Errorf("first result wrong: %+v", doc.Results[0])
	}
	if doc.Results[1].Result.HasPII {
		t.Errorf("clean text flagged: %+v", doc.Results[1])
	}
}

func TestBatchEmpty(t *testing.T) {
	srv := testServer(t)
	resp := postJSON(t, srv.URL+"/detect/batch", map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var doc map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc["status"] != "healthy" || doc["service"] != "pii-guardian" {
		t.Errorf("unexpected health payload: %v", doc)
	}
}

func TestInfoEndpoint(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/info")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var doc struct {
		Modes       []string `json:"modes"`
		DefaultMode string   `json:"default_mode"`
		Formats     []string `json:"formats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.DefaultMode != "balanced" {
		t.Errorf("default_mode = %q", doc.DefaultMode)
	}
	if len(doc.Modes) < 3 {
		t.Errorf("modes missing presets: %v", doc.Modes)
	}
	if len(doc.Formats) == 0 {
		t.Error("formats should list registered formatters")
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := testServer(t)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/detect", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
