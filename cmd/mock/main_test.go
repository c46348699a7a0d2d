package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func doGet(t *testing.T, target, key string) (*http.Response, []filing) {
	t.Helper()
	h := handleGet("k", slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	resp := rec.Result()
	var hits []filing
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp, hits
}

func TestHandleGet(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		key        string
		wantStatus int
		wantHits   int
	}{
		{"missing key", endpoint + "?sec_code=72030", "", http.StatusUnauthorized, 0},
		{"wrong key", endpoint + "?sec_code=72030", "x", http.StatusUnauthorized, 0},
		{"no params returns all", endpoint, "k", http.StatusOK, 3},
		{"scalar sec code", endpoint + "?sec_code=72030", "k", http.StatusOK, 1},
		{"array sec codes", endpoint + "?sec_code%5B%5D=72030&sec_code%5B%5D=67580", "k", http.StatusOK, 2},
		{"doc id", endpoint + "?doc_id=S100TR7I", "k", http.StatusOK, 1},
		{"company name", endpoint + "?company_name=%E3%82%BD%E3%83%8B%E3%83%BC", "k", http.StatusOK, 1},
		{"date range excludes", endpoint + "?sec_code=72030&start_date=2025-01-01", "k", http.StatusNotFound, 0},
		{"unknown code", endpoint + "?sec_code=00000", "k", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, hits := doGet(t, tt.target, tt.key)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if len(hits) != tt.wantHits {
				t.Errorf("hits = %d, want %d", len(hits), tt.wantHits)
			}
		})
	}
}
