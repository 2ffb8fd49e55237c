// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/cinerules/internal/models"
	"github.com/tomtom215/cinerules/internal/recommend"
)

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"line\nbreak", `line\x0abreak`},
		{"tab\there", `tab\x09here`},
		{"del\x7f", `del\x7f`},
	}

	for _, tt := range tests {
		if got := sanitizeLogValue(tt.input); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGenerateETag_Stable(t *testing.T) {
	a := generateETag([]byte(`{"status":"success"}`))
	b := generateETag([]byte(`{"status":"success"}`))
	c := generateETag([]byte(`{"status":"error"}`))

	if a != b {
		t.Errorf("generateETag() not stable: %s != %s", a, b)
	}
	if a == c {
		t.Error("generateETag() collided for different bodies")
	}
}

func TestRespondEngineError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{recommend.ErrNoModel, http.StatusServiceUnavailable, models.ErrCodeModelUnavailable},
		{fmt.Errorf("%w: empty query", recommend.ErrInvalidInput), http.StatusBadRequest, models.ErrCodeValidation},
		{recommend.ErrMiningInProgress, http.StatusConflict, models.ErrCodeMiningInProgress},
		{errors.New("boom"), http.StatusInternalServerError, models.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondEngineError(rec, tt.err)
			expectError(t, rec, tt.status, tt.code)
		})
	}
}

func TestQueryParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&min_lift=1.5&items=A&items=%20&items=B&bad=x", nil)
	q := newQueryParams(req)

	if got := q.Int("limit", 0); got != 5 {
		t.Errorf("Int(limit) = %d, want 5", got)
	}
	if got := q.Int("missing", 7); got != 7 {
		t.Errorf("Int(missing) = %d, want 7", got)
	}
	if got := q.Float("min_lift", 0); got != 1.5 {
		t.Errorf("Float(min_lift) = %v, want 1.5", got)
	}
	if got := q.Strings("items"); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("Strings(items) = %v, want [A B]", got)
	}
	if q.Err() != nil {
		t.Fatalf("Err() = %+v before a bad parameter", q.Err())
	}

	if got := q.Int("bad", 3); got != 3 {
		t.Errorf("Int(bad) = %d, want default 3", got)
	}
	apiErr := q.Err()
	if apiErr == nil {
		t.Fatal("Err() = nil after a bad parameter")
	}
	if _, ok := apiErr.Details["bad"]; !ok {
		t.Errorf("Details = %v, want key bad", apiErr.Details)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		limit, def, maxLimit, want int
	}{
		{0, 10, 100, 10},
		{-1, 10, 100, 10},
		{50, 10, 100, 50},
		{500, 10, 100, 100},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.limit, tt.def, tt.maxLimit); got != tt.want {
			t.Errorf("clampLimit(%d, %d, %d) = %d, want %d", tt.limit, tt.def, tt.maxLimit, got, tt.want)
		}
	}
}
