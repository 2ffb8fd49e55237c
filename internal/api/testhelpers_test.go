// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerules/internal/logging"
	"github.com/tomtom215/cinerules/internal/models"
	"github.com/tomtom215/cinerules/internal/recommend"
	"github.com/tomtom215/cinerules/internal/recommend/algorithms"
)

// envelope mirrors models.APIResponse with the payload left undecoded.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

type sourceFunc func(ctx context.Context) (*recommend.TransactionStore, error)

func (f sourceFunc) LoadTransactions(ctx context.Context) (*recommend.TransactionStore, error) {
	return f(ctx)
}

// fixtureStore yields, at min support 0.5 and min confidence 0.5, the
// frequent itemsets A, B, C, AB, BC and the rules A=>B, B=>A, B=>C, C=>B.
func fixtureStore() *recommend.TransactionStore {
	return recommend.StoreFromItemsets(
		recommend.ItemsetOf("A", "B"),
		recommend.ItemsetOf("A", "B", "C"),
		recommend.ItemsetOf("A", "B"),
		recommend.ItemsetOf("B", "C"),
	)
}

func newEngine(t *testing.T, source recommend.TransactionSource) *recommend.Engine {
	t.Helper()

	cfg := recommend.DefaultConfig()
	cfg.Mining.MinSupport = 0.5
	cfg.Rules.MinConfidence = 0.5
	cfg.Rules.MinLift = 0.01

	engine, err := recommend.NewEngine(cfg, logging.NewNopLogger(), source,
		algorithms.NewApriori(algorithms.AprioriConfig{}),
		algorithms.NewRuleGenerator(algorithms.RuleGeneratorConfig{}),
		algorithms.NewRuleMatcher())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

// newTestHandler returns a handler whose engine has mined fixtureStore when
// mined is true.
func newTestHandler(t *testing.T, mined bool) *Handler {
	t.Helper()

	engine := newEngine(t, recommend.StaticSource{Store: fixtureStore()})
	if mined {
		if _, err := engine.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	}
	return NewHandler(engine, nil)
}

func doRequest(t *testing.T, h http.HandlerFunc, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Status != models.StatusError {
		t.Errorf("envelope status = %q, want %q", env.Status, models.StatusError)
	}
	if env.Error == nil || env.Error.Code != code {
		t.Errorf("error = %+v, want code %s", env.Error, code)
	}
}
