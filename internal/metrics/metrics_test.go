// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/cinerules/internal/recommend"
)

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
		wantErr   string
	}{
		{"successful select", "SELECT", "ratings", nil, ""},
		{"failed copy", "COPY", "rules", errors.New("disk full"), "disk full"},
		{
			name:      "long error truncated to 50 chars",
			operation: "SELECT",
			table:     "movies",
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated"),
			wantErr:   "this is a very long error message that exceeds fif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before float64
			if tt.err != nil {
				before = testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, tt.wantErr))
			}

			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)

			if tt.err != nil {
				got := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, tt.wantErr))
				if got != before+1 {
					t.Errorf("db_query_errors_total = %v, want %v", got, before+1)
				}
			}
		})
	}
}

func TestRecordAPIRequest(t *testing.T) {
	counter := APIRequestsTotal.WithLabelValues("GET", "/api/v1/rules", "200")
	before := testutil.ToFloat64(counter)

	RecordAPIRequest("GET", "/api/v1/rules", "200", 10*time.Millisecond)
	RecordAPIRequest("GET", "/api/v1/rules", "200", 20*time.Millisecond)

	if got := testutil.ToFloat64(counter); got != before+2 {
		t.Errorf("api_requests_total = %v, want %v", got, before+2)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("api_active_requests = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordLevel(t *testing.T) {
	candidates := AprioriCandidatesTotal.WithLabelValues("7")
	before := testutil.ToFloat64(candidates)

	RecordLevel(7, 120, 4, time.Millisecond)
	RecordLevel(7, 30, 2, time.Millisecond)

	if got := testutil.ToFloat64(candidates); got != before+150 {
		t.Errorf("apriori_candidates_total{level=7} = %v, want %v", got, before+150)
	}
	if got := testutil.ToFloat64(AprioriFrequentItemsets.WithLabelValues("7")); got != 2 {
		t.Errorf("apriori_level_frequent_itemsets{level=7} = %v, want 2", got)
	}
}

func TestRecordModelStore(t *testing.T) {
	ok := ModelStoreOperations.WithLabelValues("save", "success")
	failed := ModelStoreOperations.WithLabelValues("save", "failure")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordModelStore("save", nil)
	RecordModelStore("save", errors.New("boom"))

	if got := testutil.ToFloat64(ok); got != okBefore+1 {
		t.Errorf("success = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(failed); got != failedBefore+1 {
		t.Errorf("failure = %v, want %v", got, failedBefore+1)
	}
}

func TestRecordModelPublished(t *testing.T) {
	RecordModelPublished(nil)

	model := &recommend.Model{
		Version:  42,
		Frequent: recommend.NewFrequentItemsets(0),
		Rules:    make(recommend.RuleSet, 3),
	}
	RecordModelPublished(model)

	if got := testutil.ToFloat64(ModelVersion); got != 42 {
		t.Errorf("model_version = %v, want 42", got)
	}
	if got := testutil.ToFloat64(RulesGenerated); got != 3 {
		t.Errorf("association_rules = %v, want 3", got)
	}
}

func TestRunStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{fmt.Errorf("mine: %w", context.DeadlineExceeded), "timeout"},
		{fmt.Errorf("mine: %w", recommend.ErrCandidateLimit), "candidate_limit"},
		{errors.New("read csv"), "failure"},
	}

	for _, tt := range tests {
		if got := runStatus(tt.err); got != tt.want {
			t.Errorf("runStatus(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRequestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{recommend.ErrNoModel, "no_model"},
		{fmt.Errorf("%w: empty query", recommend.ErrInvalidInput), "invalid"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		if got := requestStatus(tt.err); got != tt.want {
			t.Errorf("requestStatus(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestObserver_RunCompleted(t *testing.T) {
	o := NewObserver()
	success := MiningRunsTotal.WithLabelValues("success")
	failure := MiningRunsTotal.WithLabelValues("failure")
	successBefore, failureBefore := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	o.RunCompleted(recommend.RunStats{Transactions: 671, DistinctItems: 90, FrequentItemsets: 12, Rules: 5}, time.Second, nil)
	o.RunCompleted(recommend.RunStats{}, time.Second, errors.New("load transactions: no such file"))

	if got := testutil.ToFloat64(success); got != successBefore+1 {
		t.Errorf("mining_runs_total{success} = %v, want %v", got, successBefore+1)
	}
	if got := testutil.ToFloat64(failure); got != failureBefore+1 {
		t.Errorf("mining_runs_total{failure} = %v, want %v", got, failureBefore+1)
	}
	if got := testutil.ToFloat64(MiningTransactions); got != 671 {
		t.Errorf("mining_transactions = %v, want 671 (failed run must not reset it)", got)
	}
}

func TestObserver_RecommendationServed(t *testing.T) {
	o := NewObserver()
	hitsBefore := testutil.ToFloat64(RecommendationCacheHits)
	missesBefore := testutil.ToFloat64(RecommendationCacheMisses)
	noModel := RecommendationRequestsTotal.WithLabelValues("no_model")
	noModelBefore := testutil.ToFloat64(noModel)

	o.RecommendationServed(time.Millisecond, true, nil)
	o.RecommendationServed(time.Millisecond, false, nil)
	o.RecommendationServed(0, false, recommend.ErrNoModel)

	if got := testutil.ToFloat64(RecommendationCacheHits); got != hitsBefore+1 {
		t.Errorf("cache hits = %v, want %v", got, hitsBefore+1)
	}
	if got := testutil.ToFloat64(RecommendationCacheMisses); got != missesBefore+1 {
		t.Errorf("cache misses = %v, want %v", got, missesBefore+1)
	}
	if got := testutil.ToFloat64(noModel); got != noModelBefore+1 {
		t.Errorf("requests{no_model} = %v, want %v", got, noModelBefore+1)
	}
}

func TestRecordExport(t *testing.T) {
	c := ExportRowsTotal.WithLabelValues("rules", "parquet")
	before := testutil.ToFloat64(c)
	RecordExport("rules", "parquet", 17)
	if got := testutil.ToFloat64(c); got != before+17 {
		t.Errorf("export_rows_total = %v, want %v", got, before+17)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("test")
	RecordUptime(time.Now().Add(-time.Minute))
	if got := testutil.ToFloat64(AppUptime); got < 60 {
		t.Errorf("app_uptime_seconds = %v, want >= 60", got)
	}
}

var _ recommend.Observer = (*Observer)(nil)
