// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package metrics

import (
	"context"
	"errors"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/cinerules/internal/recommend"
)

var (
	// Mining run metrics
	MiningRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mining_runs_total",
			Help: "Total number of mining pipeline runs",
		},
		[]string{"status"}, // status: "success", "failure", "timeout", "candidate_limit"
	)

	MiningRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mining_run_duration_seconds",
			Help:    "Duration of mining pipeline runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
		},
	)

	MiningStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mining_stage_duration_seconds",
			Help:    "Duration of mining pipeline stages in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"stage"}, // stage: "load", "mine", "rules"
	)

	MiningLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mining_last_success_timestamp",
			Help: "Unix timestamp of the last successful mining run",
		},
	)

	MiningTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mining_transactions",
			Help: "Number of transactions in the last successful run",
		},
	)

	MiningDistinctItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mining_distinct_items",
			Help: "Number of distinct items in the last successful run",
		},
	)

	FrequentItemsets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "frequent_itemsets",
			Help: "Number of frequent itemsets in the published model",
		},
	)

	RulesGenerated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "association_rules",
			Help: "Number of association rules in the published model",
		},
	)

	// Apriori level metrics
	AprioriCandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apriori_candidates_total",
			Help: "Total number of candidate itemsets counted per level",
		},
		[]string{"level"},
	)

	AprioriFrequentItemsets = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "apriori_level_frequent_itemsets",
			Help: "Number of frequent itemsets found at each level in the last run",
		},
		[]string{"level"},
	)

	AprioriLevelDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apriori_level_duration_seconds",
			Help:    "Duration of one Apriori level in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"level"},
	)

	// Recommendation metrics
	RecommendationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"status"}, // status: "success", "invalid", "no_model", "error"
	)

	RecommendationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_latency_seconds",
			Help:    "Latency of recommendation requests in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	RecommendationCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	RecommendationCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// Model store metrics
	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_version",
			Help: "Version of the currently published model",
		},
	)

	ModelStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_store_operations_total",
			Help: "Total number of model store operations",
		},
		[]string{"operation", "status"}, // operation: "save", "load", "prune"
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	ExportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_rows_total",
			Help: "Total number of rows written by exports",
		},
		[]string{"dataset", "format"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of active API requests",
		},
	)

	// Application metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// RecordUptime updates the uptime gauge relative to start.
func RecordUptime(start time.Time) {
	AppUptime.Set(time.Since(start).Seconds())
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordExport records rows written to an export file.
func RecordExport(dataset, format string, rows int64) {
	ExportRowsTotal.WithLabelValues(dataset, format).Add(float64(rows))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLevel records one Apriori level. Its signature matches the
// algorithms.AprioriConfig.OnLevel callback after unpacking LevelStats.
func RecordLevel(level, candidates, frequent int, duration time.Duration) {
	label := strconv.Itoa(level)
	AprioriCandidatesTotal.WithLabelValues(label).Add(float64(candidates))
	AprioriFrequentItemsets.WithLabelValues(label).Set(float64(frequent))
	AprioriLevelDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordModelStore records a model store operation.
func RecordModelStore(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	ModelStoreOperations.WithLabelValues(operation, status).Inc()
}

// RecordModelPublished updates the model gauges.
func RecordModelPublished(model *recommend.Model) {
	if model == nil {
		return
	}
	ModelVersion.Set(float64(model.Version))
	FrequentItemsets.Set(float64(model.Frequent.Len()))
	RulesGenerated.Set(float64(len(model.Rules)))
}

// Observer exports engine run and request outcomes to Prometheus.
type Observer struct{}

// NewObserver returns an Observer for Engine.SetObserver.
func NewObserver() *Observer {
	return &Observer{}
}

// RunCompleted records a finished pipeline run.
func (o *Observer) RunCompleted(stats recommend.RunStats, duration time.Duration, err error) {
	MiningRunsTotal.WithLabelValues(runStatus(err)).Inc()
	MiningRunDuration.Observe(duration.Seconds())
	if err != nil {
		return
	}

	MiningStageDuration.WithLabelValues(recommend.StageLoad).Observe(msToSeconds(stats.LoadMS))
	MiningStageDuration.WithLabelValues(recommend.StageMine).Observe(msToSeconds(stats.MineMS))
	MiningStageDuration.WithLabelValues(recommend.StageRules).Observe(msToSeconds(stats.RulesMS))

	MiningLastSuccess.Set(float64(time.Now().Unix()))
	MiningTransactions.Set(float64(stats.Transactions))
	MiningDistinctItems.Set(float64(stats.DistinctItems))
	FrequentItemsets.Set(float64(stats.FrequentItemsets))
	RulesGenerated.Set(float64(stats.Rules))
}

// RecommendationServed records a recommendation request.
func (o *Observer) RecommendationServed(latency time.Duration, cacheHit bool, err error) {
	RecommendationRequestsTotal.WithLabelValues(requestStatus(err)).Inc()
	if err != nil {
		return
	}
	RecommendationLatency.Observe(latency.Seconds())
	if cacheHit {
		RecommendationCacheHits.Inc()
	} else {
		RecommendationCacheMisses.Inc()
	}
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, recommend.ErrCandidateLimit):
		return "candidate_limit"
	default:
		return "failure"
	}
}

func requestStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, recommend.ErrNoModel):
		return "no_model"
	case errors.Is(err, recommend.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

func msToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}
