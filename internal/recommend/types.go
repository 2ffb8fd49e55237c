// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package recommend

import (
	"context"
	"time"
)

// TransactionSource loads the complete transaction collection for a run.
// It is typically implemented by the database package.
type TransactionSource interface {
	LoadTransactions(ctx context.Context) (*TransactionStore, error)
}

// StaticSource serves a fixed, already built store.
type StaticSource struct {
	Store *TransactionStore
}

// LoadTransactions returns the wrapped store.
func (s StaticSource) LoadTransactions(_ context.Context) (*TransactionStore, error) {
	return s.Store, nil
}

// Miner produces every itemset whose support meets minSupport.
type Miner interface {
	// Name returns the miner identifier used in logs and metrics.
	Name() string

	// Mine fails with ErrInvalidInput for an empty collection or a
	// minSupport outside (0, 1]. An empty result is not an error.
	Mine(ctx context.Context, store *TransactionStore, minSupport float64) (*FrequentItemsets, error)
}

// RuleGenerator derives scored rules from frequent itemsets.
type RuleGenerator interface {
	Name() string

	// Generate never fails on an empty map. It fails with ErrInvalidInput
	// for thresholds outside their range.
	Generate(ctx context.Context, frequent *FrequentItemsets, minConfidence, minLift float64) (RuleSet, error)
}

// Matcher turns a query and a RuleSet into suggestions. Implementations are pure.
type Matcher interface {
	Name() string

	// Match returns the consequents of all applicable rules minus the query.
	Match(query Itemset, rules RuleSet) Itemset

	// Rank returns the same items as Match, best first, capped at limit
	// when limit is positive.
	Rank(query Itemset, rules RuleSet, limit int) []Recommendation
}

// ModelListener is notified after a run produced a model and before the
// model is published. A listener error fails the run.
type ModelListener interface {
	OnModel(ctx context.Context, model *Model) error
}

// ModelCommitter is a ModelListener whose OnModel only stages the model.
// CommitModel is called once every listener accepted the model, and
// AbortModel when a later listener or commit failed.
type ModelCommitter interface {
	ModelListener
	CommitModel(ctx context.Context, model *Model) error
	AbortModel(ctx context.Context, model *Model)
}

// Params are the thresholds a model was mined with.
type Params struct {
	MinSupport     float64 `json:"min_support"`
	MinConfidence  float64 `json:"min_confidence"`
	MinLift        float64 `json:"min_lift"`
	MaxItemsetSize int     `json:"max_itemset_size"`
	MaxCandidates  int     `json:"max_candidates"`
}

// RunStats summarizes one pipeline run.
type RunStats struct {
	Transactions     int   `json:"transactions"`
	DistinctItems    int   `json:"distinct_items"`
	FrequentItemsets int   `json:"frequent_itemsets"`
	LevelCounts      []int `json:"level_counts"`
	Rules            int   `json:"rules"`

	LoadMS  int64 `json:"load_ms"`
	MineMS  int64 `json:"mine_ms"`
	RulesMS int64 `json:"rules_ms"`
	TotalMS int64 `json:"total_ms"`
}

// Model is the immutable result of a successful run.
type Model struct {
	// ID uniquely identifies the run that built the model.
	ID string `json:"id"`

	// Version increases by one with every model the engine publishes.
	Version int `json:"version"`

	// BuiltAt is when the run finished.
	BuiltAt time.Time `json:"built_at"`

	Params Params `json:"params"`

	Frequent *FrequentItemsets `json:"frequent"`

	Rules RuleSet `json:"rules"`

	Stats RunStats `json:"stats"`
}

// Request is a recommendation query.
type Request struct {
	// RequestID is generated when empty.
	RequestID string `json:"request_id,omitempty"`

	// Items are the items the user already likes.
	Items []string `json:"items" validate:"required,min=1,dive,required"`

	// Limit caps the number of suggestions. Zero uses the configured default.
	Limit int `json:"limit,omitempty" validate:"gte=0"`
}

// Response is the answer to a Request.
type Response struct {
	// Query is the canonical form of Request.Items.
	Query Itemset `json:"query"`

	// Items are the suggestions, best first. Empty when no rule applies.
	Items []Recommendation `json:"items"`

	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID    string    `json:"request_id"`
	ModelID      string    `json:"model_id"`
	ModelVersion int       `json:"model_version"`
	BuiltAt      time.Time `json:"built_at"`
	TotalMatches int       `json:"total_matches"`
	LatencyMS    int64     `json:"latency_ms"`
	CacheHit     bool      `json:"cache_hit"`
	Timestamp    time.Time `json:"timestamp"`
}

// TrainingStatus represents the current mining state.
type TrainingStatus struct {
	// IsMining indicates whether a run is in progress.
	IsMining bool `json:"is_mining"`

	// Stage is the pipeline stage currently running.
	Stage string `json:"stage,omitempty"`

	// LastRunAt is when the last run finished, successful or not.
	LastRunAt time.Time `json:"last_run_at"`

	// LastSuccessAt is when the current model was published.
	LastSuccessAt time.Time `json:"last_success_at"`

	// LastRunDurationMS is how long the last run took.
	LastRunDurationMS int64 `json:"last_run_duration_ms"`

	// LastError contains the last run error, if any.
	LastError string `json:"last_error,omitempty"`

	// ModelID of the published model.
	ModelID string `json:"model_id,omitempty"`

	// ModelVersion of the published model.
	ModelVersion int `json:"model_version"`

	// NextScheduledRun is when the refresh service will run next.
	NextScheduledRun time.Time `json:"next_scheduled_run,omitempty"`
}

// Metrics contains engine counters for observability.
type Metrics struct {
	RequestCount         int64 `json:"request_count"`
	CacheHits            int64 `json:"cache_hits"`
	CacheMisses          int64 `json:"cache_misses"`
	ErrorCount           int64 `json:"error_count"`
	RunCount             int64 `json:"run_count"`
	FailedRunCount       int64 `json:"failed_run_count"`
	LastRunDurationMS    int64 `json:"last_run_duration_ms"`
	RuleCount            int   `json:"rule_count"`
	FrequentItemsetCount int   `json:"frequent_itemset_count"`
	AverageLatencyMicros int64 `json:"average_latency_us"`
}
