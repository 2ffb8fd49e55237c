// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerules/internal/cache"
)

// Note: This package only depends on the cache package. Persistence,
// export and metrics plug in through ModelListener and Observer.

// Pipeline stage names reported in TrainingStatus.Stage.
const (
	StageLoad    = "load"
	StageMine    = "mine"
	StageRules   = "rules"
	StagePublish = "publish"
)

// Observer receives run and request outcomes, typically to export metrics.
type Observer interface {
	RunCompleted(stats RunStats, duration time.Duration, err error)
	RecommendationServed(latency time.Duration, cacheHit bool, err error)
}

// Engine runs the mining pipeline and serves recommendations from the most
// recently published model. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	source    TransactionSource
	miner     Miner
	generator RuleGenerator
	matcher   Matcher

	listeners  []ModelListener
	observer   Observer
	registerMu sync.RWMutex

	// runMu serializes pipeline runs.
	runMu sync.Mutex

	modelMu sync.RWMutex
	model   *Model
	version int

	statusMu sync.RWMutex
	status   TrainingStatus

	requestCount  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	errorCount    atomic.Int64
	runCount      atomic.Int64
	failedRuns    atomic.Int64
	latencyMicros atomic.Int64
	lastRunMS     atomic.Int64

	cache *cache.LRU[*Response]
}

// NewEngine creates a rule engine. source may be nil when models are only
// restored with Load.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger, source TransactionSource, miner Miner, generator RuleGenerator, matcher Matcher) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if miner == nil || generator == nil || matcher == nil {
		return nil, errors.New("miner, rule generator and matcher are required")
	}

	e := &Engine{
		config:    cfg.Clone(),
		logger:    logger.With().Str("component", "recommend").Logger(),
		source:    source,
		miner:     miner,
		generator: generator,
		matcher:   matcher,
	}
	if cfg.Cache.Enabled {
		e.cache = cache.New[*Response](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return e, nil
}

// AddListener registers a listener called, in registration order, with each
// new model before it is published. A ModelCommitter is committed only after
// all listeners succeeded.
func (e *Engine) AddListener(l ModelListener) {
	e.registerMu.Lock()
	defer e.registerMu.Unlock()
	e.listeners = append(e.listeners, l)
}

// ContinueFrom makes the next run build version+1 at least. Used when an
// earlier process already stored models up to version.
func (e *Engine) ContinueFrom(version int) {
	e.modelMu.Lock()
	defer e.modelMu.Unlock()
	if version > e.version {
		e.version = version
	}
}

// SetObserver sets the run and request observer.
func (e *Engine) SetObserver(o Observer) {
	e.registerMu.Lock()
	defer e.registerMu.Unlock()
	e.observer = o
}

// Run loads transactions and executes mine, rules and publish in order.
//
// Each stage consumes the complete output of the previous one; the first
// failure stops the run and the previously published model stays current.
// Returns ErrMiningInProgress when another run is active.
func (e *Engine) Run(ctx context.Context) (*Model, error) {
	if !e.runMu.TryLock() {
		return nil, ErrMiningInProgress
	}
	defer e.runMu.Unlock()

	if e.source == nil {
		return nil, errors.New("transaction source not set")
	}

	runID := uuid.NewString()
	logger := e.logger.With().Str("run_id", runID).Logger()
	start := time.Now()

	e.updateStatus(func(s *TrainingStatus) {
		s.IsMining = true
		s.LastError = ""
	})
	logger.Info().
		Str("miner", e.miner.Name()).
		Float64("min_support", e.config.Mining.MinSupport).
		Float64("min_confidence", e.config.Rules.MinConfidence).
		Float64("min_lift", e.config.Rules.MinLift).
		Msg("starting mining run")

	runCtx, cancel := context.WithTimeout(ctx, e.config.Mining.Timeout)
	defer cancel()
	runCtx = logger.WithContext(runCtx)

	model, err := e.runPipeline(runCtx, runID, logger)
	duration := time.Since(start)
	e.finishRun(model, duration, err)

	if err != nil {
		logger.Error().Err(err).Int64("duration_ms", duration.Milliseconds()).Msg("mining run failed")
		return nil, err
	}

	logger.Info().
		Int("version", model.Version).
		Int("transactions", model.Stats.Transactions).
		Int("frequent_itemsets", model.Stats.FrequentItemsets).
		Int("rules", model.Stats.Rules).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("mining run complete")

	return model, nil
}

// runPipeline executes the stages, returning at the first error.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) runPipeline(ctx context.Context, runID string, logger zerolog.Logger) (*Model, error) {
	var stats RunStats
	pipelineStart := time.Now()

	e.setStage(StageLoad)
	stageStart := time.Now()
	store, err := e.source.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	stats.LoadMS = time.Since(stageStart).Milliseconds()
	stats.Transactions = store.Len()
	stats.DistinctItems = store.DistinctItems().Len()
	logger.Debug().
		Int("transactions", stats.Transactions).
		Int("distinct_items", stats.DistinctItems).
		Int64("duration_ms", stats.LoadMS).
		Msg("transactions loaded")

	e.setStage(StageMine)
	stageStart = time.Now()
	frequent, err := e.miner.Mine(ctx, store, e.config.Mining.MinSupport)
	if err != nil {
		return nil, fmt.Errorf("mine frequent itemsets: %w", err)
	}
	stats.MineMS = time.Since(stageStart).Milliseconds()
	stats.FrequentItemsets = frequent.Len()
	stats.LevelCounts = frequent.LevelCounts()
	if frequent.IsEmpty() {
		logger.Warn().
			Float64("min_support", e.config.Mining.MinSupport).
			Msg("no frequent itemsets found; lower mining.min_support to get rules")
	}

	e.setStage(StageRules)
	stageStart = time.Now()
	rules, err := e.generator.Generate(ctx, frequent, e.config.Rules.MinConfidence, e.config.Rules.MinLift)
	if err != nil {
		return nil, fmt.Errorf("generate rules: %w", err)
	}
	stats.RulesMS = time.Since(stageStart).Milliseconds()
	stats.Rules = len(rules)
	if len(rules) == 0 && !frequent.IsEmpty() {
		logger.Warn().
			Float64("min_confidence", e.config.Rules.MinConfidence).
			Float64("min_lift", e.config.Rules.MinLift).
			Msg("no association rules generated; adjust rules.min_confidence or rules.min_lift")
	}

	e.setStage(StagePublish)
	stats.TotalMS = time.Since(pipelineStart).Milliseconds()

	e.modelMu.RLock()
	version := e.version + 1
	e.modelMu.RUnlock()

	model := &Model{
		ID:       runID,
		Version:  version,
		BuiltAt:  time.Now().UTC(),
		Params:   e.config.Params(),
		Frequent: frequent,
		Rules:    rules,
		Stats:    stats,
	}

	if err := e.notifyListeners(ctx, model); err != nil {
		return nil, err
	}

	e.publish(model)
	return model, nil
}

// notifyListeners hands the model to every listener, then commits the
// staging ones. Any failure aborts what was staged so far.
func (e *Engine) notifyListeners(ctx context.Context, model *Model) error {
	var staged []ModelCommitter
	abort := func() {
		for _, c := range staged {
			c.AbortModel(context.WithoutCancel(ctx), model)
		}
	}

	for _, l := range e.getListeners() {
		if err := l.OnModel(ctx, model); err != nil {
			abort()
			return fmt.Errorf("model listener: %w", err)
		}
		if c, ok := l.(ModelCommitter); ok {
			staged = append(staged, c)
		}
	}

	for i, c := range staged {
		if err := c.CommitModel(ctx, model); err != nil {
			staged = staged[i:]
			abort()
			return fmt.Errorf("commit model: %w", err)
		}
	}
	return nil
}

// Load installs a previously built model, e.g. one restored from storage.
func (e *Engine) Load(model *Model) error {
	if model == nil || model.Frequent == nil {
		return fmt.Errorf("%w: model is incomplete", ErrInvalidInput)
	}
	e.publish(model)
	e.logger.Info().
		Str("model_id", model.ID).
		Int("version", model.Version).
		Int("rules", len(model.Rules)).
		Msg("loaded model")
	return nil
}

func (e *Engine) publish(model *Model) {
	e.modelMu.Lock()
	e.model = model
	if model.Version > e.version {
		e.version = model.Version
	}
	e.modelMu.Unlock()

	if e.cache != nil {
		e.cache.Clear()
	}

	e.updateStatus(func(s *TrainingStatus) {
		s.ModelID = model.ID
		s.ModelVersion = model.Version
		s.LastSuccessAt = model.BuiltAt
	})
}

func (e *Engine) finishRun(model *Model, duration time.Duration, err error) {
	e.runCount.Add(1)
	e.lastRunMS.Store(duration.Milliseconds())
	if err != nil {
		e.failedRuns.Add(1)
	}

	e.updateStatus(func(s *TrainingStatus) {
		s.IsMining = false
		s.Stage = ""
		s.LastRunAt = time.Now().UTC()
		s.LastRunDurationMS = duration.Milliseconds()
		if err != nil {
			s.LastError = err.Error()
		}
	})

	if o := e.getObserver(); o != nil {
		var stats RunStats
		if model != nil {
			stats = model.Stats
		}
		o.RunCompleted(stats, duration, err)
	}
}

// Model returns the published model, or nil before the first run.
func (e *Engine) Model() *Model {
	e.modelMu.RLock()
	defer e.modelMu.RUnlock()
	return e.model
}

// Suggestions returns every suggestion for items under the current model,
// ranked. Request limits do not apply.
func (e *Engine) Suggestions(items []string) ([]Recommendation, error) {
	model := e.Model()
	if model == nil {
		return nil, ErrNoModel
	}
	query, err := e.parseQuery(items)
	if err != nil {
		return nil, err
	}
	return e.matcher.Rank(query, model.Rules, 0), nil
}

// Match returns the exact suggestion set for items under the current model.
func (e *Engine) Match(items []string) (Itemset, error) {
	model := e.Model()
	if model == nil {
		return nil, ErrNoModel
	}
	query, err := e.parseQuery(items)
	if err != nil {
		return nil, err
	}
	return e.matcher.Match(query, model.Rules), nil
}

// Recommend returns ranked suggestions for the items in req.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(_ context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	resp, cacheHit, err := e.recommend(req, start)
	latency := time.Since(start)
	e.latencyMicros.Add(latency.Microseconds())
	if err != nil {
		e.errorCount.Add(1)
	}
	if o := e.getObserver(); o != nil {
		o.RecommendationServed(latency, cacheHit, err)
	}
	return resp, err
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(req Request, start time.Time) (*Response, bool, error) {
	model := e.Model()
	if model == nil {
		return nil, false, ErrNoModel
	}

	query, err := e.parseQuery(req.Items)
	if err != nil {
		return nil, false, err
	}

	req = e.prepareRequest(req)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int("query_items", query.Len()).
		Logger()

	key := cacheKey(model, query, req.Limit)
	if cached := e.checkCache(key); cached != nil {
		resp := *cached
		resp.Metadata.RequestID = req.RequestID
		resp.Metadata.CacheHit = true
		resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
		resp.Metadata.Timestamp = time.Now()
		logger.Debug().Msg("cache hit")
		return &resp, true, nil
	}

	ranked := e.matcher.Rank(query, model.Rules, 0)
	total := len(ranked)
	if len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}

	resp := &Response{
		Query: query,
		Items: ranked,
		Metadata: ResponseMetadata{
			RequestID:    req.RequestID,
			ModelID:      model.ID,
			ModelVersion: model.Version,
			BuiltAt:      model.BuiltAt,
			TotalMatches: total,
			LatencyMS:    time.Since(start).Milliseconds(),
			Timestamp:    time.Now(),
		},
	}
	if e.cache != nil {
		e.cache.Add(key, resp)
	}

	logger.Debug().
		Int("matches", total).
		Int("returned", len(ranked)).
		Msg("recommendation complete")

	return resp, false, nil
}

// parseQuery canonicalizes and bounds the query items.
func (e *Engine) parseQuery(items []string) (Itemset, error) {
	query := ItemsetOf(items...)
	if query.IsEmpty() {
		return nil, fmt.Errorf("%w: query must contain at least one item", ErrInvalidInput)
	}
	if query.Len() > e.config.Limits.MaxQueryItems {
		return nil, fmt.Errorf("%w: query has %d items, limit is %d", ErrInvalidInput, query.Len(), e.config.Limits.MaxQueryItems)
	}
	return query, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.Limit <= 0 {
		req.Limit = e.config.Limits.DefaultLimit
	}
	if req.Limit > e.config.Limits.MaxLimit {
		req.Limit = e.config.Limits.MaxLimit
	}
	return req
}

func cacheKey(model *Model, query Itemset, limit int) string {
	return model.ID + "|" + strconv.Itoa(limit) + "|" + query.Key()
}

func (e *Engine) checkCache(key string) *Response {
	if e.cache == nil {
		return nil
	}
	resp, ok := e.cache.Get(key)
	if !ok {
		e.cacheMisses.Add(1)
		return nil
	}
	e.cacheHits.Add(1)
	return resp
}

// Rules returns the current rules matching filter.
//
//nolint:gocritic // hugeParam: filter passed by value for immutability
func (e *Engine) Rules(filter RuleFilter) (RuleSet, error) {
	model := e.Model()
	if model == nil {
		return nil, ErrNoModel
	}
	return model.Rules.Filter(filter), nil
}

// FrequentItemsets returns the current frequent itemsets of at least minSize
// items in canonical order.
func (e *Engine) FrequentItemsets(minSize int) ([]FrequentItemset, error) {
	model := e.Model()
	if model == nil {
		return nil, ErrNoModel
	}
	entries := model.Frequent.Entries()
	out := entries[:0]
	for _, entry := range entries {
		if entry.Items.Len() >= minSize {
			out = append(out, entry)
		}
	}
	return out, nil
}

// Status returns a copy of the mining status.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}

// SetNextScheduledRun records when the refresh service will run next.
func (e *Engine) SetNextScheduledRun(t time.Time) {
	e.updateStatus(func(s *TrainingStatus) { s.NextScheduledRun = t })
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() Metrics {
	m := Metrics{
		RequestCount:      e.requestCount.Load(),
		CacheHits:         e.cacheHits.Load(),
		CacheMisses:       e.cacheMisses.Load(),
		ErrorCount:        e.errorCount.Load(),
		RunCount:          e.runCount.Load(),
		FailedRunCount:    e.failedRuns.Load(),
		LastRunDurationMS: e.lastRunMS.Load(),
	}
	if m.RequestCount > 0 {
		m.AverageLatencyMicros = e.latencyMicros.Load() / m.RequestCount
	}
	if model := e.Model(); model != nil {
		m.RuleCount = len(model.Rules)
		m.FrequentItemsetCount = model.Frequent.Len()
	}
	return m
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

func (e *Engine) setStage(stage string) {
	e.updateStatus(func(s *TrainingStatus) { s.Stage = stage })
}

func (e *Engine) updateStatus(fn func(*TrainingStatus)) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	fn(&e.status)
}

func (e *Engine) getListeners() []ModelListener {
	e.registerMu.RLock()
	defer e.registerMu.RUnlock()
	return append([]ModelListener(nil), e.listeners...)
}

func (e *Engine) getObserver() Observer {
	e.registerMu.RLock()
	defer e.registerMu.RUnlock()
	return e.observer
}
