// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerules/internal/config"
	"github.com/tomtom215/cinerules/internal/database"
	"github.com/tomtom215/cinerules/internal/logging"
	"github.com/tomtom215/cinerules/internal/metrics"
	"github.com/tomtom215/cinerules/internal/recommend"
	"github.com/tomtom215/cinerules/internal/recommend/algorithms"
	"github.com/tomtom215/cinerules/internal/recommend/storage"
)

// app holds the components shared by the mine, recommend and serve commands.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	db       *database.DB
	source   *database.RatingsSource
	engine   *recommend.Engine
	store    *storage.Store     // nil when store.enabled is false
	exporter *database.Exporter // nil when export.enabled is false
}

// newApp opens DuckDB and the model store and wires the engine. Listeners run
// in order store, exporter; a failing listener fails the run.
func newApp(cfg *config.Config) (a *app, err error) {
	a = &app{
		cfg:    cfg,
		logger: logging.Logger(),
	}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	a.db, err = database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.source = database.NewRatingsSource(a.db, cfg.Data)

	miner := algorithms.NewApriori(algorithms.AprioriConfig{
		MaxItemsetSize: cfg.Mining.MaxItemsetSize,
		MaxCandidates:  cfg.Mining.MaxCandidates,
		Workers:        cfg.Mining.Workers,
		OnLevel: func(s algorithms.LevelStats) {
			metrics.RecordLevel(s.Level, s.Candidates, s.Frequent, s.Duration)
		},
	})
	generator := algorithms.NewRuleGenerator(algorithms.RuleGeneratorConfig{
		Workers: cfg.Mining.Workers,
	})

	a.engine, err = recommend.NewEngine(cfg.EngineConfig(), a.logger, a.source, miner, generator, algorithms.NewRuleMatcher())
	if err != nil {
		return nil, fmt.Errorf("failed to create rule engine: %w", err)
	}
	a.engine.SetObserver(metrics.NewObserver())

	if cfg.Store.Enabled {
		a.store, err = storage.Open(cfg.Store.Path, cfg.Store.InMemory, cfg.Store.RetainVersions)
		if err != nil {
			return nil, err
		}
		var latest int
		latest, _, err = a.store.LatestVersion()
		if err != nil {
			return nil, fmt.Errorf("failed to read model store: %w", err)
		}
		a.engine.ContinueFrom(latest)
		a.engine.AddListener(a.store)
	}

	if cfg.Export.Enabled {
		var format database.ExportFormat
		format, err = database.ParseExportFormat(cfg.Export.Format)
		if err != nil {
			return nil, err
		}
		a.exporter = database.NewExporter(a.db, cfg.Export.Directory, format)
		a.engine.AddListener(a.exporter)
	}

	a.logger.Info().
		Str("ratings", cfg.Data.RatingsPath).
		Str("movies", cfg.Data.MoviesPath).
		Float64("min_support", cfg.Mining.MinSupport).
		Float64("min_confidence", cfg.Rules.MinConfidence).
		Float64("min_lift", cfg.Rules.MinLift).
		Bool("store", a.store != nil).
		Bool("export", a.exporter != nil).
		Msg("Configuration loaded")

	return a, nil
}

// restoreLatest installs the newest stored model. It reports false when the
// store is disabled or empty.
func (a *app) restoreLatest(ctx context.Context) (bool, error) {
	if a.store == nil {
		return false, nil
	}

	model, meta, err := a.store.LoadLatest(ctx)
	if errors.Is(err, storage.ErrModelNotFound) {
		return false, nil
	}
	metrics.RecordModelStore("load", err)
	if err != nil {
		return false, fmt.Errorf("failed to restore model: %w", err)
	}

	if err := a.engine.Load(model); err != nil {
		return false, err
	}
	metrics.RecordModelPublished(model)

	a.logger.Info().
		Int("version", meta.Version).
		Time("built_at", meta.BuiltAt).
		Int("rules", meta.Rules).
		Msg("Model restored from store")
	return true, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Error closing model store")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Error closing database")
		}
	}
}
