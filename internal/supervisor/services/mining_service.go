// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerules/internal/recommend"
)

// MiningEngine is the part of recommend.Engine the mining service drives.
type MiningEngine interface {
	Run(ctx context.Context) (*recommend.Model, error)
	SetNextScheduledRun(t time.Time)
}

// MiningServiceConfig holds configuration for the mining service.
type MiningServiceConfig struct {
	// MineOnStartup runs the pipeline as soon as the service starts.
	MineOnStartup bool

	// RefreshInterval is how often to re-mine. Zero disables scheduled runs.
	RefreshInterval time.Duration
}

// MiningService wraps the rule engine for Suture supervision.
// It runs the mining pipeline on startup and then on a fixed interval.
type MiningService struct {
	engine MiningEngine
	config MiningServiceConfig
	logger zerolog.Logger
	name   string
}

// NewMiningService creates a new mining service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMiningService(engine MiningEngine, cfg MiningServiceConfig, logger zerolog.Logger) *MiningService {
	return &MiningService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "mining").Logger(),
		name:   "mining-service",
	}
}

// Serve implements the suture.Service interface.
//
// A failed run is logged and retried at the next tick; it does not make the
// service return, so the supervisor never restarts it for a bad dataset.
func (s *MiningService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("mine_on_startup", s.config.MineOnStartup).
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("mining service starting")

	if s.config.MineOnStartup {
		s.mine(ctx, "startup")
	}

	if s.config.RefreshInterval <= 0 {
		s.engine.SetNextScheduledRun(time.Time{})
		<-ctx.Done()
		s.logger.Info().Msg("mining service shutting down")
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()
	s.engine.SetNextScheduledRun(time.Now().Add(s.config.RefreshInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("mining service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.engine.SetNextScheduledRun(time.Now().Add(s.config.RefreshInterval))
			s.mine(ctx, "scheduled")
		}
	}
}

// mine performs one run. The engine bounds the run with its own timeout.
func (s *MiningService) mine(ctx context.Context, trigger string) {
	logger := s.logger.With().Str("trigger", trigger).Logger()

	start := time.Now()
	model, err := s.engine.Run(logger.WithContext(ctx))
	switch {
	case errors.Is(err, recommend.ErrMiningInProgress):
		logger.Debug().Msg("mining run skipped, another run is active")
	case err != nil:
		logger.Warn().Err(err).Msg("mining run failed, keeping previous model")
	default:
		logger.Info().
			Int("version", model.Version).
			Int("rules", len(model.Rules)).
			Dur("duration", time.Since(start)).
			Msg("mining run complete")
	}
}

// String returns the service name for logging.
func (s *MiningService) String() string {
	return s.name
}
