// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

// Package logging provides the zerolog-based structured logger used across
// cinerules.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int("rules", n).Msg("rules exported")
//	logging.Error().Err(err).Msg("mining run failed")
//
//	// Component loggers
//	logger := logging.WithComponent("api")
//
//	// Context-aware logging (request ID, run ID, correlation ID)
//	logging.Ctx(ctx).Info().Msg("serving recommendations")
//
// # Configuration
//
// Level, format, caller and timestamp are set from the logging section of
// the application config (LOG_LEVEL, LOG_FORMAT, LOG_CALLER).
//
// # Context Propagation
//
// Ctx looks for a logger stored with ContextWithLogger first, then for a
// logger attached with zerolog's Logger.WithContext, and falls back to the
// global logger. The mining engine attaches its run logger that way, so
// model listeners log with the run_id of the run that produced the model.
//
// # slog Bridge
//
// NewSlogLogger returns a *slog.Logger writing through zerolog. The
// supervisor tree hands it to sutureslog so restarts and failures land in
// the same log stream.
//
// Always terminate log chains with .Msg() or .Send().
package logging
