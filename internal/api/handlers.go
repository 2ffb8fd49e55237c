// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package api

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/cinerules/internal/recommend"
	"github.com/tomtom215/cinerules/internal/recommend/storage"
)

// Listing limits for rules and itemsets.
const (
	defaultListLimit = 100
	maxListLimit     = 10000
)

// ModelCatalog lists persisted model versions.
type ModelCatalog interface {
	List(ctx context.Context) ([]storage.ModelMetadata, error)
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response writers and parameter parsing
//   - handlers_health.go: liveness and readiness probes
//   - handlers_mining.go: mining status and manual runs
//   - handlers_rules.go: rule and frequent itemset listings
//   - handlers_recommend.go: recommendations and stored models
type Handler struct {
	engine    *recommend.Engine
	catalog   ModelCatalog
	startTime time.Time

	// runs tracks mining runs started by TriggerMining.
	runs sync.WaitGroup
}

// NewHandler creates a new API handler. catalog may be nil when the model
// store is disabled.
func NewHandler(engine *recommend.Engine, catalog ModelCatalog) *Handler {
	return &Handler{
		engine:    engine,
		catalog:   catalog,
		startTime: time.Now(),
	}
}

// Wait blocks until every mining run started over HTTP has finished.
func (h *Handler) Wait() {
	h.runs.Wait()
}
