// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cinerules/internal/logging"
	"github.com/tomtom215/cinerules/internal/models"
	"github.com/tomtom215/cinerules/internal/recommend"
)

// modelSummary is the model description embedded in status responses.
type modelSummary struct {
	ID      string             `json:"id"`
	Version int                `json:"version"`
	BuiltAt time.Time          `json:"built_at"`
	Params  recommend.Params   `json:"params"`
	Stats   recommend.RunStats `json:"stats"`
}

func summarize(model *recommend.Model) *modelSummary {
	if model == nil {
		return nil
	}
	return &modelSummary{
		ID:      model.ID,
		Version: model.Version,
		BuiltAt: model.BuiltAt,
		Params:  model.Params,
		Stats:   model.Stats,
	}
}

// GetStatus handles GET /api/v1/status
// Returns mining status, engine counters and the published model summary.
func (h *Handler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	resp := models.NewSuccessResponse(map[string]interface{}{
		"mining":  h.engine.Status(),
		"metrics": h.engine.Metrics(),
		"model":   summarize(h.engine.Model()),
		"uptime":  time.Since(h.startTime).Seconds(),
	})
	respondJSON(w, http.StatusOK, resp)
}

// TriggerMining handles POST /api/v1/mine
// Starts a mining run in the background and returns 202, or 409 when a run
// is already active.
func (h *Handler) TriggerMining(w http.ResponseWriter, r *http.Request) {
	if h.engine.Status().IsMining {
		respondError(w, http.StatusConflict, models.ErrCodeMiningInProgress, "Mining is already in progress", nil)
		return
	}

	// The run outlives the request but keeps its logging context.
	ctx := context.WithoutCancel(r.Context())

	h.runs.Add(1)
	go func() {
		defer h.runs.Done()

		logger := logging.Ctx(ctx)
		model, err := h.engine.Run(ctx)
		switch {
		case errors.Is(err, recommend.ErrMiningInProgress):
			logger.Warn().Msg("manual mining run skipped, another run is active")
		case err != nil:
			logger.Error().Err(err).Msg("manual mining run failed")
		default:
			logger.Info().Int("version", model.Version).Msg("manual mining run completed")
		}
	}()

	respondJSON(w, http.StatusAccepted, models.NewSuccessResponse(map[string]string{
		"message": "Mining started",
	}))
}
