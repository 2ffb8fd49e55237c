// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinerules/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK as long as the process can serve HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}))
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only once a model is published; 503 before that.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	model := h.engine.Model()
	status := h.engine.Status()

	data := map[string]interface{}{
		"model_loaded":   model != nil,
		"mining":         status.IsMining,
		"ready_to_serve": model != nil,
		"uptime":         time.Since(h.startTime).Seconds(),
	}
	if model != nil {
		data["model_version"] = model.Version
		data["model_built_at"] = model.BuiltAt
	}

	resp := models.NewSuccessResponse(data)
	statusCode := http.StatusOK
	if model == nil {
		resp.Status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}
	respondJSON(w, statusCode, resp)
}
