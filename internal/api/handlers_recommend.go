// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinerules/internal/middleware"
	"github.com/tomtom215/cinerules/internal/models"
	"github.com/tomtom215/cinerules/internal/recommend"
	"github.com/tomtom215/cinerules/internal/recommend/storage"
)

// MatchRequest is the body of POST /api/v1/recommendations/match.
type MatchRequest struct {
	Items []string `json:"items" validate:"required,min=1,dive,required"`
}

// MatchData is the payload of POST /api/v1/recommendations/match.
type MatchData struct {
	Query       recommend.Itemset `json:"query"`
	Suggestions recommend.Itemset `json:"suggestions"`
}

// ModelsData is the payload of GET /api/v1/models.
type ModelsData struct {
	StoreEnabled bool                    `json:"store_enabled"`
	Models       []storage.ModelMetadata `json:"models"`
}

// GetRecommendations handles GET /api/v1/recommendations?items=A&items=B&limit=N
// Titles may contain commas, so items are passed as repeated parameters.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	req := recommend.Request{
		RequestID: middleware.GetRequestID(r.Context()),
		Items:     q.Strings("items"),
		Limit:     q.Int("limit", 0),
	}
	if apiErr := q.Err(); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	h.recommend(w, r, req)
}

// PostRecommendations handles POST /api/v1/recommendations
// The body is a recommend.Request.
func (h *Handler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if req.RequestID == "" {
		req.RequestID = middleware.GetRequestID(r.Context())
	}
	h.recommend(w, r, req)
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, req recommend.Request) {
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), req)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if resp.Items == nil {
		resp.Items = []recommend.Recommendation{}
	}

	out := models.NewSuccessResponse(resp)
	out.Metadata.RequestID = resp.Metadata.RequestID
	out.Metadata.QueryTimeMS = resp.Metadata.LatencyMS
	out.Metadata.Cached = resp.Metadata.CacheHit
	out.Metadata.ModelVersion = resp.Metadata.ModelVersion
	respondJSON(w, http.StatusOK, out)
}

// MatchRecommendations handles POST /api/v1/recommendations/match
// Returns the unranked suggestion set: the consequents of every rule whose
// antecedent is contained in the query, minus the query itself.
func (h *Handler) MatchRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req MatchRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	suggestions, err := h.engine.Match(req.Items)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = recommend.Itemset{}
	}

	resp := models.NewSuccessResponse(MatchData{
		Query:       recommend.ItemsetOf(req.Items...),
		Suggestions: suggestions,
	})
	resp.Metadata.RequestID = middleware.GetRequestID(r.Context())
	resp.Metadata.QueryTimeMS = time.Since(start).Milliseconds()
	resp.Metadata.ModelVersion = modelVersion(h.engine.Model())
	respondJSON(w, http.StatusOK, resp)
}

// ListModels handles GET /api/v1/models
// Returns metadata of every persisted model version, oldest first.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		respondJSON(w, http.StatusOK, models.NewSuccessResponse(ModelsData{
			Models: []storage.ModelMetadata{},
		}))
		return
	}

	metas, err := h.catalog.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeStorage, "Failed to list models", err)
		return
	}
	if metas == nil {
		metas = []storage.ModelMetadata{}
	}

	respondJSON(w, http.StatusOK, models.NewSuccessResponse(ModelsData{
		StoreEnabled: true,
		Models:       metas,
	}))
}
