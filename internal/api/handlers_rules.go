// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinerules/internal/models"
	"github.com/tomtom215/cinerules/internal/recommend"
)

// RulesData is the payload of GET /api/v1/rules.
type RulesData struct {
	Rules      recommend.RuleSet     `json:"rules"`
	Pagination models.PaginationInfo `json:"pagination"`
}

// ItemsetsData is the payload of GET /api/v1/itemsets.
type ItemsetsData struct {
	Itemsets   []recommend.FrequentItemset `json:"itemsets"`
	Pagination models.PaginationInfo       `json:"pagination"`
}

// itemsetsQuery holds the validated parameters of GET /api/v1/itemsets.
type itemsetsQuery struct {
	MinSize int `json:"min_size" validate:"gte=1"`
	Limit   int `json:"limit" validate:"gte=0"`
}

// ListRules handles GET /api/v1/rules
//
// Query parameters: min_confidence, min_lift, item, limit.
// Rules keep their generation order.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := newQueryParams(r)
	filter := recommend.RuleFilter{
		MinConfidence: q.Float("min_confidence", 0),
		MinLift:       q.Float("min_lift", 0),
		Item:          recommend.Item(q.String("item")),
		Limit:         q.Int("limit", defaultListLimit),
	}
	if apiErr := q.Err(); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	if apiErr := validateRequest(&filter); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	limit := clampLimit(filter.Limit, defaultListLimit, maxListLimit)
	filter.Limit = 0

	rules, err := h.engine.Rules(filter)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	total := len(rules)
	if total > limit {
		rules = rules[:limit]
	}

	resp := models.NewSuccessResponse(RulesData{
		Rules:      rules,
		Pagination: models.NewPagination(limit, len(rules), total),
	})
	resp.Metadata.QueryTimeMS = time.Since(start).Milliseconds()
	resp.Metadata.ModelVersion = modelVersion(h.engine.Model())
	respondJSON(w, http.StatusOK, resp)
}

// ListItemsets handles GET /api/v1/itemsets
//
// Query parameters: min_size (default 1), limit.
// Itemsets are in canonical order: size, then items.
func (h *Handler) ListItemsets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := newQueryParams(r)
	params := itemsetsQuery{
		MinSize: q.Int("min_size", 1),
		Limit:   q.Int("limit", defaultListLimit),
	}
	if apiErr := q.Err(); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	itemsets, err := h.engine.FrequentItemsets(params.MinSize)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	limit := clampLimit(params.Limit, defaultListLimit, maxListLimit)
	total := len(itemsets)
	if total > limit {
		itemsets = itemsets[:limit]
	}
	if itemsets == nil {
		itemsets = []recommend.FrequentItemset{}
	}

	resp := models.NewSuccessResponse(ItemsetsData{
		Itemsets:   itemsets,
		Pagination: models.NewPagination(limit, len(itemsets), total),
	})
	resp.Metadata.QueryTimeMS = time.Since(start).Milliseconds()
	resp.Metadata.ModelVersion = modelVersion(h.engine.Model())
	respondJSON(w, http.StatusOK, resp)
}

func modelVersion(model *recommend.Model) int {
	if model == nil {
		return 0
	}
	return model.Version
}
