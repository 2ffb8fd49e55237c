// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerules/internal/logging"
	"github.com/tomtom215/cinerules/internal/models"
	"github.com/tomtom215/cinerules/internal/recommend"
	"github.com/tomtom215/cinerules/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
// Model-backed responses change on every mining run, so they are not cached
// by intermediaries; the ETag still lets clients revalidate.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	respondErrorDetails(w, status, code, message, nil, err)
}

func respondErrorDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}
	respondJSON(w, status, models.NewErrorResponse(code, message, details))
}

// respondEngineError maps engine sentinel errors to HTTP statuses.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrNoModel):
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeModelUnavailable,
			"No model available; run mining first", nil)
	case errors.Is(err, recommend.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
	case errors.Is(err, recommend.ErrMiningInProgress):
		respondError(w, http.StatusConflict, models.ErrCodeMiningInProgress, "Mining is already in progress", nil)
	default:
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Internal server error", err)
	}
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// respondValidation sends a 400 built from a validation error.
func respondValidation(w http.ResponseWriter, apiErr *models.APIError) {
	respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
}

// queryParams accumulates parse errors of numeric query parameters so a
// handler can report all of them at once.
type queryParams struct {
	r      *http.Request
	errors map[string]interface{}
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{r: r}
}

// Int parses key as an integer, returning def when it is absent.
func (q *queryParams) Int(key string, def int) int {
	value := strings.TrimSpace(q.r.URL.Query().Get(key))
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		q.fail(key, "must be an integer")
		return def
	}
	return n
}

// Float parses key as a float, returning def when it is absent.
func (q *queryParams) Float(key string, def float64) float64 {
	value := strings.TrimSpace(q.r.URL.Query().Get(key))
	if value == "" {
		return def
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		q.fail(key, "must be a number")
		return def
	}
	return f
}

// String returns the trimmed value of key.
func (q *queryParams) String(key string) string {
	return strings.TrimSpace(q.r.URL.Query().Get(key))
}

// Strings returns every non-empty value of a repeated key.
func (q *queryParams) Strings(key string) []string {
	var out []string
	for _, v := range q.r.URL.Query()[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (q *queryParams) fail(key, msg string) {
	if q.errors == nil {
		q.errors = make(map[string]interface{})
	}
	q.errors[key] = key + " " + msg
}

// Err returns a VALIDATION_ERROR describing every bad parameter, or nil.
func (q *queryParams) Err() *models.APIError {
	if len(q.errors) == 0 {
		return nil
	}
	return &models.APIError{
		Code:    models.ErrCodeValidation,
		Message: "Invalid query parameters",
		Details: q.errors,
	}
}

// decodeJSONBody decodes a bounded JSON body into v, rejecting unknown fields.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// clampLimit applies def to non-positive limits and caps them at max.
func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
