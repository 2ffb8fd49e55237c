// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes returned in APIError.Code.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeModelUnavailable = "MODEL_UNAVAILABLE"
	ErrCodeMiningInProgress = "MINING_IN_PROGRESS"
	ErrCodeStorage          = "STORAGE_ERROR"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"rules": [...], "pagination": {"limit": 50, "returned": 12, "total": 12}},
//	  "metadata": {
//	    "timestamp": "2026-03-01T12:00:00Z",
//	    "query_time_ms": 1,
//	    "model_version": 3
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "MODEL_UNAVAILABLE",
//	    "message": "no model available"
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Cached is set when a recommendation was served from the engine cache.
// ModelVersion is the version of the model that answered, zero when the
// request did not read a model.
type Metadata struct {
	Timestamp    time.Time `json:"timestamp"`
	RequestID    string    `json:"request_id,omitempty"`
	QueryTimeMS  int64     `json:"query_time_ms,omitempty"`
	Cached       bool      `json:"cached,omitempty"`
	ModelVersion int       `json:"model_version,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - MODEL_UNAVAILABLE: No model has been mined or restored yet
//   - MINING_IN_PROGRESS: A mining run is already active
//   - STORAGE_ERROR: The model store failed
//
// Example:
//
//	{
//	  "code": "VALIDATION_ERROR",
//	  "message": "Validation failed",
//	  "details": {"min_confidence": "min_confidence must be less than or equal to 1"}
//	}
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo describes a truncated list.
//
// Total is the number of entries matching the filter before Limit was
// applied; HasMore reports Returned < Total.
type PaginationInfo struct {
	Limit    int  `json:"limit"`
	Returned int  `json:"returned"`
	Total    int  `json:"total"`
	HasMore  bool `json:"has_more"`
}

// NewPagination builds pagination info for returned of total entries.
func NewPagination(limit, returned, total int) PaginationInfo {
	return PaginationInfo{
		Limit:    limit,
		Returned: returned,
		Total:    total,
		HasMore:  returned < total,
	}
}

// NewSuccessResponse wraps data in a success envelope stamped with the current time.
func NewSuccessResponse(data interface{}) *APIResponse {
	return &APIResponse{
		Status:   StatusSuccess,
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now()},
	}
}

// NewErrorResponse builds an error envelope.
func NewErrorResponse(code, message string, details map[string]interface{}) *APIResponse {
	return &APIResponse{
		Status:   StatusError,
		Metadata: Metadata{Timestamp: time.Now()},
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
