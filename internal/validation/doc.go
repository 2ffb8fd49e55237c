// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process wide; it caches struct
// metadata and is safe for concurrent use. Field names in errors are taken
// from koanf tags (configuration) or json tags (API bodies), so messages
// point at the key the user actually wrote:
//
//	mining.min_support must be less than or equal to 1
//	items must be at least 1 items
//
// Example:
//
//	var req recommend.Request
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
