// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package recommend

import "errors"

var (
	// ErrInvalidInput reports an empty transaction collection or a threshold
	// outside its allowed range. It is always wrapped with the offending value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCandidateLimit reports a mining level whose candidate count exceeded
	// the configured ceiling.
	ErrCandidateLimit = errors.New("candidate limit exceeded")

	// ErrNoModel is returned when recommendations are requested before the
	// first successful run.
	ErrNoModel = errors.New("no model available")

	// ErrMiningInProgress is returned when a run is requested while another is active.
	ErrMiningInProgress = errors.New("mining already in progress")
)
