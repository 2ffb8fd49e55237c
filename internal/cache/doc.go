// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

// Package cache provides a generic in-memory LRU cache with TTL expiry.
// The rule engine uses it to memoize recommendation responses per model.
package cache
