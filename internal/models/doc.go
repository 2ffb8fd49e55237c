// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

/*
Package models defines the HTTP response envelope shared by all API endpoints.

Every endpoint answers with an APIResponse. Successful responses carry the
payload in Data; failed responses carry an APIError with a machine-readable
code. Metadata records when the response was generated, how long the engine
took and which model version answered.

Domain types (itemsets, rules, recommendations) live in package recommend and
are embedded in Data unchanged.
*/
package models
