// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

/*
Package api provides the HTTP interface to the rule engine.

Routes (see SetupChi):

	GET  /health/live                      liveness probe
	GET  /health/ready                     503 until a model is published
	GET  /metrics                          Prometheus exposition
	GET  /api/v1/status                    mining status, counters, model summary
	POST /api/v1/mine                      start a mining run (202, or 409 while mining)
	GET  /api/v1/rules                     rules filtered by min_confidence, min_lift, item
	GET  /api/v1/itemsets                  frequent itemsets of at least min_size items
	GET  /api/v1/recommendations           ranked suggestions for repeated items=
	POST /api/v1/recommendations           ranked suggestions for a JSON request
	POST /api/v1/recommendations/match     unranked suggestion set
	GET  /api/v1/models                    persisted model versions

Every response uses the models.APIResponse envelope. Engine errors map to
status codes in respondEngineError: no model is 503, invalid input is 400 and
a concurrent run is 409.

The /api/v1 group is rate limited per client IP with go-chi/httprate and
instrumented by middleware.PrometheusMetrics, labelled by route pattern.
*/
package api
