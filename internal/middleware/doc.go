// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

/*
Package middleware provides HTTP middleware for the recommendation API.

All middleware use the func(http.Handler) http.Handler shape so they plug
straight into a chi router:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(time.Second))
	r.Use(middleware.PrometheusMetrics)

# Request IDs

RequestID keeps an X-Request-ID set by an upstream proxy or generates a UUID,
echoes it in the response and stores it, together with a new correlation ID,
in the logging context.

# Logging

RequestLogger stores a request scoped zerolog logger in the context, so
handlers call logging.Ctx(r.Context()) and get request_id and correlation_id
for free. Completed requests are logged at debug level, slow requests at
warn and server errors at error level.

# Metrics

PrometheusMetrics records api_requests_total, api_request_duration_seconds
and api_active_requests. Endpoints are labeled with the chi route pattern
(/api/v1/rules, not /api/v1/rules?limit=5) so label cardinality stays
bounded; requests that match no route share the "unmatched" label.
*/
package middleware
