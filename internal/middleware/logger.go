// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerules/internal/logging"
)

// DefaultSlowRequestThreshold is used when RequestLogger gets a zero threshold.
const DefaultSlowRequestThreshold = time.Second

// RequestLogger attaches a request scoped logger to the context and logs
// every completed request. Requests slower than slow are logged at warn level.
// It must run after RequestID.
func RequestLogger(slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequestThreshold
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			base := logging.LoggerFromContext(r.Context()).With().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()
			ctx := logging.ContextWithLogger(r.Context(), base)

			wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r.WithContext(ctx))

			duration := time.Since(start)
			event := requestEvent(logging.Ctx(ctx), wrapper.statusCode, duration, slow)
			event.
				Int("status", wrapper.statusCode).
				Str("route", routePattern(r)).
				Int64("duration_ms", duration.Milliseconds()).
				Str("remote_addr", r.RemoteAddr).
				Msg("request completed")
		})
	}
}

func requestEvent(logger *zerolog.Logger, status int, duration, slow time.Duration) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return logger.Error()
	case duration > slow:
		return logger.Warn().Bool("slow", true)
	default:
		return logger.Debug()
	}
}
