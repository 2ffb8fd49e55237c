// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Mining Metrics:
  - mining_runs_total: Pipeline runs (counter)
    Labels: status (success, failure, timeout, candidate_limit)
  - mining_run_duration_seconds: Whole run duration (histogram)
  - mining_stage_duration_seconds: Stage duration (histogram)
    Labels: stage (load, mine, rules)
  - mining_last_success_timestamp: Unix timestamp of last successful run (gauge)
  - mining_transactions, mining_distinct_items: Input size of the last run (gauge)
  - frequent_itemsets, association_rules: Size of the published model (gauge)

Apriori Metrics:
  - apriori_candidates_total: Candidates counted (counter)
    Labels: level
  - apriori_level_frequent_itemsets: Survivors of the last run (gauge)
    Labels: level
  - apriori_level_duration_seconds: Level duration (histogram)
    Labels: level

Recommendation Metrics:
  - recommendation_requests_total: Requests (counter)
    Labels: status (success, invalid, no_model, error)
  - recommendation_latency_seconds: Request latency (histogram)
  - recommendation_cache_hits_total, recommendation_cache_misses_total (counter)

Storage and Database Metrics:
  - model_version: Published model version (gauge)
  - model_store_operations_total: Labels: operation, status (counter)
  - db_query_duration_seconds: Labels: operation, table (histogram)
  - db_query_errors_total: Labels: operation, table, error_type (counter)
  - export_rows_total: Labels: dataset, format (counter)

HTTP Metrics:
  - api_requests_total: Labels: method, endpoint, status_code (counter)
  - api_request_duration_seconds: Labels: method, endpoint (histogram)
  - api_active_requests: In-flight requests (gauge)

# Usage

The engine reports through Observer:

	engine.SetObserver(metrics.NewObserver())

Apriori levels are reported through the miner callback:

	algorithms.AprioriConfig{
	    OnLevel: func(s algorithms.LevelStats) {
	        metrics.RecordLevel(s.Level, s.Candidates, s.Frequent, s.Duration)
	    },
	}

# Thread Safety

All functions are safe for concurrent use.
*/
package metrics
