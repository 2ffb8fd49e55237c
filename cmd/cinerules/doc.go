// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

// Command cinerules mines association rules from movie ratings and serves
// rule-based recommendations.
//
// # Commands
//
//	cinerules mine        run the pipeline once and print the example user's suggestions
//	cinerules recommend   suggest titles for the titles given as arguments
//	cinerules serve       run the HTTP API under a supervisor tree
//	cinerules version     print build information
//
// # Pipeline
//
//  1. ETL: DuckDB reads the first data.row_limit rows of the ratings and
//     movie metadata CSVs, drops non numeric movie ids, joins on the movie id
//     and keeps ratings above data.like_threshold
//  2. Mining: Apriori finds every itemset with support >= mining.min_support
//  3. Rules: every split of a frequent itemset is scored and kept when
//     confidence >= rules.min_confidence and lift >= rules.min_lift
//  4. Publish: the model is saved to the BadgerDB store (store.enabled) and
//     exported (export.enabled) before it becomes current
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Command line flags
//   - Environment variables (MIN_SUPPORT, RATINGS_PATH, HTTP_PORT, ...)
//   - Config file (--config, CONFIG_PATH or ./config.yaml)
//   - Built-in defaults
//
// # Example Usage
//
// Reproduce the reference run and export the rules as Parquet:
//
//	cinerules mine --export output --format parquet
//
// Ask for suggestions without re-mining (uses the latest stored model):
//
//	cinerules recommend "Pulp Fiction" "Forrest Gump"
//
// Serve the API and re-mine every hour:
//
//	REFRESH_INTERVAL=1h cinerules serve --port 8080
//
// # Signal Handling
//
// serve shuts down gracefully on SIGINT and SIGTERM: the HTTP server stops
// accepting connections, in-flight requests finish within
// server.shutdown_timeout and a running mining pass is cancelled.
package main
