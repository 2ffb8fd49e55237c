// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

/*
Package config loads cinerules configuration with Koanf v2.

# Configuration Sources

Load applies four layers, later layers winning:

 1. Built-in defaults (the reference MovieLens run: min_support 0.1,
    min_confidence 0.5, min_lift 0.01, likes are ratings above 3, first
    3000 rows of each CSV)
 2. A YAML file: the explicit path, else CONFIG_PATH, else ./config.yaml or
    /etc/cinerules/config.yaml
 3. Environment variables (see below)
 4. Programmatic overrides keyed by koanf path, used by command line flags

# Sections

	data       ratings/movies CSV paths, like threshold, row limit
	database   DuckDB path, memory limit, threads
	mining     min_support, max_itemset_size, max_candidates, workers, timeout
	rules      min_confidence, min_lift
	recommend  default/max result limits, query size, response cache
	store      BadgerDB model snapshots (path, in-memory, retention)
	server     HTTP listen address, timeouts, CORS, rate limiting
	schedule   mine_on_startup, refresh_interval
	export     rule export directory and format (csv, parquet, json)
	logging    level, format, caller

# Environment Variables

Only mapped variables are read; anything else in the environment is ignored.

	RATINGS_PATH, MOVIES_PATH, LIKE_THRESHOLD, ROW_LIMIT
	DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
	MIN_SUPPORT, MAX_ITEMSET_SIZE, MAX_CANDIDATES, MINING_WORKERS, MINING_TIMEOUT
	MIN_CONFIDENCE, MIN_LIFT
	RECOMMEND_DEFAULT_LIMIT, RECOMMEND_MAX_LIMIT, RECOMMEND_MAX_QUERY_ITEMS
	RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_SIZE
	MODEL_STORE_ENABLED, MODEL_STORE_PATH, MODEL_STORE_IN_MEMORY, MODEL_STORE_RETAIN
	HTTP_HOST, HTTP_PORT, HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
	CORS_ORIGINS (comma separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
	MINE_ON_STARTUP, REFRESH_INTERVAL
	EXPORT_ENABLED, EXPORT_DIR, EXPORT_FORMAT
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Struct tags are checked through the validation package, so errors name the
koanf path ("mining.min_support must be greater than 0"). Rules spanning
several fields (store path, export directory, rate limit, cache) are
checked afterwards.
*/
package config
