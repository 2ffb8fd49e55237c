// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

// Package database provides DuckDB backed ingestion and export for the
// rule miner.
//
// # Overview
//
// DuckDB reads the ratings and movie metadata CSV files directly with
// read_csv, so ingestion is a single SQL statement rather than a hand
// written CSV parser, and writes results with COPY ... TO in CSV, Parquet or
// JSON.
//
// Files:
//   - database.go: connection lifecycle, pool sizing and context helpers
//   - ratings.go: RatingsSource, the recommend.TransactionSource for the movie data
//   - export.go: rule, itemset and recommendation exports and the Exporter listener
//   - errors.go: close helpers
//
// # Ingestion
//
// RatingsSource mirrors the reference movie pipeline:
//
//  1. Read the first data.row_limit rows of each file (0 reads everything)
//  2. Coerce ratings.movieId and movies.id to numbers, dropping rows that fail
//  3. Join ratings with movies on the movie id
//  4. Keep ratings strictly greater than data.like_threshold
//  5. Group liked titles per user, users ordered by id
//
// Each user becomes one transaction whose ID is the user id. Stats reports
// the row count that survives every step and is logged on each load.
//
// # Exports
//
//	n, err := db.ExportRules(ctx, model.Rules, "output/rules.parquet", database.FormatParquet)
//
// Itemsets are exported as VARCHAR[] columns. Exporter writes rules and
// frequent itemsets of every published model into export.directory.
//
// # Thread Safety
//
// DB is safe for concurrent use. Exports pin a single connection because
// their temporary tables are connection scoped.
package database
