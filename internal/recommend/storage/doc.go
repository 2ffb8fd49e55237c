// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

// Package storage persists mined models in BadgerDB.
//
// A model snapshot (frequent itemsets, rules, parameters and run statistics)
// is JSON encoded, gzip compressed and written together with its metadata
// in a single Badger transaction. This lets the server restore the last
// model on restart instead of mining again, and lets operators inspect or
// roll back earlier versions.
//
// # Key Layout
//
//	model:v0000000007  -> gzip(JSON(recommend.Model))
//	meta:v0000000007   -> JSON(ModelMetadata)
//	model:latest       -> "7"
//
// Versions are zero padded so that prefix iteration returns them in order.
//
// # Integrity
//
// ModelMetadata carries a SHA-256 checksum of the compressed bytes. Load
// verifies it and returns ErrChecksumMismatch on corruption.
//
// # Usage Example
//
//	store, err := storage.Open("/data/models", false, 5)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	engine.AddListener(store) // save and prune after every run
//
//	model, meta, err := store.LoadLatest(ctx)
//	if errors.Is(err, storage.ErrModelNotFound) {
//	    // first start, mine instead
//	}
//
// # Retention
//
// Store.OnModel prunes to the configured number of versions after each save.
// Prune never removes the newest version.
package storage
