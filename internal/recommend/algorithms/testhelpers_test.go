// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package algorithms

import (
	"math/rand/v2"
	"testing"

	"github.com/tomtom215/cinerules/internal/recommend"
)

func set(items ...string) recommend.Itemset {
	return recommend.ItemsetOf(items...)
}

func storeOf(sets ...recommend.Itemset) *recommend.TransactionStore {
	return recommend.StoreFromItemsets(sets...)
}

// syntheticStore builds a reproducible collection over a small alphabet so
// brute-force recounts stay cheap. Item "a" is the most popular.
func syntheticStore(seed uint64, transactions int, alphabet string) *recommend.TransactionStore {
	rng := rand.New(rand.NewPCG(seed, seed*31+7))
	sets := make([]recommend.Itemset, transactions)
	for i := range sets {
		var items []string
		for j, r := range alphabet {
			// earlier letters are liked more often
			if rng.Float64() < 0.8-float64(j)*0.1 {
				items = append(items, string(r))
			}
		}
		sets[i] = set(items...)
	}
	return storeOf(sets...)
}

// bruteForceSupport recounts support without any candidate logic.
func bruteForceSupport(store *recommend.TransactionStore, items recommend.Itemset) float64 {
	count := 0
	for _, tx := range store.Transactions() {
		if items.IsSubsetOf(tx.Items) {
			count++
		}
	}
	return float64(count) / float64(store.Len())
}

// powerSet returns every non-empty subset of items.
func powerSet(items recommend.Itemset) []recommend.Itemset {
	var out []recommend.Itemset
	for mask := 1; mask < 1<<items.Len(); mask++ {
		var subset []recommend.Item
		for i, item := range items {
			if mask&(1<<i) != 0 {
				subset = append(subset, item)
			}
		}
		out = append(out, recommend.NewItemset(subset...))
	}
	return out
}

func mustFrequent(t *testing.T, total int, counts map[string]int) *recommend.FrequentItemsets {
	t.Helper()
	fi := recommend.NewFrequentItemsets(total)
	for key, count := range counts {
		var items []string
		for _, r := range key {
			items = append(items, string(r))
		}
		if _, err := fi.Add(set(items...), count); err != nil {
			t.Fatalf("Add(%q, %d) error = %v", key, count, err)
		}
	}
	return fi
}

const floatTolerance = 1e-12

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= floatTolerance
}
