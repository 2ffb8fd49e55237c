// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package algorithms

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/tomtom215/cinerules/internal/recommend"
)

// combinations calls yield with every k-item subset of items in
// lexicographic order. items must be canonical, so every subset is too.
// Enumeration stops early when yield returns false.
func combinations(items recommend.Itemset, k int, yield func(recommend.Itemset) bool) {
	n := items.Len()
	if k <= 0 || k > n {
		return
	}

	gen := combin.NewCombinationGenerator(n, k)
	idx := make([]int, k)
	for gen.Next() {
		if !yield(pick(items, gen.Combination(idx))) {
			return
		}
	}
}

// allCombinations collects every k-item subset of items.
func allCombinations(items recommend.Itemset, k int) []recommend.Itemset {
	n := items.Len()
	if k <= 0 || k > n {
		return nil
	}

	idx := combin.Combinations(n, k)
	out := make([]recommend.Itemset, len(idx))
	for i, c := range idx {
		out[i] = pick(items, c)
	}
	return out
}

func pick(items recommend.Itemset, idx []int) recommend.Itemset {
	subset := make(recommend.Itemset, len(idx))
	for i, j := range idx {
		subset[i] = items[j]
	}
	return subset
}

// binomial returns n choose k, or math.MaxUint64 when the value is too
// large to compute exactly.
func binomial(n, k int) uint64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}

	// combin.Binomial overflows silently; its largest intermediate is
	// about k times the result, so screen with the log-gamma estimate.
	const exactLimit = 1 << 52
	if combin.GeneralizedBinomial(float64(n), float64(k))*float64(k+1) >= exactLimit {
		return math.MaxUint64
	}
	return uint64(combin.Binomial(n, k))
}
