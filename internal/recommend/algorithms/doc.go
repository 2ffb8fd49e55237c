// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

// Package algorithms implements the three stages of the rule engine.
//
//   - Apriori: level-wise frequent-itemset mining with exact counting
//   - RuleGenerator: association rules scored by confidence and lift
//   - RuleMatcher: rule-based recommendation for a query itemset
//
// # Candidate Generation
//
// Level k draws its candidates from every k-combination of the items that
// appear in any frequent (k-1)-itemset. There is no join-and-prune step: the
// subset test during counting does the filtering, and the final result is the
// same as classical apriori-gen. MaxCandidates bounds the blow-up this causes
// at low support.
//
// # Concurrency
//
// Support counting splits the transaction collection into contiguous shards
// counted by separate goroutines and merged by summation. Rule generation
// processes itemsets in parallel and concatenates the per-itemset results in
// canonical itemset order. Neither changes the observable output.
//
// All stages are stateless after construction and safe for concurrent use.
package algorithms
