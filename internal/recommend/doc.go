// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

// Package recommend implements association-rule recommendations over
// per-user "liked item" transactions.
//
// # Architecture
//
// A run flows through three stages, each owned by a pluggable component:
//
//   - Miner: level-wise frequent-itemset mining with exact support counting
//   - RuleGenerator: antecedent => consequent rules scored by confidence and lift
//   - Matcher: recommends the consequents of every rule whose antecedent is
//     contained in the query
//
// The Engine loads transactions from a TransactionSource, runs the stages in
// order and publishes an immutable Model. A failing stage aborts the run and
// the previously published model stays in place.
//
// # Determinism
//
// Itemsets are canonical sorted sets, so two runs over the same transactions
// with the same thresholds produce identical itemsets, supports and rule order.
// Empty results (no frequent itemsets, no rules, no suggestions) are values,
// not errors.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, logger, source,
//		algorithms.NewApriori(algorithms.AprioriConfig{}),
//		algorithms.NewRuleGenerator(algorithms.RuleGeneratorConfig{}),
//		algorithms.NewRuleMatcher())
//	if err != nil {
//		return err
//	}
//	model, err := engine.Run(ctx)
//	resp, err := engine.Recommend(ctx, recommend.Request{Items: []string{"Heat"}})
package recommend
