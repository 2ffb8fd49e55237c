// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package algorithms

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinerules/internal/recommend"
)

// RuleGeneratorConfig contains parameters for rule generation.
type RuleGeneratorConfig struct {
	// Workers is the number of itemsets processed concurrently.
	// Zero uses GOMAXPROCS.
	Workers int
}

// RuleGenerator derives antecedent => consequent rules from frequent itemsets.
type RuleGenerator struct {
	BaseAlgorithm
	config RuleGeneratorConfig
}

// NewRuleGenerator creates a rule generator.
func NewRuleGenerator(cfg RuleGeneratorConfig) *RuleGenerator {
	return &RuleGenerator{
		BaseAlgorithm: NewBaseAlgorithm("association_rules"),
		config:        cfg,
	}
}

// Generate emits every rule with confidence >= minConfidence and lift >= minLift.
//
// Itemsets are visited in canonical order (size, then items) and, within an
// itemset, antecedents by increasing size and then lexicographically, so the
// returned order is reproducible. An empty or nil input yields an empty RuleSet.
func (g *RuleGenerator) Generate(ctx context.Context, frequent *recommend.FrequentItemsets, minConfidence, minLift float64) (recommend.RuleSet, error) {
	if err := recommend.ValidateConfidence(minConfidence); err != nil {
		return nil, err
	}
	if err := recommend.ValidateLift(minLift); err != nil {
		return nil, err
	}

	var sources []recommend.FrequentItemset
	for _, entry := range frequent.Entries() {
		if entry.Items.Len() >= 2 {
			sources = append(sources, entry)
		}
	}
	if len(sources) == 0 {
		return recommend.RuleSet{}, nil
	}

	perItemset := make([]recommend.RuleSet, len(sources))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(workerCount(g.config.Workers))
	for i, entry := range sources {
		eg.Go(func() error {
			if ContextCancelled(egctx) {
				return egctx.Err()
			}
			perItemset[i] = rulesFor(entry, frequent, minConfidence, minLift)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, rules := range perItemset {
		total += len(rules)
	}
	out := make(recommend.RuleSet, 0, total)
	for _, rules := range perItemset {
		out = append(out, rules...)
	}
	return out, nil
}

// rulesFor derives the rules of a single itemset.
//
//nolint:gocritic // hugeParam: entry passed by value, it is read-only
func rulesFor(entry recommend.FrequentItemset, frequent *recommend.FrequentItemsets, minConfidence, minLift float64) recommend.RuleSet {
	var rules recommend.RuleSet

	for size := 1; size < entry.Items.Len(); size++ {
		combinations(entry.Items, size, func(antecedent recommend.Itemset) bool {
			antecedentSupport, ok := frequent.Support(antecedent)
			if !ok || antecedentSupport == 0 {
				return true
			}

			consequent := entry.Items.Minus(antecedent)
			confidence := entry.Support / antecedentSupport

			lift := 0.0
			if consequentSupport, ok := frequent.Support(consequent); ok && consequentSupport > 0 {
				lift = confidence / consequentSupport
			}

			if confidence >= minConfidence && lift >= minLift {
				rules = append(rules, recommend.Rule{
					Antecedent: antecedent,
					Consequent: consequent,
					Support:    entry.Support,
					Confidence: confidence,
					Lift:       lift,
				})
			}
			return true
		})
	}

	return rules
}
