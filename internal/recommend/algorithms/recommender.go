// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package algorithms

import (
	"cmp"
	"slices"

	"github.com/tomtom215/cinerules/internal/recommend"
)

// RuleMatcher recommends the consequents of every rule whose antecedent the
// query contains. It holds no state.
type RuleMatcher struct {
	BaseAlgorithm
}

// NewRuleMatcher creates a rule matcher.
func NewRuleMatcher() *RuleMatcher {
	return &RuleMatcher{BaseAlgorithm: NewBaseAlgorithm("rule_matcher")}
}

// Match returns the union of consequents of all rules that apply to query,
// minus the query itself. The result is empty, never nil, when no rule applies.
func (m *RuleMatcher) Match(query recommend.Itemset, rules recommend.RuleSet) recommend.Itemset {
	var suggested []recommend.Item
	for _, rule := range rules {
		if rule.Applies(query) {
			suggested = append(suggested, rule.Consequent...)
		}
	}
	return recommend.NewItemset(suggested...).Minus(query)
}

// Rank scores the items Match would return by their strongest rule and
// orders them best first: higher confidence, then lift, then support, then
// item. A positive limit truncates the list.
func (m *RuleMatcher) Rank(query recommend.Itemset, rules recommend.RuleSet, limit int) []recommend.Recommendation {
	best := make(map[recommend.Item]*recommend.Recommendation)

	for _, rule := range rules {
		if !rule.Applies(query) {
			continue
		}
		for _, item := range rule.Consequent {
			if query.Contains(item) {
				continue
			}
			rec, ok := best[item]
			if !ok {
				rec = &recommend.Recommendation{Item: item}
				best[item] = rec
			}
			rec.Rules++
			if rec.Rules == 1 || stronger(rule, rec) {
				rec.Confidence = rule.Confidence
				rec.Lift = rule.Lift
				rec.Support = rule.Support
				rec.Because = rule.Antecedent
			}
		}
	}

	out := make([]recommend.Recommendation, 0, len(best))
	for _, rec := range best {
		out = append(out, *rec)
	}
	slices.SortFunc(out, compareRecommendations)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// stronger reports whether rule beats the rule currently recorded on rec.
// Ties keep the rule seen first.
func stronger(rule recommend.Rule, rec *recommend.Recommendation) bool {
	if rule.Confidence != rec.Confidence {
		return rule.Confidence > rec.Confidence
	}
	if rule.Lift != rec.Lift {
		return rule.Lift > rec.Lift
	}
	return rule.Support > rec.Support
}

func compareRecommendations(a, b recommend.Recommendation) int {
	if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Lift, a.Lift); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Support, a.Support); c != 0 {
		return c
	}
	return cmp.Compare(a.Item, b.Item)
}
