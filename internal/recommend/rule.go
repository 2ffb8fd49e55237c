// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package recommend

import "fmt"

// Rule is a directional association Antecedent => Consequent.
//
// Antecedent and Consequent are disjoint and their union is a frequent itemset.
type Rule struct {
	// Antecedent is the left-hand side, the items a user already likes.
	Antecedent Itemset `json:"antecedent"`

	// Consequent is the right-hand side, the items the rule suggests.
	Consequent Itemset `json:"consequent"`

	// Support is the support of Antecedent ∪ Consequent.
	Support float64 `json:"support"`

	// Confidence is Support divided by the antecedent's support.
	Confidence float64 `json:"confidence"`

	// Lift is Confidence divided by the consequent's support,
	// or 0 when the consequent's support is unknown.
	Lift float64 `json:"lift"`
}

// String renders the rule as {A} => {B}.
func (r Rule) String() string {
	return fmt.Sprintf("%s => %s", r.Antecedent, r.Consequent)
}

// Itemset returns the union the rule was derived from.
func (r Rule) Itemset() Itemset {
	return r.Antecedent.Union(r.Consequent)
}

// Applies reports whether the rule fires for a user who likes query.
func (r Rule) Applies(query Itemset) bool {
	return r.Antecedent.IsSubsetOf(query)
}

// RuleSet is an ordered sequence of rules. Its order is the generation order
// and is reproducible for identical input.
type RuleSet []Rule

// RuleFilter narrows a RuleSet for listing and export.
type RuleFilter struct {
	// MinConfidence drops rules below this confidence.
	MinConfidence float64 `json:"min_confidence,omitempty" validate:"gte=0,lte=1"`

	// MinLift drops rules below this lift.
	MinLift float64 `json:"min_lift,omitempty" validate:"gte=0"`

	// Item keeps only rules mentioning this item on either side.
	Item Item `json:"item,omitempty"`

	// Limit caps the result size. Zero means no limit.
	Limit int `json:"limit,omitempty" validate:"gte=0"`
}

// Filter returns the rules matching f, preserving order.
//
//nolint:gocritic // hugeParam: filter passed by value for immutability
func (rs RuleSet) Filter(f RuleFilter) RuleSet {
	out := make(RuleSet, 0, len(rs))
	for _, r := range rs {
		if r.Confidence < f.MinConfidence || r.Lift < f.MinLift {
			continue
		}
		if f.Item != "" && !r.Antecedent.Contains(f.Item) && !r.Consequent.Contains(f.Item) {
			continue
		}
		out = append(out, r)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// Recommendation is a suggested item together with the strongest rule behind it.
type Recommendation struct {
	// Item is the suggested item. It is never part of the query.
	Item Item `json:"item"`

	// Confidence of the best supporting rule.
	Confidence float64 `json:"confidence"`

	// Lift of the best supporting rule.
	Lift float64 `json:"lift"`

	// Support of the best supporting rule.
	Support float64 `json:"support"`

	// Because is the antecedent of the best supporting rule.
	Because Itemset `json:"because"`

	// Rules is the number of applicable rules that suggest Item.
	Rules int `json:"rules"`
}
