// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package recommend

import (
	"slices"
	"strconv"
	"strings"
)

// Item is an opaque item identifier. In the movie domain it is a title.
type Item string

// Itemset is a set of distinct items kept in ascending order.
//
// Every constructor in this package returns a canonical Itemset, so two
// itemsets with the same members compare equal with Equal and share a Key
// regardless of how they were built. Callers must not reorder or append to
// an Itemset in place.
type Itemset []Item

// NewItemset builds a canonical itemset from items in any order.
// Duplicates are dropped. The result is empty (never nil) when no items are given.
func NewItemset(items ...Item) Itemset {
	set := make(Itemset, len(items))
	copy(set, items)
	slices.Sort(set)
	return slices.Compact(set)
}

// ItemsetOf builds a canonical itemset from plain strings.
func ItemsetOf(items ...string) Itemset {
	set := make(Itemset, len(items))
	for i, item := range items {
		set[i] = Item(item)
	}
	slices.Sort(set)
	return slices.Compact(set)
}

// Len returns the number of items in the set.
func (s Itemset) Len() int { return len(s) }

// IsEmpty reports whether the set has no items.
func (s Itemset) IsEmpty() bool { return len(s) == 0 }

// Key returns the canonical map key for the set.
// Each item is length-prefixed so that no two distinct sets share a key.
func (s Itemset) Key() string {
	var b strings.Builder
	for _, item := range s {
		b.WriteString(strconv.Itoa(len(item)))
		b.WriteByte(':')
		b.WriteString(string(item))
	}
	return b.String()
}

// Contains reports whether item is a member of the set.
func (s Itemset) Contains(item Item) bool {
	_, found := slices.BinarySearch(s, item)
	return found
}

// IsSubsetOf reports whether every item of s is also in other.
// The empty set is a subset of every set.
func (s Itemset) IsSubsetOf(other Itemset) bool {
	if len(s) > len(other) {
		return false
	}
	j := 0
	for _, item := range s {
		for j < len(other) && other[j] < item {
			j++
		}
		if j == len(other) || other[j] != item {
			return false
		}
		j++
	}
	return true
}

// Union returns the items in s or other.
func (s Itemset) Union(other Itemset) Itemset {
	out := make(Itemset, 0, len(s)+len(other))
	i, j := 0, 0
	for i < len(s) && j < len(other) {
		switch {
		case s[i] < other[j]:
			out = append(out, s[i])
			i++
		case s[i] > other[j]:
			out = append(out, other[j])
			j++
		default:
			out = append(out, s[i])
			i++
			j++
		}
	}
	out = append(out, s[i:]...)
	return append(out, other[j:]...)
}

// Minus returns the items in s that are not in other.
func (s Itemset) Minus(other Itemset) Itemset {
	out := make(Itemset, 0, len(s))
	for _, item := range s {
		if !other.Contains(item) {
			out = append(out, item)
		}
	}
	return out
}

// Intersects reports whether s and other share at least one item.
func (s Itemset) Intersects(other Itemset) bool {
	for _, item := range s {
		if other.Contains(item) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same items.
func (s Itemset) Equal(other Itemset) bool {
	return slices.Equal(s, other)
}

// Strings returns the items as plain strings in canonical order.
func (s Itemset) Strings() []string {
	out := make([]string, len(s))
	for i, item := range s {
		out[i] = string(item)
	}
	return out
}

// String renders the set as {A, B, C}.
func (s Itemset) String() string {
	return "{" + strings.Join(s.Strings(), ", ") + "}"
}

// CompareItemsets orders itemsets by size, then item by item.
// It is the ordering used for every deterministic enumeration in the engine.
func CompareItemsets(a, b Itemset) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return slices.Compare(a, b)
}
