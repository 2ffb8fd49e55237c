// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package recommend

import (
	"fmt"
	"slices"

	"github.com/goccy/go-json"
)

// FrequentItemset is a mined itemset with its absolute and relative support.
type FrequentItemset struct {
	// Items is the canonical itemset.
	Items Itemset `json:"items"`

	// Count is the number of transactions containing Items.
	Count int `json:"count"`

	// Support is Count divided by the total transaction count, in (0, 1].
	Support float64 `json:"support"`
}

// FrequentItemsets maps itemsets to their support.
//
// A miner builds it level by level with Add and hands it over when done;
// from then on it is only read. It is not safe for concurrent Add.
type FrequentItemsets struct {
	total   int
	entries map[string]FrequentItemset
	maxSize int
}

// NewFrequentItemsets creates an empty map for a collection of total transactions.
func NewFrequentItemsets(total int) *FrequentItemsets {
	return &FrequentItemsets{
		total:   total,
		entries: make(map[string]FrequentItemset),
	}
}

// Add records items with an absolute count and returns the stored entry.
// It fails when the transaction total is not positive, when the itemset is
// empty, or when the count falls outside [1, total].
func (f *FrequentItemsets) Add(items Itemset, count int) (FrequentItemset, error) {
	if f.total <= 0 {
		return FrequentItemset{}, fmt.Errorf("%w: transaction count must be positive, got %d", ErrInvalidInput, f.total)
	}
	if items.IsEmpty() {
		return FrequentItemset{}, fmt.Errorf("%w: frequent itemset must not be empty", ErrInvalidInput)
	}
	if count <= 0 || count > f.total {
		return FrequentItemset{}, fmt.Errorf("%w: count %d outside [1, %d] for %s", ErrInvalidInput, count, f.total, items)
	}

	entry := FrequentItemset{
		Items:   items,
		Count:   count,
		Support: float64(count) / float64(f.total),
	}
	f.entries[items.Key()] = entry
	if items.Len() > f.maxSize {
		f.maxSize = items.Len()
	}
	return entry, nil
}

// Support returns the support of items and whether it is frequent.
func (f *FrequentItemsets) Support(items Itemset) (float64, bool) {
	if f == nil {
		return 0, false
	}
	entry, ok := f.entries[items.Key()]
	return entry.Support, ok
}

// Get returns the entry for items.
func (f *FrequentItemsets) Get(items Itemset) (FrequentItemset, bool) {
	if f == nil {
		return FrequentItemset{}, false
	}
	entry, ok := f.entries[items.Key()]
	return entry, ok
}

// Len returns the number of frequent itemsets.
func (f *FrequentItemsets) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// IsEmpty reports whether nothing met the support threshold.
func (f *FrequentItemsets) IsEmpty() bool { return f.Len() == 0 }

// TransactionCount returns the collection size supports were computed against.
func (f *FrequentItemsets) TransactionCount() int {
	if f == nil {
		return 0
	}
	return f.total
}

// MaxSize returns the size of the largest frequent itemset.
func (f *FrequentItemsets) MaxSize() int {
	if f == nil {
		return 0
	}
	return f.maxSize
}

// Entries returns all entries ordered by size, then by items.
func (f *FrequentItemsets) Entries() []FrequentItemset {
	if f == nil {
		return nil
	}
	out := make([]FrequentItemset, 0, len(f.entries))
	for _, entry := range f.entries {
		out = append(out, entry)
	}
	slices.SortFunc(out, func(a, b FrequentItemset) int {
		return CompareItemsets(a.Items, b.Items)
	})
	return out
}

// Level returns the entries of exactly size k in canonical order.
func (f *FrequentItemsets) Level(k int) []FrequentItemset {
	var out []FrequentItemset
	for _, entry := range f.Entries() {
		if entry.Items.Len() == k {
			out = append(out, entry)
		}
	}
	return out
}

// LevelCounts returns the number of frequent itemsets per size, index 0 being size 1.
func (f *FrequentItemsets) LevelCounts() []int {
	counts := make([]int, f.MaxSize())
	if f == nil {
		return counts
	}
	for _, entry := range f.entries {
		counts[entry.Items.Len()-1]++
	}
	return counts
}

type frequentItemsetsJSON struct {
	Transactions int               `json:"transactions"`
	Itemsets     []FrequentItemset `json:"itemsets"`
}

// MarshalJSON encodes the map as a transaction total plus ordered entries.
func (f *FrequentItemsets) MarshalJSON() ([]byte, error) {
	return json.Marshal(frequentItemsetsJSON{
		Transactions: f.TransactionCount(),
		Itemsets:     f.Entries(),
	})
}

// UnmarshalJSON restores a map written by MarshalJSON, re-validating every entry.
func (f *FrequentItemsets) UnmarshalJSON(data []byte) error {
	var raw frequentItemsetsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	restored := NewFrequentItemsets(raw.Transactions)
	for _, entry := range raw.Itemsets {
		if _, err := restored.Add(NewItemset(entry.Items...), entry.Count); err != nil {
			return fmt.Errorf("restore frequent itemsets: %w", err)
		}
	}
	*f = *restored
	return nil
}
