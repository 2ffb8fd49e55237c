// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package algorithms

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/cinerules/internal/recommend"
)

func TestNewApriori(t *testing.T) {
	a := NewApriori(AprioriConfig{})
	if a.Name() != "apriori" {
		t.Errorf("Name() = %q, want %q", a.Name(), "apriori")
	}
	if a.config.MinShardSize != 256 {
		t.Errorf("MinShardSize = %d, want 256", a.config.MinShardSize)
	}
}

func TestApriori_Mine_Scenario(t *testing.T) {
	store := storeOf(set("A", "B"), set("A", "B", "C"), set("A", "B"), set("B", "C"))

	fi, err := NewApriori(AprioriConfig{}).Mine(context.Background(), store, 0.5)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}

	want := map[string]float64{
		set("A").Key():      0.75,
		set("B").Key():      1.0,
		set("C").Key():      0.5,
		set("A", "B").Key(): 0.75,
		set("B", "C").Key(): 0.5,
	}

	if fi.Len() != len(want) {
		t.Errorf("Len() = %d, want %d (%v)", fi.Len(), len(want), fi.Entries())
	}
	for _, entry := range fi.Entries() {
		support, ok := want[entry.Items.Key()]
		if !ok {
			t.Errorf("unexpected frequent itemset %s", entry.Items)
			continue
		}
		if entry.Support != support {
			t.Errorf("support(%s) = %v, want %v", entry.Items, entry.Support, support)
		}
	}

	if _, ok := fi.Support(set("A", "C")); ok {
		t.Error("{A, C} has support 0.25 and must not be frequent")
	}
	if fi.TransactionCount() != 4 {
		t.Errorf("TransactionCount() = %d, want 4", fi.TransactionCount())
	}
}

func TestApriori_Mine_InvalidInput(t *testing.T) {
	valid := storeOf(set("A"))

	tests := []struct {
		name       string
		store      *recommend.TransactionStore
		minSupport float64
	}{
		{"empty collection", storeOf(), 0.5},
		{"nil store", nil, 0.5},
		{"zero support", valid, 0},
		{"negative support", valid, -0.1},
		{"support above one", valid, 1.5},
		{"NaN support", valid, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fi, err := NewApriori(AprioriConfig{}).Mine(context.Background(), tt.store, tt.minSupport)
			if !errors.Is(err, recommend.ErrInvalidInput) {
				t.Errorf("Mine() error = %v, want ErrInvalidInput", err)
			}
			if fi != nil {
				t.Errorf("Mine() result = %v, want nil on error", fi.Entries())
			}
		})
	}
}

func TestApriori_Mine_EmptyResultIsNotAnError(t *testing.T) {
	store := storeOf(set("A"), set("B"), set("C"), set())

	fi, err := NewApriori(AprioriConfig{}).Mine(context.Background(), store, 1.0)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if fi == nil {
		t.Fatal("Mine() returned nil result")
	}
	if !fi.IsEmpty() {
		t.Errorf("Len() = %d, want 0", fi.Len())
	}
}

func TestApriori_Mine_EmptyTransactionsNeverCount(t *testing.T) {
	store := storeOf(set(), set("A"), set("A"))

	fi, err := NewApriori(AprioriConfig{}).Mine(context.Background(), store, 0.5)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	support, ok := fi.Support(set("A"))
	if !ok {
		t.Fatal("{A} should be frequent")
	}
	if want := 2.0 / 3.0; support != want {
		t.Errorf("support(A) = %v, want %v", support, want)
	}
}

func TestApriori_Mine_MatchesBruteForce(t *testing.T) {
	store := syntheticStore(7, 200, "abcdef")
	universe := store.DistinctItems()

	configs := []struct {
		name string
		cfg  AprioriConfig
	}{
		{"single worker", AprioriConfig{Workers: 1}},
		{"many small shards", AprioriConfig{Workers: 8, MinShardSize: 1}},
	}

	for _, minSupport := range []float64{0.05, 0.2, 0.4} {
		for _, c := range configs {
			t.Run(c.name, func(t *testing.T) {
				fi, err := NewApriori(c.cfg).Mine(context.Background(), store, minSupport)
				if err != nil {
					t.Fatalf("Mine() error = %v", err)
				}

				for _, candidate := range powerSet(universe) {
					want := bruteForceSupport(store, candidate)
					got, ok := fi.Support(candidate)
					switch {
					case want >= minSupport && !ok:
						t.Errorf("minSupport=%v: %s (support %v) missing", minSupport, candidate, want)
					case want < minSupport && ok:
						t.Errorf("minSupport=%v: %s (support %v) should not be frequent", minSupport, candidate, want)
					case ok && got != want:
						t.Errorf("minSupport=%v: support(%s) = %v, want %v", minSupport, candidate, got, want)
					}
				}
			})
		}
	}
}

func TestApriori_Mine_SupportBoundsAndMonotonicity(t *testing.T) {
	store := syntheticStore(11, 150, "abcdefg")

	fi, err := NewApriori(AprioriConfig{}).Mine(context.Background(), store, 0.1)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if fi.MaxSize() < 2 {
		t.Fatalf("MaxSize() = %d, want multi-item itemsets for this fixture", fi.MaxSize())
	}

	for _, entry := range fi.Entries() {
		if entry.Support <= 0 || entry.Support > 1 {
			t.Errorf("support(%s) = %v, want in (0, 1]", entry.Items, entry.Support)
		}
		if entry.Items.Len() < 2 {
			continue
		}
		combinations(entry.Items, entry.Items.Len()-1, func(sub recommend.Itemset) bool {
			subSupport, ok := fi.Support(sub)
			if !ok {
				t.Errorf("subset %s of frequent %s is missing", sub, entry.Items)
			} else if subSupport < entry.Support {
				t.Errorf("support(%s) = %v < support(%s) = %v", sub, subSupport, entry.Items, entry.Support)
			}
			return true
		})
	}
}

func TestApriori_Mine_Idempotent(t *testing.T) {
	store := syntheticStore(3, 120, "abcdef")
	miner := NewApriori(AprioriConfig{Workers: 4, MinShardSize: 8})

	first, err := miner.Mine(context.Background(), store, 0.15)
	if err != nil {
		t.Fatalf("first Mine() error = %v", err)
	}
	second, err := miner.Mine(context.Background(), store, 0.15)
	if err != nil {
		t.Fatalf("second Mine() error = %v", err)
	}

	if !reflect.DeepEqual(first.Entries(), second.Entries()) {
		t.Error("mining the same collection twice produced different itemsets")
	}
}

func TestApriori_Mine_MaxItemsetSize(t *testing.T) {
	store := storeOf(set("A", "B", "C"), set("A", "B", "C"))

	fi, err := NewApriori(AprioriConfig{MaxItemsetSize: 2}).Mine(context.Background(), store, 0.5)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if fi.MaxSize() != 2 {
		t.Errorf("MaxSize() = %d, want 2", fi.MaxSize())
	}
	if _, ok := fi.Support(set("A", "B", "C")); ok {
		t.Error("size-3 itemset mined beyond MaxItemsetSize")
	}
	if got := fi.LevelCounts(); !reflect.DeepEqual(got, []int{3, 3}) {
		t.Errorf("LevelCounts() = %v, want [3 3]", got)
	}
}

func TestApriori_Mine_CandidateLimit(t *testing.T) {
	store := storeOf(set("A", "B"), set("A", "B", "C"), set("A", "B"), set("B", "C"))

	_, err := NewApriori(AprioriConfig{MaxCandidates: 2}).Mine(context.Background(), store, 0.5)
	if !errors.Is(err, recommend.ErrCandidateLimit) {
		t.Errorf("Mine() error = %v, want ErrCandidateLimit", err)
	}
}

func TestApriori_Mine_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewApriori(AprioriConfig{}).Mine(ctx, storeOf(set("A")), 0.5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Mine() error = %v, want context.Canceled", err)
	}
}

func TestApriori_Mine_OnLevel(t *testing.T) {
	store := storeOf(set("A", "B"), set("A", "B", "C"), set("A", "B"), set("B", "C"))

	var levels []LevelStats
	miner := NewApriori(AprioriConfig{OnLevel: func(s LevelStats) { levels = append(levels, s) }})
	if _, err := miner.Mine(context.Background(), store, 0.5); err != nil {
		t.Fatalf("Mine() error = %v", err)
	}

	want := []struct{ level, candidates, frequent int }{
		{1, 3, 3},
		{2, 3, 2},
		{3, 1, 0},
	}
	if len(levels) != len(want) {
		t.Fatalf("observed %d levels, want %d", len(levels), len(want))
	}
	for i, w := range want {
		got := levels[i]
		if got.Level != w.level || got.Candidates != w.candidates || got.Frequent != w.frequent {
			t.Errorf("level %d = %+v, want %+v", i+1, got, w)
		}
	}
}

func TestApriori_Shards(t *testing.T) {
	tests := []struct {
		name       string
		cfg        AprioriConfig
		total      int
		wantShards int
	}{
		{"small collection stays on one shard", AprioriConfig{Workers: 8}, 100, 1},
		{"large collection uses every worker", AprioriConfig{Workers: 4}, 10000, 4},
		{"shard size caps goroutines", AprioriConfig{Workers: 16, MinShardSize: 100}, 250, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges := NewApriori(tt.cfg).shards(tt.total)
			if len(ranges) != tt.wantShards {
				t.Errorf("shards(%d) = %d ranges, want %d", tt.total, len(ranges), tt.wantShards)
			}
			covered := 0
			for i, r := range ranges {
				if i > 0 && r[0] != ranges[i-1][1] {
					t.Errorf("range %d starts at %d, want %d", i, r[0], ranges[i-1][1])
				}
				covered += r[1] - r[0]
			}
			if covered != tt.total {
				t.Errorf("ranges cover %d transactions, want %d", covered, tt.total)
			}
		})
	}
}
