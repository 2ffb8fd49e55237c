// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package algorithms

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinerules/internal/recommend"
)

// AprioriConfig contains parameters for the Apriori miner.
type AprioriConfig struct {
	// MaxItemsetSize stops mining after this level. Zero means unbounded.
	MaxItemsetSize int

	// MaxCandidates fails a level with more candidates. Zero means unbounded.
	MaxCandidates int

	// Workers is the number of counting goroutines. Zero uses GOMAXPROCS.
	Workers int

	// MinShardSize is the smallest transaction shard worth its own goroutine.
	// Default: 256.
	MinShardSize int

	// OnLevel, when set, is called after each level is counted.
	OnLevel func(LevelStats)
}

// LevelStats describes one mining level.
type LevelStats struct {
	Level      int
	Candidates int
	Frequent   int
	Duration   time.Duration
}

// Apriori mines frequent itemsets level by level with exact support counting.
type Apriori struct {
	BaseAlgorithm
	config AprioriConfig
}

// NewApriori creates an Apriori miner.
func NewApriori(cfg AprioriConfig) *Apriori {
	if cfg.MinShardSize <= 0 {
		cfg.MinShardSize = 256
	}
	return &Apriori{
		BaseAlgorithm: NewBaseAlgorithm("apriori"),
		config:        cfg,
	}
}

// Mine returns every itemset whose support is at least minSupport.
//
// The collection must not be empty and minSupport must be in (0, 1]; both are
// checked before any support is computed. A collection where nothing reaches
// minSupport yields an empty, non-nil result.
func (a *Apriori) Mine(ctx context.Context, store *recommend.TransactionStore, minSupport float64) (*recommend.FrequentItemsets, error) {
	if err := recommend.ValidateSupport(minSupport); err != nil {
		return nil, err
	}
	total := store.Len()
	if total == 0 {
		return nil, fmt.Errorf("%w: transaction collection is empty", recommend.ErrInvalidInput)
	}

	result := recommend.NewFrequentItemsets(total)
	frequent := func(count int) bool {
		return count > 0 && float64(count)/float64(total) >= minSupport
	}

	start := time.Now()
	itemCounts, err := a.countItems(ctx, store)
	if err != nil {
		return nil, err
	}

	level := make([]recommend.Itemset, 0, len(itemCounts))
	for _, item := range store.DistinctItems() {
		count := itemCounts[item]
		if !frequent(count) {
			continue
		}
		set := recommend.Itemset{item}
		if _, err := result.Add(set, count); err != nil {
			return nil, err
		}
		level = append(level, set)
	}
	a.observe(LevelStats{Level: 1, Candidates: len(itemCounts), Frequent: len(level), Duration: time.Since(start)})

	for k := 2; len(level) > 0; k++ {
		if a.config.MaxItemsetSize > 0 && k > a.config.MaxItemsetSize {
			break
		}
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		start = time.Now()
		universe := unionOf(level)
		n := binomial(universe.Len(), k)
		if n == 0 {
			break
		}
		if a.config.MaxCandidates > 0 && n > uint64(a.config.MaxCandidates) {
			return nil, fmt.Errorf("%w: level %d would count %d candidates from %d items (limit %d)",
				recommend.ErrCandidateLimit, k, n, universe.Len(), a.config.MaxCandidates)
		}

		candidates := allCombinations(universe, k)
		counts, err := a.countCandidates(ctx, store, candidates, k)
		if err != nil {
			return nil, err
		}

		level = level[:0]
		for i, candidate := range candidates {
			if !frequent(counts[i]) {
				continue
			}
			if _, err := result.Add(candidate, counts[i]); err != nil {
				return nil, err
			}
			level = append(level, candidate)
		}
		a.observe(LevelStats{Level: k, Candidates: len(candidates), Frequent: len(level), Duration: time.Since(start)})
	}

	return result, nil
}

func (a *Apriori) observe(stats LevelStats) {
	if a.config.OnLevel != nil {
		a.config.OnLevel(stats)
	}
}

// shards splits [0, total) into contiguous ranges, one per counting goroutine.
func (a *Apriori) shards(total int) [][2]int {
	n := workerCount(a.config.Workers)
	if maxShards := (total + a.config.MinShardSize - 1) / a.config.MinShardSize; n > maxShards {
		n = maxShards
	}
	if n < 1 {
		n = 1
	}

	size := (total + n - 1) / n
	out := make([][2]int, 0, n)
	for lo := 0; lo < total; lo += size {
		out = append(out, [2]int{lo, min(lo+size, total)})
	}
	return out
}

// countItems counts, per item, the transactions that contain it.
func (a *Apriori) countItems(ctx context.Context, store *recommend.TransactionStore) (map[recommend.Item]int, error) {
	ranges := a.shards(store.Len())
	partial := make([]map[recommend.Item]int, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	for s, r := range ranges {
		g.Go(func() error {
			counts := make(map[recommend.Item]int)
			for i := r[0]; i < r[1]; i++ {
				if i%1024 == 0 && ContextCancelled(gctx) {
					return gctx.Err()
				}
				// transaction items are already distinct
				for _, item := range store.At(i).Items {
					counts[item]++
				}
			}
			partial[s] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[recommend.Item]int)
	for _, counts := range partial {
		for item, c := range counts {
			merged[item] += c
		}
	}
	return merged, nil
}

// countCandidates counts, per candidate, the transactions that contain it.
// The returned slice is indexed like candidates.
func (a *Apriori) countCandidates(ctx context.Context, store *recommend.TransactionStore, candidates []recommend.Itemset, k int) ([]int, error) {
	ranges := a.shards(store.Len())
	partial := make([][]int, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	for s, r := range ranges {
		g.Go(func() error {
			counts := make([]int, len(candidates))
			for i := r[0]; i < r[1]; i++ {
				if i%64 == 0 && ContextCancelled(gctx) {
					return gctx.Err()
				}
				items := store.At(i).Items
				if items.Len() < k {
					continue
				}
				for c, candidate := range candidates {
					if candidate.IsSubsetOf(items) {
						counts[c]++
					}
				}
			}
			partial[s] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]int, len(candidates))
	for _, counts := range partial {
		for c, n := range counts {
			merged[c] += n
		}
	}
	return merged, nil
}

// unionOf returns every item that appears in any of the sets.
func unionOf(sets []recommend.Itemset) recommend.Itemset {
	var items []recommend.Item
	for _, set := range sets {
		items = append(items, set...)
	}
	return recommend.NewItemset(items...)
}
