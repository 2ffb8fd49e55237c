// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package algorithms

import (
	"context"
	"runtime"

	"github.com/tomtom215/cinerules/internal/recommend"
)

// BaseAlgorithm provides the identifier shared by all pipeline stages.
type BaseAlgorithm struct {
	name string
}

// NewBaseAlgorithm creates a new base algorithm with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{name: name}
}

// Name returns the algorithm identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// workerCount resolves a configured worker count, zero meaning GOMAXPROCS.
func workerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	return runtime.GOMAXPROCS(0)
}

// Ensure all stages implement their interfaces.
var (
	_ recommend.Miner         = (*Apriori)(nil)
	_ recommend.RuleGenerator = (*RuleGenerator)(nil)
	_ recommend.Matcher       = (*RuleMatcher)(nil)
)

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
