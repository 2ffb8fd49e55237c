// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the rule engine.
type Config struct {
	// Mining contains frequent-itemset mining parameters.
	Mining MiningConfig `json:"mining"`

	// Rules contains rule scoring thresholds.
	Rules RulesConfig `json:"rules"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains recommendation caching parameters.
	Cache CacheConfig `json:"cache"`
}

// MiningConfig contains frequent-itemset mining parameters.
type MiningConfig struct {
	// MinSupport is the minimum fraction of transactions an itemset must
	// appear in. Must be in (0, 1].
	// Default: 0.1.
	MinSupport float64 `json:"min_support"`

	// MaxItemsetSize stops mining after this level. Zero means unbounded.
	// Default: 0.
	MaxItemsetSize int `json:"max_itemset_size"`

	// MaxCandidates fails a level that would count more candidates.
	// Zero means unbounded.
	// Default: 5000000.
	MaxCandidates int `json:"max_candidates"`

	// Workers is the number of goroutines counting support.
	// Zero uses GOMAXPROCS.
	// Default: 0.
	Workers int `json:"workers"`

	// Timeout bounds a whole pipeline run.
	// Default: 10m.
	Timeout time.Duration `json:"timeout"`
}

// RulesConfig contains rule scoring thresholds.
type RulesConfig struct {
	// MinConfidence is the minimum confidence of an emitted rule, in [0, 1].
	// Default: 0.5.
	MinConfidence float64 `json:"min_confidence"`

	// MinLift is the minimum lift of an emitted rule, >= 0.
	// Default: 0.01.
	MinLift float64 `json:"min_lift"`
}

// LimitsConfig contains operational limits for recommendation requests.
type LimitsConfig struct {
	// DefaultLimit is used when a request does not set one.
	// Default: 20.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any requested limit.
	// Default: 200.
	MaxLimit int `json:"max_limit"`

	// MaxQueryItems rejects larger queries.
	// Default: 1000.
	MaxQueryItems int `json:"max_query_items"`
}

// CacheConfig contains recommendation caching parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns the thresholds of the reference movie run.
func DefaultConfig() *Config {
	return &Config{
		Mining: MiningConfig{
			MinSupport:    0.1,
			MaxCandidates: 5_000_000,
			Timeout:       10 * time.Minute,
		},
		Rules: RulesConfig{
			MinConfidence: 0.5,
			MinLift:       0.01,
		},
		Limits: LimitsConfig{
			DefaultLimit:  20,
			MaxLimit:      200,
			MaxQueryItems: 1000,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
	}
}

// Params returns the thresholds as recorded on a model.
func (c *Config) Params() Params {
	return Params{
		MinSupport:     c.Mining.MinSupport,
		MinConfidence:  c.Rules.MinConfidence,
		MinLift:        c.Rules.MinLift,
		MaxItemsetSize: c.Mining.MaxItemsetSize,
		MaxCandidates:  c.Mining.MaxCandidates,
	}
}

// Validate checks the configuration for errors.
// Threshold errors wrap ErrInvalidInput.
func (c *Config) Validate() error {
	if err := ValidateSupport(c.Mining.MinSupport); err != nil {
		return fmt.Errorf("mining.min_support: %w", err)
	}
	if err := ValidateConfidence(c.Rules.MinConfidence); err != nil {
		return fmt.Errorf("rules.min_confidence: %w", err)
	}
	if err := ValidateLift(c.Rules.MinLift); err != nil {
		return fmt.Errorf("rules.min_lift: %w", err)
	}

	if c.Mining.MaxItemsetSize < 0 {
		return fmt.Errorf("mining.max_itemset_size must be non-negative, got %d", c.Mining.MaxItemsetSize)
	}
	if c.Mining.MaxCandidates < 0 {
		return fmt.Errorf("mining.max_candidates must be non-negative, got %d", c.Mining.MaxCandidates)
	}
	if c.Mining.Workers < 0 {
		return fmt.Errorf("mining.workers must be non-negative, got %d", c.Mining.Workers)
	}
	if c.Mining.Timeout <= 0 {
		return fmt.Errorf("mining.timeout must be positive, got %v", c.Mining.Timeout)
	}

	if c.Limits.DefaultLimit <= 0 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.MaxQueryItems <= 0 {
		return fmt.Errorf("limits.max_query_items must be positive, got %d", c.Limits.MaxQueryItems)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// ValidateSupport checks minSupport ∈ (0, 1].
func ValidateSupport(minSupport float64) error {
	if math.IsNaN(minSupport) || minSupport <= 0 || minSupport > 1 {
		return fmt.Errorf("%w: min support must be in (0, 1], got %v", ErrInvalidInput, minSupport)
	}
	return nil
}

// ValidateConfidence checks minConfidence ∈ [0, 1].
func ValidateConfidence(minConfidence float64) error {
	if math.IsNaN(minConfidence) || minConfidence < 0 || minConfidence > 1 {
		return fmt.Errorf("%w: min confidence must be in [0, 1], got %v", ErrInvalidInput, minConfidence)
	}
	return nil
}

// ValidateLift checks minLift >= 0.
func ValidateLift(minLift float64) error {
	if math.IsNaN(minLift) || minLift < 0 {
		return fmt.Errorf("%w: min lift must be non-negative, got %v", ErrInvalidInput, minLift)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		Mining struct {
			MinSupport     float64 `json:"min_support"`
			MaxItemsetSize int     `json:"max_itemset_size"`
			MaxCandidates  int     `json:"max_candidates"`
			Workers        int     `json:"workers"`
			Timeout        string  `json:"timeout"`
		} `json:"mining"`
		Cache struct {
			Enabled    bool   `json:"enabled"`
			TTL        string `json:"ttl"`
			MaxEntries int    `json:"max_entries"`
		} `json:"cache"`
	}{
		Alias: (*Alias)(c),
		Mining: struct {
			MinSupport     float64 `json:"min_support"`
			MaxItemsetSize int     `json:"max_itemset_size"`
			MaxCandidates  int     `json:"max_candidates"`
			Workers        int     `json:"workers"`
			Timeout        string  `json:"timeout"`
		}{
			MinSupport:     c.Mining.MinSupport,
			MaxItemsetSize: c.Mining.MaxItemsetSize,
			MaxCandidates:  c.Mining.MaxCandidates,
			Workers:        c.Mining.Workers,
			Timeout:        c.Mining.Timeout.String(),
		},
		Cache: struct {
			Enabled    bool   `json:"enabled"`
			TTL        string `json:"ttl"`
			MaxEntries int    `json:"max_entries"`
		}{
			Enabled:    c.Cache.Enabled,
			TTL:        c.Cache.TTL.String(),
			MaxEntries: c.Cache.MaxEntries,
		},
	})
}
