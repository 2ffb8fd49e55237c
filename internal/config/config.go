// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/cinerules/internal/recommend"
)

// Config holds all application configuration
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Database  DatabaseConfig  `koanf:"database"`
	Mining    MiningConfig    `koanf:"mining"`
	Rules     RulesConfig     `koanf:"rules"`
	Recommend RecommendConfig `koanf:"recommend"`
	Store     StoreConfig     `koanf:"store"`
	Server    ServerConfig    `koanf:"server"`
	Schedule  ScheduleConfig  `koanf:"schedule"`
	Export    ExportConfig    `koanf:"export"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig describes the rating and movie CSV inputs
type DataConfig struct {
	RatingsPath string `koanf:"ratings_path" validate:"required"`
	MoviesPath  string `koanf:"movies_path" validate:"required"`

	// LikeThreshold: a rating strictly greater than this counts as a like.
	LikeThreshold float64 `koanf:"like_threshold" validate:"gte=0"`

	// RowLimit reads only the first N rows of each file (0 = all rows).
	RowLimit int `koanf:"row_limit" validate:"gte=0"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"` // empty or ":memory:" for an in-memory database
	MaxMemory string `koanf:"max_memory" validate:"required"`
	Threads   int    `koanf:"threads" validate:"gte=0"` // 0 = use NumCPU
}

// MiningConfig holds frequent-itemset mining settings
type MiningConfig struct {
	MinSupport     float64       `koanf:"min_support" validate:"gt=0,lte=1"`
	MaxItemsetSize int           `koanf:"max_itemset_size" validate:"gte=0"`
	MaxCandidates  int           `koanf:"max_candidates" validate:"gte=0"`
	Workers        int           `koanf:"workers" validate:"gte=0"`
	Timeout        time.Duration `koanf:"timeout" validate:"gt=0"`
}

// RulesConfig holds rule scoring thresholds
type RulesConfig struct {
	MinConfidence float64 `koanf:"min_confidence" validate:"gte=0,lte=1"`
	MinLift       float64 `koanf:"min_lift" validate:"gte=0"`
}

// RecommendConfig holds request limits and response caching
type RecommendConfig struct {
	DefaultLimit  int           `koanf:"default_limit" validate:"gt=0"`
	MaxLimit      int           `koanf:"max_limit" validate:"gt=0"`
	MaxQueryItems int           `koanf:"max_query_items" validate:"gt=0"`
	CacheEnabled  bool          `koanf:"cache_enabled"`
	CacheTTL      time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	CacheSize     int           `koanf:"cache_size" validate:"gte=0"`
}

// StoreConfig holds the BadgerDB model snapshot store settings
type StoreConfig struct {
	Enabled        bool   `koanf:"enabled"`
	Path           string `koanf:"path"`
	InMemory       bool   `koanf:"in_memory"`
	RetainVersions int    `koanf:"retain_versions" validate:"gte=0"` // 0 = keep all
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout       time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// ScheduleConfig controls when the server mines
type ScheduleConfig struct {
	MineOnStartup bool `koanf:"mine_on_startup"`

	// RefreshInterval re-mines periodically (0 disables).
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=0"`
}

// ExportConfig controls rule export after each successful run
type ExportConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Directory string `koanf:"directory"`
	Format    string `koanf:"format" validate:"oneof=csv parquet json"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the defaults applied before file and environment
// layers. Thresholds reproduce the reference MovieLens run.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			RatingsPath:   "data/ratings_small.csv",
			MoviesPath:    "data/movies_metadata.csv",
			LikeThreshold: 3,
			RowLimit:      3000,
		},
		Database: DatabaseConfig{
			Path:      "",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Mining: MiningConfig{
			MinSupport:     0.1,
			MaxItemsetSize: 0,
			MaxCandidates:  5_000_000,
			Workers:        0,
			Timeout:        10 * time.Minute,
		},
		Rules: RulesConfig{
			MinConfidence: 0.5,
			MinLift:       0.01,
		},
		Recommend: RecommendConfig{
			DefaultLimit:  20,
			MaxLimit:      200,
			MaxQueryItems: 1000,
			CacheEnabled:  true,
			CacheTTL:      5 * time.Minute,
			CacheSize:     10000,
		},
		Store: StoreConfig{
			Enabled:        true,
			Path:           "data/models",
			RetainVersions: 5,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Schedule: ScheduleConfig{
			MineOnStartup:   true,
			RefreshInterval: 0,
		},
		Export: ExportConfig{
			Enabled:   false,
			Directory: "output",
			Format:    "csv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Default returns a copy of the built-in defaults.
func Default() *Config {
	return defaultConfig()
}

// EngineConfig maps the mining, rules and recommend sections onto the
// engine configuration.
func (c *Config) EngineConfig() *recommend.Config {
	return &recommend.Config{
		Mining: recommend.MiningConfig{
			MinSupport:     c.Mining.MinSupport,
			MaxItemsetSize: c.Mining.MaxItemsetSize,
			MaxCandidates:  c.Mining.MaxCandidates,
			Workers:        c.Mining.Workers,
			Timeout:        c.Mining.Timeout,
		},
		Rules: recommend.RulesConfig{
			MinConfidence: c.Rules.MinConfidence,
			MinLift:       c.Rules.MinLift,
		},
		Limits: recommend.LimitsConfig{
			DefaultLimit:  c.Recommend.DefaultLimit,
			MaxLimit:      c.Recommend.MaxLimit,
			MaxQueryItems: c.Recommend.MaxQueryItems,
		},
		Cache: recommend.CacheConfig{
			Enabled:    c.Recommend.CacheEnabled,
			TTL:        c.Recommend.CacheTTL,
			MaxEntries: c.Recommend.CacheSize,
		},
	}
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
