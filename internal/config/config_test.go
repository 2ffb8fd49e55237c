// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Mining.MinSupport != 0.1 {
		t.Errorf("Mining.MinSupport = %v, want 0.1", cfg.Mining.MinSupport)
	}
	if cfg.Rules.MinConfidence != 0.5 {
		t.Errorf("Rules.MinConfidence = %v, want 0.5", cfg.Rules.MinConfidence)
	}
	if cfg.Rules.MinLift != 0.01 {
		t.Errorf("Rules.MinLift = %v, want 0.01", cfg.Rules.MinLift)
	}
	if cfg.Data.LikeThreshold != 3 {
		t.Errorf("Data.LikeThreshold = %v, want 3", cfg.Data.LikeThreshold)
	}
	if cfg.Data.RowLimit != 3000 {
		t.Errorf("Data.RowLimit = %d, want 3000", cfg.Data.RowLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfig_Validate_CrossField(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"store path required", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"in-memory store needs no path", func(c *Config) { c.Store.Path = ""; c.Store.InMemory = true }, ""},
		{"disabled store needs no path", func(c *Config) { c.Store.Path = ""; c.Store.Enabled = false }, ""},
		{"export directory required", func(c *Config) { c.Export.Enabled = true; c.Export.Directory = "" }, "export.directory"},
		{"cache needs ttl", func(c *Config) { c.Recommend.CacheTTL = 0 }, "recommend.cache_ttl"},
		{"disabled cache needs no ttl", func(c *Config) { c.Recommend.CacheEnabled = false; c.Recommend.CacheTTL = 0 }, ""},
		{"rate limit needs window", func(c *Config) { c.Server.RateLimitWindow = 0 }, "server.rate_limit"},
		{"disabled rate limit", func(c *Config) { c.Server.RateLimitDisabled = true; c.Server.RateLimitRequests = 0 }, ""},
		{"missing ratings path", func(c *Config) { c.Data.RatingsPath = "" }, "data.ratings_path"},
		{"zero timeout", func(c *Config) { c.Mining.Timeout = 0 }, "mining.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_EngineConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Mining.MinSupport = 0.2
	cfg.Mining.Workers = 3
	cfg.Rules.MinLift = 1.1
	cfg.Recommend.CacheTTL = time.Minute

	ec := cfg.EngineConfig()
	if ec.Mining.MinSupport != 0.2 || ec.Mining.Workers != 3 {
		t.Errorf("Mining = %+v, want support 0.2 and 3 workers", ec.Mining)
	}
	if ec.Rules.MinLift != 1.1 {
		t.Errorf("Rules.MinLift = %v, want 1.1", ec.Rules.MinLift)
	}
	if ec.Cache.TTL != time.Minute || ec.Cache.MaxEntries != cfg.Recommend.CacheSize {
		t.Errorf("Cache = %+v", ec.Cache)
	}
	if ec.Limits.MaxLimit != cfg.Recommend.MaxLimit {
		t.Errorf("Limits.MaxLimit = %d, want %d", ec.Limits.MaxLimit, cfg.Recommend.MaxLimit)
	}
	if err := ec.Validate(); err != nil {
		t.Errorf("EngineConfig().Validate() = %v, want nil", err)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"", 9000, ":9000"},
		{"::1", 80, "[::1]:80"},
	}
	for _, tt := range tests {
		s := ServerConfig{Host: tt.host, Port: tt.port}
		if got := s.Addr(); got != tt.want {
			t.Errorf("Addr(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfig_LogConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"
	cfg.Logging.Caller = true

	lc := cfg.LogConfig()
	if lc.Level != "debug" || lc.Format != "console" || !lc.Caller {
		t.Errorf("LogConfig() = %+v", lc)
	}
	if !lc.Timestamp || lc.Output == nil {
		t.Error("LogConfig() lost timestamp or output defaults")
	}
}
