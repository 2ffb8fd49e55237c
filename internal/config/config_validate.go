// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package config

import (
	"fmt"

	"github.com/tomtom215/cinerules/internal/logging"
	"github.com/tomtom215/cinerules/internal/validation"
)

// Validate checks struct tags first, then rules that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRecommend() error {
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("recommend.max_limit (%d) must be >= recommend.default_limit (%d)",
			c.Recommend.MaxLimit, c.Recommend.DefaultLimit)
	}
	if c.Recommend.CacheEnabled && (c.Recommend.CacheTTL <= 0 || c.Recommend.CacheSize <= 0) {
		return fmt.Errorf("recommend.cache_ttl and recommend.cache_size must be positive when recommend.cache_enabled=true")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.Enabled && !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required when store.enabled=true and store.in_memory=false")
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.Enabled && c.Export.Directory == "" {
		return fmt.Errorf("export.directory is required when export.enabled=true")
	}
	return nil
}

func (c *Config) validateServer() error {
	if !c.Server.RateLimitDisabled && (c.Server.RateLimitRequests <= 0 || c.Server.RateLimitWindow <= 0) {
		return fmt.Errorf("server.rate_limit_requests and server.rate_limit_window must be positive unless server.rate_limit_disabled=true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not one of trace, debug, info, warn, error, disabled", c.Logging.Level)
	}
	return nil
}

// LogConfig converts the logging section for logging.Init.
func (c *Config) LogConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
