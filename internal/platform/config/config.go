// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Bot) via constructors.
  - Zero Hidden State: No global variables are used to store config.

The super-admin allow-list lives here as plain configuration; the one-time
promotion of the first registrant is a persisted flag in storage, never a
mutation of this struct.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Clanboard API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// PublicAddress is the externally reachable base URL of the dashboard,
	// used to render login links delivered by the bot.
	PublicAddress string `env:"PUBLIC_ADDRESS,required"`

	// PublicBasepath is the URL path prefix the dashboard is mounted under.
	PublicBasepath string `env:"PUBLIC_BASEPATH" envDefault:"/"`

	// CommandPrefix is prepended to bot command hints shown in advice texts
	// (empty when the bot runs without a prefix).
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:""`

	// SuperAdminIDs is the allow-list of account IDs granted the
	// super-admin tier on first contact.
	SuperAdminIDs []int64 `env:"SUPER_ADMIN_IDS" envSeparator:","`

	// Outbound messaging channel (OneBot-compatible HTTP API)
	OneBotAPIURL      string `env:"ONEBOT_API_URL"`
	OneBotAccessToken string `env:"ONEBOT_ACCESS_TOKEN"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Basepaths are always joined with a trailing slash downstream.
	if !strings.HasSuffix(cfg.PublicBasepath, "/") {
		cfg.PublicBasepath += "/"
	}

	return cfg, nil
}

// IsSuperAdmin reports whether the given account ID is in the allow-list.
func (c *Config) IsSuperAdmin(qqid int64) bool {
	for _, id := range c.SuperAdminIDs {
		if id == qqid {
			return true
		}
	}
	return false
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ExtraAllowedOrigins returns the additional origins admitted by the CORS
// check, parsed from the comma-separated EXTRA_ORIGINS variable.
func (c *Config) ExtraAllowedOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	raw := strings.Split(c.ExtraOrigins, ",")
	origins := make([]string, 0, len(raw))
	for _, origin := range raw {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return origins
}
