// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

// Package config provides layered configuration for FlueCraft using Koanf v2.
//
// Configuration is loaded from three sources, highest priority last:
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables
//
// The resulting Config struct is passed explicitly into every constructor
// that needs it; no package reads ambient settings at request time.
package config

import (
	"time"
)

// Config is the root configuration for the FlueCraft server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Media    MediaConfig    `koanf:"media"`
	Security SecurityConfig `koanf:"security"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the bind address. 0.0.0.0 listens on all interfaces.
	Host string `koanf:"host"`

	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// Timeout is the read/write timeout for API requests. Media streaming
	// responses use a longer write timeout derived from this value because
	// 3D viewers fetch multi-megabyte GLB files over slow links.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production". Development enables
	// permissive CORS on media routes (any Origin echoed back).
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings for the catalog store.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" is accepted for tests.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory usage (e.g. "1GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB worker thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// MediaConfig holds media storage settings for the asset resolver and the
// upload handlers.
type MediaConfig struct {
	// Root is the media root directory. Model files live under
	// Root/models and Root/models/original, thumbnails under
	// Root/thumbnails, other images under Root/images.
	Root string `koanf:"root"`

	// MaxUploadBytes caps multipart upload size.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// SecurityConfig holds authentication, CORS and rate limit settings.
type SecurityConfig struct {
	// JWTSecret signs access tokens. Required in production; a random
	// per-process secret is generated in development when empty.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the JWT token lifetime.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AdminUsername/AdminPassword seed the initial staff account.
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	// TokenStorePath is the BadgerDB directory for revoked-token storage.
	TokenStorePath string `koanf:"token_store_path"`

	// CORSOrigins is the allow-list used by restricted-mode media CORS and
	// by the API-wide CORS middleware. "*" allows any origin.
	CORSOrigins []string `koanf:"cors_origins"`

	// Rate limiting for API endpoints.
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// APIConfig holds pagination settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment != "production"
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8471,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/fluecraft.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Media: MediaConfig{
			Root:           "/data/media",
			MaxUploadBytes: 256 << 20, // GLB scene exports routinely exceed 100MB
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			SessionTimeout:    24 * time.Hour,
			AdminUsername:     "",
			AdminPassword:     "",
			TokenStorePath:    "/data/tokens",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
