// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
	if !cfg.IsDevelopment() {
		t.Error("default config should be development mode")
	}
}

func TestValidateServer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.Timeout = 0 },
			wantErr: "HTTP_TIMEOUT",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Server.Environment = "staging" },
			wantErr: "ENVIRONMENT",
		},
		{
			name:    "empty media root",
			mutate:  func(c *Config) { c.Media.Root = "" },
			wantErr: "MEDIA_ROOT",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "DUCKDB_PATH",
		},
		{
			name:    "bad cors origin scheme",
			mutate:  func(c *Config) { c.Security.CORSOrigins = []string{"example.com"} },
			wantErr: "CORS_ORIGINS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %q", tt.wantErr, err)
			}
		})
	}
}

func TestValidateProductionRequiresJWTSecret(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Server.Environment = "production"
	cfg.Security.CORSOrigins = []string{"https://app.example.com"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT secret in production")
	}

	cfg.Security.JWTSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short JWT secret in production")
	}

	cfg.Security.JWTSecret = strings.Repeat("s", 32)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid production config, got: %v", err)
	}
}

func TestValidateProductionRejectsWildcardCORS(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Server.Environment = "production"
	cfg.Security.JWTSecret = strings.Repeat("s", 32)
	cfg.Security.CORSOrigins = []string{"*"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for wildcard CORS in production")
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MEDIA_ROOT", "/tmp/fluecraft-media")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv(ConfigPathEnvVar, "/nonexistent/config.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Media.Root != "/tmp/fluecraft-media" {
		t.Errorf("expected media root override, got %q", cfg.Media.Root)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "http://b.test" {
		t.Errorf("expected comma-split CORS origins, got %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug log level, got %q", cfg.Logging.Level)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 8123
  environment: development
media:
  root: /srv/media
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 8123 {
		t.Errorf("expected port 8123 from file, got %d", cfg.Server.Port)
	}
	if cfg.Media.Root != "/srv/media" {
		t.Errorf("expected media root from file, got %q", cfg.Media.Root)
	}
	// Untouched values keep defaults
	if cfg.Security.SessionTimeout != 24*time.Hour {
		t.Errorf("expected default session timeout, got %s", cfg.Security.SessionTimeout)
	}
}

func TestEnvTransformFuncSkipsUnknown(t *testing.T) {
	t.Parallel()

	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("expected unrelated env vars to be skipped, got %q", got)
	}
	if got := envTransformFunc("JWT_SECRET"); got != "security.jwt_secret" {
		t.Errorf("unexpected mapping: %q", got)
	}
}
