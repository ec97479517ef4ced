// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

// Command server runs the FlueCraft backend: the catalog API, the media
// asset resolver and the Prometheus metrics endpoint, supervised by a
// suture tree.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluecraft/fluecraft/internal/api"
	"github.com/fluecraft/fluecraft/internal/assets"
	"github.com/fluecraft/fluecraft/internal/auth"
	"github.com/fluecraft/fluecraft/internal/config"
	"github.com/fluecraft/fluecraft/internal/database"
	"github.com/fluecraft/fluecraft/internal/logging"
	"github.com/fluecraft/fluecraft/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("media_root", cfg.Media.Root).
		Msg("FlueCraft starting")

	if cfg.Security.JWTSecret == "" {
		// Development convenience only; validation rejects this in
		// production. Tokens become invalid on every restart.
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("generate development JWT secret: %w", err)
		}
		cfg.Security.JWTSecret = secret
		logging.Warn().Msg("JWT_SECRET not set, generated a per-process secret; sessions will not survive restarts")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	if err := seedAdminUser(cfg, db); err != nil {
		return err
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("configure JWT manager: %w", err)
	}

	revocations, err := auth.OpenRevocationStore(cfg.Security.TokenStorePath)
	if err != nil {
		return fmt.Errorf("open token revocation store: %w", err)
	}
	defer func() {
		if err := revocations.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close revocation store")
		}
	}()

	resolver, err := assets.NewResolver(assets.Config{
		MediaRoot:      cfg.Media.Root,
		AllowedOrigins: cfg.Security.CORSOrigins,
		PermissiveCORS: cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("configure asset resolver: %w", err)
	}

	handler := api.New(cfg, db, jwtManager, revocations, assets.NewHandler(resolver))
	mux := api.NewRouter(cfg, handler).Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.Timeout,
		// Media responses stream multi-megabyte GLB files; give writes more
		// headroom than the API read timeout.
		WriteTimeout: 4 * cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	tree := supervisor.NewTree(slog.New(slog.NewJSONHandler(os.Stderr, nil)), treeCfg)
	tree.AddDataService(supervisor.NewRevocationGCService(revocations, 10*time.Minute))
	tree.AddAPIService(supervisor.NewHTTPServerService(server, treeCfg.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
		if err := <-errCh; err != nil && err != context.Canceled {
			return err
		}
		if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
			for _, svc := range report {
				logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
			}
		}
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			return err
		}
	}

	logging.Info().Msg("FlueCraft stopped")
	return nil
}

// seedAdminUser ensures the configured staff account exists. Without one, a
// fresh deployment has no way to manage the catalog.
func seedAdminUser(cfg *config.Config, db *database.DB) error {
	if cfg.Security.AdminUsername == "" || cfg.Security.AdminPassword == "" {
		logging.Debug().Msg("No admin credentials configured, skipping seed")
		return nil
	}

	hash, err := auth.HashPassword(cfg.Security.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := db.EnsureAdminUser(ctx, cfg.Security.AdminUsername,
		cfg.Security.AdminUsername+"@localhost", hash)
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if created {
		logging.Info().Str("username", cfg.Security.AdminUsername).Msg("Created admin user")
	}
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
