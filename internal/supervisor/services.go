// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package supervisor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/fluecraft/fluecraft/internal/auth"
	"github.com/fluecraft/fluecraft/internal/logging"
)

// HTTPServerService runs an http.Server under supervision. On context
// cancellation it drains in-flight requests up to shutdownTimeout before
// closing.
type HTTPServerService struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewHTTPServerService wraps server for the supervision tree.
func NewHTTPServerService(server *http.Server, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{server: server, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	logging.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("HTTP server shutdown timed out, forcing close")
			_ = s.server.Close()
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *HTTPServerService) String() string { return "http-server" }

// RevocationGCService runs the token store's value-log garbage collection
// loop under supervision.
type RevocationGCService struct {
	store    *auth.RevocationStore
	interval time.Duration
}

// NewRevocationGCService wraps the revocation store's GC loop.
func NewRevocationGCService(store *auth.RevocationStore, interval time.Duration) *RevocationGCService {
	return &RevocationGCService{store: store, interval: interval}
}

// Serve implements suture.Service.
func (s *RevocationGCService) Serve(ctx context.Context) error {
	return s.store.RunGC(ctx, s.interval)
}

func (s *RevocationGCService) String() string { return "revocation-gc" }
