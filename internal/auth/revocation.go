// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/fluecraft/fluecraft/internal/logging"
)

// revokedPrefix namespaces revocation keys inside the Badger store.
const revokedPrefix = "revoked:"

// RevocationStore persists revoked token IDs (jti) in BadgerDB so logout
// survives restarts. Entries carry a TTL matching the token's remaining
// lifetime; Badger drops them once the token would have expired anyway.
type RevocationStore struct {
	db *badger.DB
}

// OpenRevocationStore opens (creating if necessary) the Badger database at
// path. An empty path opens an in-memory store, used by tests and
// development.
func OpenRevocationStore(path string) (*RevocationStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	// Badger's own logger is chatty at INFO; route through zerolog at debug.
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open revocation store: %w", err)
	}
	return &RevocationStore{db: db}, nil
}

// Revoke marks a token ID as revoked until expiresAt.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; nothing to revoke.
		return nil
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(revokedPrefix+jti), []byte{1}).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token ID has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(revokedPrefix + jti))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		revoked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return revoked, nil
}

// RunGC runs Badger value-log garbage collection every interval until ctx is
// cancelled. Intended to run under the supervision tree.
func (s *RevocationStore) RunGC(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing to collect.
			if err := s.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("Revocation store GC failed")
			}
		}
	}
}

// Close closes the underlying Badger database.
func (s *RevocationStore) Close() error {
	return s.db.Close()
}

// badgerLogger adapts Badger's logger interface to zerolog, demoting its
// operational chatter to debug.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Msgf(format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Msgf(format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Msgf(format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Msgf(format, args...)
}
