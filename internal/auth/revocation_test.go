// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package auth

import (
	"context"
	"testing"
	"time"
)

func newTestRevocationStore(t *testing.T) *RevocationStore {
	t.Helper()
	s, err := OpenRevocationStore("")
	if err != nil {
		t.Fatalf("OpenRevocationStore: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestRevokeAndCheck(t *testing.T) {
	t.Parallel()

	s := newTestRevocationStore(t)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatal("fresh jti should not be revoked")
	}

	if err := s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err = s.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Fatal("expected jti to be revoked")
	}

	// A different jti is unaffected.
	revoked, err = s.IsRevoked(ctx, "jti-2")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatal("unrelated jti should not be revoked")
	}
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	t.Parallel()

	s := newTestRevocationStore(t)
	ctx := context.Background()

	if err := s.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	revoked, err := s.IsRevoked(ctx, "jti-old")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatal("revoking an already expired token should be a no-op")
	}
}

func TestRunGCStopsOnCancel(t *testing.T) {
	t.Parallel()

	s := newTestRevocationStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.RunGC(ctx, time.Millisecond) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("RunGC err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunGC did not stop after cancel")
	}
}
