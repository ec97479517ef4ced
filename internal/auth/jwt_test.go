// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/fluecraft/fluecraft/internal/config"
	"github.com/fluecraft/fluecraft/internal/models"
)

const testSecret = "test-secret-at-least-32-characters-long"

func newTestManager(t *testing.T, timeout time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, SessionTimeout: timeout})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour)
	user := &models.User{ID: 42, Username: "alice", IsStaff: true}

	token, expiresAt, err := m.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expiresAt) < 59*time.Minute {
		t.Errorf("expiry too soon: %v", expiresAt)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || !claims.IsStaff {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a jti claim")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Nanosecond)
	token, _, err := m.GenerateToken(&models.User{ID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour)
	token, _, err := m.GenerateToken(&models.User{ID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      "another-secret-also-32-characters-xx",
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected signature mismatch to be rejected")
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Hour)
	token, _, err := m.GenerateToken(&models.User{ID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := m.ValidateToken(tampered); err == nil {
		t.Fatal("expected tampered payload to be rejected")
	}
}
