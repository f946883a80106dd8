package jwt

import (
	"testing"
	"time"

	"skoolife/backend/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("expected UserID=user-1, got %s", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("expected Role=admin, got %s", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected TokenType=access, got %s", claims.TokenType)
	}
	if claims.Issuer != "skoolife" {
		t.Errorf("expected Issuer=skoolife, got %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI must not be empty")
	}
}

func TestGenerateRefreshToken_Default(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("user-1", "user", false)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	if claims.TokenType != "refresh" {
		t.Errorf("expected TokenType=refresh, got %s", claims.TokenType)
	}
	if claims.RememberMe {
		t.Error("expected RememberMe=false")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Errorf("default refresh TTL should be about 24h, got %v", ttl)
	}
}

func TestGenerateRefreshToken_RememberMe(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("user-1", "user", true)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	if !claims.RememberMe {
		t.Error("expected RememberMe=true")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 6*24*time.Hour || ttl > 8*24*time.Hour {
		t.Errorf("remember-me refresh TTL should be about 7d, got %v", ttl)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{
		JWTSecret:               "another-secret-key-for-unit-tests",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	})

	token, err := m.GenerateAccessToken("user-1", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := other.ParseToken(token); err == nil {
		t.Error("expected parse failure with a different secret")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager()

	if _, err := m.ParseToken("not-a-token"); err == nil {
		t.Error("expected parse failure for malformed token")
	}
}
