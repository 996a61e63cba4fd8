package auth

import (
	"errors"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)

	tok, err := m.GenerateAccessToken("u1", "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@example.com" || claims.JTI == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := m.VerifyRefreshToken(tok); !errors.Is(err, ErrInvalidTokenType) {
		t.Fatalf("access token must not pass as refresh, got %v", err)
	}
}

func TestRefreshToken(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)

	raw, jti, exp, err := m.GenerateRefreshToken("u1", "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) < 59*time.Minute {
		t.Fatalf("unexpected expiry %v", exp)
	}

	claims, err := m.VerifyRefreshToken(raw)
	if err != nil || claims.JTI != jti {
		t.Fatalf("verify: %+v, %v", claims, err)
	}
	if _, err := m.VerifyAccessToken(raw); !errors.Is(err, ErrInvalidTokenType) {
		t.Fatalf("refresh token must not pass as access, got %v", err)
	}

	if m.HashRefreshToken(raw) != m.HashRefreshToken(raw) || m.HashRefreshToken(raw) == raw {
		t.Fatalf("hash must be deterministic and differ from the token")
	}
}

func TestRejectsForeignAndExpiredTokens(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)
	other := NewManager("other-secret", time.Minute, time.Hour)

	tok, _ := other.GenerateAccessToken("u1", "a@example.com")
	if _, err := m.VerifyAccessToken(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}

	expired := NewManager("secret", -time.Minute, time.Hour)
	tok, _ = expired.GenerateAccessToken("u1", "a@example.com")
	if _, err := m.VerifyAccessToken(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := m.VerifyAccessToken("garbage"); err == nil {
		t.Fatalf("expected error for garbage token")
	}
}
