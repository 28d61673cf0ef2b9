package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	tm := NewTokenManager("test-secret", 15*time.Minute, "crm-backend")

	userID := uuid.New()
	sessionID := uuid.New()

	token, expiresAt, err := tm.GenerateAccessToken(userID, sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Until(expiresAt) > 15*time.Minute {
		t.Fatalf("expiry beyond the configured ttl")
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.SessionID != sessionID {
		t.Fatalf("expected session id %s, got %s", sessionID, claims.SessionID)
	}
	if claims.Issuer != "crm-backend" {
		t.Fatalf("expected issuer crm-backend, got %s", claims.Issuer)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	tm := NewTokenManager("right-secret", 15*time.Minute, "crm-backend")
	other := NewTokenManager("wrong-secret", 15*time.Minute, "crm-backend")

	token, _, err := tm.GenerateAccessToken(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatalf("expected validation to fail with a different secret")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute, "crm-backend")

	token, _, err := tm.GenerateAccessToken(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tm.ValidateToken(token); err == nil {
		t.Fatalf("expected validation to fail for an expired token")
	}
}

func TestValidateGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 15*time.Minute, "crm-backend")

	if _, err := tm.ValidateToken("not.a.token"); err == nil {
		t.Fatalf("expected validation to fail for a malformed token")
	}
}
