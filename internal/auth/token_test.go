package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.GenerateAccessToken(42, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	userID, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.GenerateAccessToken(42, -time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := issuer.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenSignedWithDifferentKeyRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	other := NewTokenIssuer("other-secret")

	token, err := other.GenerateAccessToken(42, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := issuer.ValidateToken(token); err == nil {
		t.Fatal("expected token signed with a different key to be rejected")
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.ValidateToken(token); err == nil {
			t.Fatalf("expected %q to be rejected", token)
		}
	}
}
