package auth

import (
	"testing"
	"time"
)

const testSecret = "unit-test-secret-key-0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(testSecret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Issuer != tokenIssuer {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, tokenIssuer)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, 7, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken("another-secret-key-0123456789abcdef", token); err == nil {
		t.Error("token signed with a different secret must be rejected")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, 7, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken(testSecret, token); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken(testSecret, "not.a.token"); err == nil {
		t.Error("garbage token must be rejected")
	}
}
