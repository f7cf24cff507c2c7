package security

import (
	"errors"
	"testing"
	"time"
)

func TestTokenManagerIssueAndParse(t *testing.T) {
	manager, err := NewTokenManager("test-secret", "byke-server", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}

	signed, claims, err := manager.Issue("user-1", "rider@byke.local", "CYCLIST")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if signed == "" {
		t.Fatal("Issue returned empty token")
	}
	if claims.ID == "" {
		t.Fatal("Issue did not assign a token id")
	}

	parsed, err := manager.Parse(signed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if parsed.UserID != "user-1" {
		t.Fatalf("expected user id user-1, got %s", parsed.UserID)
	}
	if parsed.Email != "rider@byke.local" {
		t.Fatalf("expected email rider@byke.local, got %s", parsed.Email)
	}
	if parsed.SystemRole != "CYCLIST" {
		t.Fatalf("expected system role CYCLIST, got %s", parsed.SystemRole)
	}
	if parsed.Issuer != "byke-server" {
		t.Fatalf("expected issuer byke-server, got %s", parsed.Issuer)
	}
}

func TestTokenManagerParseExpiredToken(t *testing.T) {
	manager, err := NewTokenManager("test-secret", "byke-server", time.Nanosecond)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}

	signed, _, err := manager.Issue("user-1", "", "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := manager.Parse(signed); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenManagerParseWrongSecret(t *testing.T) {
	issuing, err := NewTokenManager("secret-a", "byke-server", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	verifying, err := NewTokenManager("secret-b", "byke-server", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}

	signed, _, err := issuing.Issue("user-1", "", "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifying.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManagerRejectsEmptySecret(t *testing.T) {
	if _, err := NewTokenManager("  ", "byke-server", time.Hour); err == nil {
		t.Fatal("NewTokenManager expected to reject empty secret")
	}
}

func TestGenerateAPITokenUnique(t *testing.T) {
	first, err := GenerateAPIToken()
	if err != nil {
		t.Fatalf("GenerateAPIToken returned error: %v", err)
	}
	second, err := GenerateAPIToken()
	if err != nil {
		t.Fatalf("GenerateAPIToken returned error: %v", err)
	}

	if first == "" || first == second {
		t.Fatalf("expected distinct non-empty tokens, got %q and %q", first, second)
	}
}
