package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordAndVerifySuccess(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	password := "correct horse battery staple"

	encoded, err := hasher.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !strings.HasPrefix(encoded, "$2") {
		t.Fatalf("unexpected hash format: %q", encoded)
	}

	ok, err := hasher.VerifyPassword(password, encoded)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}

	if !ok {
		t.Fatal("VerifyPassword returned false for correct password")
	}
}

func TestVerifyPasswordIncorrectPassword(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	encoded, err := hasher.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	ok, err := hasher.VerifyPassword("Tr0ub4dor&3", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}

	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordEmptyInputs(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	ok, err := hasher.VerifyPassword("", "")
	if err != nil {
		t.Fatalf("VerifyPassword returned error for empty inputs: %v", err)
	}

	if ok {
		t.Fatal("VerifyPassword should return false for empty inputs")
	}
}

func TestHashPasswordEmptyPassword(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	if _, err := hasher.HashPassword(""); err == nil {
		t.Fatal("HashPassword expected to return error for empty password")
	}
}

func TestNewHasherClampsInvalidCost(t *testing.T) {
	hasher := NewHasher(99)

	encoded, err := hasher.HashPassword("change-me")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(encoded))
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}

	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost %d, got %d", bcrypt.DefaultCost, cost)
	}
}
