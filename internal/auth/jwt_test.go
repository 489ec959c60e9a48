package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestJWTManager_GenerateAndValidate_Success(t *testing.T) {
	manager := NewJWTManager(testSecret, "vocabtutor-test", 15*time.Minute)
	learnerID := uuid.New()

	token, err := manager.GenerateAccessToken(learnerID)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected JWT with 3 segments, got %d", len(parts))
	}

	validatedID, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if validatedID != learnerID {
		t.Errorf("expected learnerID %s, got %s", learnerID, validatedID)
	}
}

func TestJWTManager_Validate_Expired(t *testing.T) {
	manager := NewJWTManager(testSecret, "vocabtutor-test", -time.Minute)

	token, err := manager.GenerateAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := manager.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestJWTManager_Validate_WrongSecret(t *testing.T) {
	manager := NewJWTManager(testSecret, "vocabtutor-test", 15*time.Minute)
	other := NewJWTManager("another-secret-that-is-also-32-chars!!", "vocabtutor-test", 15*time.Minute)

	token, err := manager.GenerateAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestJWTManager_Validate_WrongIssuer(t *testing.T) {
	manager := NewJWTManager(testSecret, "vocabtutor-test", 15*time.Minute)
	other := NewJWTManager(testSecret, "someone-else", 15*time.Minute)

	token, err := manager.GenerateAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for token with a different issuer")
	}
}

func TestJWTManager_Validate_Garbage(t *testing.T) {
	manager := NewJWTManager(testSecret, "vocabtutor-test", 15*time.Minute)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := manager.ValidateAccessToken(token); err == nil {
			t.Errorf("ValidateAccessToken(%q) = nil, want error", token)
		}
	}
}
