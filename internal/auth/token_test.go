package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("test-secret", 42, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	userID, err := VerifyToken("test-secret", token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("Expected user id 42, got %d", userID)
	}
}

func TestVerifyTokenRejections(t *testing.T) {
	t.Run("ExpiredToken", func(t *testing.T) {
		token, err := GenerateToken("test-secret", 42, -time.Minute)
		if err != nil {
			t.Fatalf("GenerateToken failed: %v", err)
		}
		if _, err := VerifyToken("test-secret", token); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := GenerateToken("test-secret", 42, time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken failed: %v", err)
		}
		if _, err := VerifyToken("other-secret", token); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := VerifyToken("test-secret", "not.a.token"); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken for garbage, got %v", err)
		}
	})

	t.Run("MissingUserIDClaim", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "someone",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("SignedString failed: %v", err)
		}
		if _, err := VerifyToken("test-secret", signed); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken for missing claim, got %v", err)
		}
	})
}
