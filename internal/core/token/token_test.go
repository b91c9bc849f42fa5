package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/confhub/conference-portal/internal/core/domain"
)

func TestCodec_MintVerifyRoundTrip(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	raw, err := codec.Mint(42, domain.RoleOrganizer)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := codec.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != 42 {
		t.Fatalf("subject = %d, want 42", claims.Subject)
	}
	if claims.UserType != "organizador" {
		t.Fatalf("user_type = %q, want organizador", claims.UserType)
	}
	if claims.ID == "" {
		t.Fatalf("expected a jti claim")
	}
	if remaining := time.Until(claims.ExpiresAt); remaining < 59*time.Minute || remaining > time.Hour {
		t.Fatalf("unexpected expiry: %v from now", remaining)
	}
}

func TestCodec_DefaultTTL(t *testing.T) {
	if got := NewCodec("secret", 0).TTL(); got != DefaultTTL {
		t.Fatalf("TTL = %v, want %v", got, DefaultTTL)
	}
}

func TestCodec_RejectsWrongSecret(t *testing.T) {
	raw, err := NewCodec("right", time.Hour).Mint(1, domain.RoleAuthor)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := NewCodec("wrong", time.Hour).Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestCodec_RejectsExpired(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	// Issued 8 days ago with a 7-day lifetime.
	stale := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       "7",
		"user_type": "autor",
		"exp":       time.Now().Add(-24 * time.Hour).Unix(),
	})
	raw, err := stale.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := codec.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestCodec_RejectsMissingExpiry(t *testing.T) {
	eternal := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       "7",
		"user_type": "autor",
	})
	raw, err := eternal.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewCodec("secret", time.Hour).Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for token without expiry, got %v", err)
	}
}

func TestCodec_MissingUserTypeVerifiesWithEmptyRole(t *testing.T) {
	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "9",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := anonymous.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := NewCodec("secret", time.Hour).Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserType != "" {
		t.Fatalf("user_type = %q, want empty", claims.UserType)
	}
}
