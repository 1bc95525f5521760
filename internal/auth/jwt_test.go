package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, err := m.GenerateToken("user-1", "a@example.com", "Ada Lovelace")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyToken(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != "user-1" || claims.Email != "a@example.com" || claims.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != time.Hour {
		t.Fatalf("expiry window: got %s want 1h", ttl)
	}
}

func TestVerify_ExpiredTokenFails(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, err := m.GenerateToken("user-1", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// same key, real clock: signature is fine but exp is in the past
	verifier := NewManager("test-secret", time.Hour)

	if _, err := verifier.VerifyToken(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_Rejections(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	good, _ := m.GenerateToken("user-1", "a@example.com", "Ada")

	other := NewManager("another-secret", time.Hour)
	foreign, _ := other.GenerateToken("user-1", "a@example.com", "Ada")

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "user-1"})
	noExpRaw, _ := noExp.SignedString([]byte("test-secret"))

	noID := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	noIDRaw, _ := noID.SignedString([]byte("test-secret"))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	noneRaw, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := map[string]string{
		"wrong_secret": foreign,
		"malformed":    "not.a.jwt",
		"empty":        "",
		"tampered":     tampered,
		"no_expiry":    noExpRaw,
		"no_user_id":   noIDRaw,
		"alg_none":     noneRaw,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.VerifyToken(raw); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
