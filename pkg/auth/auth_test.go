package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == "hunter22" {
		t.Error("HashPassword() returned the plaintext password")
	}
	if !CheckPassword(hash, "hunter22") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if CheckPassword(hash, "hunter23") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "admin@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("Email = %q, want admin@example.com", claims.Email)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < TokenValidity-time.Minute || remaining > TokenValidity {
		t.Errorf("token validity = %v, want about %v", remaining, TokenValidity)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	now := time.Now()
	claims := Claims{
		UserID: 7,
		Email:  "old@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-31 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-24 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateToken(signed); err != ErrInvalidToken {
		t.Errorf("ValidateToken(expired) = %v, want ErrInvalidToken", err)
	}
}

func TestValidateToken_Tampered(t *testing.T) {
	token, err := GenerateToken(1, "user@example.com")
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(token, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))
	if _, err := ValidateToken(strings.Join(parts, ".")); err != ErrInvalidToken {
		t.Errorf("ValidateToken(tampered) = %v, want ErrInvalidToken", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err != ErrInvalidToken {
		t.Errorf("ValidateToken(garbage) = %v, want ErrInvalidToken", err)
	}
}
