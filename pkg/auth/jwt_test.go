package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	prevSecret, prevTTL := JWTSecretKey, TokenTTL
	JWTSecretKey = secret
	t.Cleanup(func() {
		JWTSecretKey = prevSecret
		TokenTTL = prevTTL
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	withSecret(t, "test-secret")
	TokenTTL = time.Minute

	tokenString, err := GenerateSessionToken("session-a")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	if strings.Count(tokenString, ".") != 2 {
		t.Fatalf("token %q is not a compact JWS", tokenString)
	}

	claims, err := ValidateSessionToken(tokenString)
	if err != nil {
		t.Fatalf("ValidateSessionToken: %v", err)
	}
	if claims.SessionID != "session-a" {
		t.Errorf("session id = %q, want session-a", claims.SessionID)
	}
	if claims.Subject != "session-a" {
		t.Errorf("subject = %q, want session-a", claims.Subject)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > time.Minute {
		t.Errorf("expiry %v not bounded by the ttl", claims.ExpiresAt)
	}
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	withSecret(t, "")

	if _, err := GenerateSessionToken("session-a"); err == nil {
		t.Fatal("minted a token with no secret configured")
	}
	if _, err := ValidateSessionToken("anything"); err == nil {
		t.Fatal("validated a token with no secret configured")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	withSecret(t, "secret-one")
	TokenTTL = time.Minute

	tokenString, err := GenerateSessionToken("session-a")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	JWTSecretKey = "secret-two"
	if _, err := ValidateSessionToken(tokenString); err == nil {
		t.Fatal("accepted a token signed with a different secret")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	withSecret(t, "test-secret")

	past := time.Now().Add(-2 * time.Hour)
	claims := SessionTokenClaims{
		SessionID: "session-a",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "session-a",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecretKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ValidateSessionToken(tokenString); err == nil {
		t.Fatal("accepted an expired token")
	}
}

func TestValidateRejectsUnsignedToken(t *testing.T) {
	withSecret(t, "test-secret")

	claims := SessionTokenClaims{SessionID: "session-a"}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ValidateSessionToken(tokenString); err == nil {
		t.Fatal("accepted an alg=none token")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	withSecret(t, "test-secret")

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		if _, err := ValidateSessionToken(tokenString); err == nil {
			t.Errorf("ValidateSessionToken(%q) = nil error", tokenString)
		}
	}
}
