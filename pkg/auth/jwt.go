package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/env"
)

// JWTSecretKey signs WebSocket access tokens. WebSocket clients cannot set
// custom headers on the upgrade request, so they exchange the API key for a
// short-lived token first and pass it as a query parameter.
var JWTSecretKey string

// TokenTTL bounds how long a minted WebSocket token stays valid.
var TokenTTL time.Duration

func init() {
	JWTSecretKey = env.GetEnvStringOrDefault("JWT_SECRET_KEY", "")
	TokenTTL = env.GetEnvDurationOrDefault("WS_TOKEN_TTL", time.Hour)
}

// SessionTokenClaims represents the claims in a WebSocket access token.
// SessionID "all" grants a firehose subscription across every session.
type SessionTokenClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// GenerateSessionToken mints a short-lived token scoped to one session id.
func GenerateSessionToken(sessionID string) (string, error) {
	if JWTSecretKey == "" {
		return "", errors.New("JWT_SECRET_KEY not configured")
	}

	now := time.Now()
	claims := SessionTokenClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(JWTSecretKey))
}

// ValidateSessionToken validates a WebSocket token and returns its claims.
func ValidateSessionToken(tokenString string) (*SessionTokenClaims, error) {
	if JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(JWTSecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionTokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token claims")
}
