package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and validates the HS256 access tokens. The payload is
// deliberately minimal: subject carries the user id, exp the expiry.
type TokenIssuer struct {
	signingKey []byte
}

// NewTokenIssuer builds a TokenIssuer from the shared secret.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{signingKey: []byte(secret)}
}

// GenerateAccessToken issues a signed, time-limited token for the user.
func (t *TokenIssuer) GenerateAccessToken(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

var errInvalidToken = errors.New("invalid token")

// ValidateToken parses a token and returns the user id it was issued for.
// Malformed, expired, or non-HMAC tokens all fail.
func (t *TokenIssuer) ValidateToken(tokenString string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return t.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return 0, errInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, errInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errInvalidToken
	}
	return userID, nil
}
