// Package auth issues and verifies the bearer tokens used by the HTTP API.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tutorbase/tutorbase/internal/clock"
	"github.com/tutorbase/tutorbase/internal/domain"
)

// Claims are the JWT claims carried by an access token.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	clk    clock.Clock
}

// NewTokenManager creates a token manager.
func NewTokenManager(secret string, ttl time.Duration, clk clock.Clock) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %v", ttl)
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, clk: clk}, nil
}

// Issue signs a token for the user.
func (m *TokenManager) Issue(userID string) (string, error) {
	now := m.clk.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify parses a token and returns the user id it was issued for.
func (m *TokenManager) Verify(raw string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clk.Now))
	if err != nil || !token.Valid {
		return "", domain.ErrInvalidCredentials
	}
	if claims.UserID == "" {
		return "", domain.ErrInvalidCredentials
	}
	return claims.UserID, nil
}
