// Package auth issues and verifies HS256 access tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/samirrijal/routekit/internal/core/domain"
)

// minSecretLen matches the auth.jwt_secret config check.
const minSecretLen = 32

// Claims are the access token claims. Subject carries the user ID.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager handles token creation and validation.
type JWTManager struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time
}

// NewJWTManager creates a manager signing with secret; tokens live for timeout.
func NewJWTManager(secret string, timeout time.Duration) (*JWTManager, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLen)
	}
	if timeout <= 0 {
		return nil, errors.New("jwt timeout must be positive")
	}
	return &JWTManager{secret: []byte(secret), timeout: timeout, now: time.Now}, nil
}

// Generate signs a token for user.
func (m *JWTManager) Generate(user *domain.User) (string, error) {
	now := m.now()
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses tokenString and returns its claims.
// Tokens signed with anything but HMAC are rejected.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Email == "" {
		return nil, errors.New("token has no email claim")
	}
	return claims, nil
}

// Verify returns the e-mail claim of a valid token.
func (m *JWTManager) Verify(tokenString string) (string, error) {
	claims, err := m.Validate(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}
