package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string, ttl time.Duration) (string, error)
}

// TokenVerifier validates bearer tokens and extracts the user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// ErrInvalidToken is returned for malformed, forged or expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager issues HS256-signed JWTs carrying only identity and expiry,
// so no session state is kept server-side.
type JWTManager struct {
	secret []byte
}

// NewJWTManager creates a token manager with the given signing secret.
func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret)}
}

// Ensure JWTManager implements both sides.
var (
	_ TokenIssuer   = (*JWTManager)(nil)
	_ TokenVerifier = (*JWTManager)(nil)
)

// Issue mints a token for userID valid for ttl.
func (m *JWTManager) Issue(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks the token's signature and expiry and returns the user ID.
func (m *JWTManager) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
