// Package auth issues and verifies HS256 access tokens for vault owners.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/vrushal09/passnext/internal/errs"
)

const verifyLeeway = 30 * time.Second

// TokenManager signs and verifies owner access tokens.
type TokenManager struct {
	signKey   []byte
	accessTTL time.Duration
}

func NewTokenManager(signKey []byte, accessTTL time.Duration) *TokenManager {
	return &TokenManager{signKey: signKey, accessTTL: accessTTL}
}

// Issue creates a signed HS256 JWT for the given owner.
func (m *TokenManager) Issue(ownerID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   ownerID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.signKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature and validity, returning the owner ID from sub.
func (m *TokenManager) Verify(token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.signKey, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, errs.ErrUnauthorized
	}

	v := jwt.NewValidator(jwt.WithLeeway(verifyLeeway))
	if err := v.Validate(&claims); err != nil {
		return uuid.Nil, errs.ErrUnauthorized
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return id, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <JWT>" header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) >= 7 && strings.EqualFold(header[:7], "bearer ") {
		if t := strings.TrimSpace(header[7:]); t != "" {
			return t, nil
		}
	}
	return "", errs.ErrUnauthorized
}
