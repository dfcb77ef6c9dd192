// Package auth issues and validates session tokens, keeps the revocation
// ledger and resolves bearer tokens to users.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
)

// Claims carries the subject (user email) and the standard time claims.
type Claims struct {
	jwt.RegisteredClaims
}

// RemainingTTL is how long the token stays valid after now.
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewTokenIssuer(secret string, lifetime time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), lifetime: lifetime, now: time.Now}
}

func (i *TokenIssuer) Lifetime() time.Duration {
	return i.lifetime
}

// Issue signs an HS256 token for subject expiring after the configured lifetime.
// Each token carries a unique jti, so revoking one session leaves the others.
func (i *TokenIssuer) Issue(subject string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.lifetime)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate checks signature, algorithm, expiry and the presence of a subject.
// It does not consult the revocation ledger.
func (i *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
