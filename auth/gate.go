package auth

import (
	"context"
	"errors"
	"time"

	"github.com/Kariqs/bookbuy-api/common"
	"github.com/Kariqs/bookbuy-api/models"
	"github.com/Kariqs/bookbuy-api/repositories"
)

const (
	msgCouldNotValidate = "Could not validate credentials"
	msgTokenRevoked     = "Token has been revoked"
	msgAdminRequired    = "Admin access required"
)

// Ledger is the part of the revocation ledger the gate and services use.
type Ledger interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// UserFinder resolves a token subject to a stored user.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Session is an authenticated request's principal and the token it presented.
type Session struct {
	User   *models.User
	Token  string
	Claims *Claims
}

type Gate struct {
	ledger Ledger
	issuer *TokenIssuer
	users  UserFinder
}

func NewGate(ledger Ledger, issuer *TokenIssuer, users UserFinder) *Gate {
	return &Gate{ledger: ledger, issuer: issuer, users: users}
}

// Authenticate checks the ledger first, then the token itself, then that its
// subject still names a user.
func (g *Gate) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, common.Unauthenticated("Not authenticated")
	}

	revoked, err := g.ledger.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, common.Unauthenticated(msgTokenRevoked)
	}

	claims, err := g.issuer.Validate(token)
	if err != nil {
		return nil, common.Wrap(err, common.KindUnauthenticated, msgCouldNotValidate)
	}

	user, err := g.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.Unauthenticated(msgCouldNotValidate)
		}
		return nil, repositories.StoreError("failed to load user", err)
	}

	return &Session{User: user, Token: token, Claims: claims}, nil
}

func RequireAdmin(user *models.User) (*models.User, error) {
	if user == nil || !user.IsAdmin() {
		return nil, common.Forbidden(msgAdminRequired)
	}
	return user, nil
}
