// Package services holds the business rules. Services take repositories and
// collaborators through their constructors and return common.Error values.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/Kariqs/bookbuy-api/common"
	"github.com/Kariqs/bookbuy-api/models"
	"github.com/Kariqs/bookbuy-api/repositories"
	"github.com/Kariqs/bookbuy-api/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// activationTokenBytes yields a 32 character hex token.
const activationTokenBytes = 16

var (
	ErrActivationTokenInvalid = common.Validation("Invalid token.")
	ErrActivationTokenExpired = common.Validation("Token has expired.")
)

// ActivationService manages the one-time tokens that activate new accounts.
// A user has at most one token document; the unique user_id index backs that.
type ActivationService struct {
	tokens repositories.ActivationTokenRepository
	users  repositories.UserRepository
	ttl    time.Duration
	now    func() time.Time
}

func NewActivationService(tokens repositories.ActivationTokenRepository, users repositories.UserRepository, ttl time.Duration) *ActivationService {
	return &ActivationService{tokens: tokens, users: users, ttl: ttl, now: time.Now}
}

// IssueOrReuse returns the user's live token unchanged (reused=true) or, after
// deleting an expired one, mints a new token.
func (s *ActivationService) IssueOrReuse(ctx context.Context, userID bson.ObjectID) (*models.ActivationToken, bool, error) {
	// A second pass only happens when a concurrent request inserted a token
	// between our read and our insert; the re-read then returns theirs.
	for attempt := 0; attempt < 2; attempt++ {
		now := s.now().UTC()

		existing, err := s.tokens.FindByUser(ctx, userID)
		switch {
		case err == nil && !existing.Expired(now):
			return existing, true, nil
		case err == nil:
			if err := s.tokens.Delete(ctx, existing.ID); err != nil {
				return nil, false, repositories.StoreError("failed to delete expired activation token", err)
			}
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, false, repositories.StoreError("failed to load activation token", err)
		}

		code, err := utils.GenerateCode(activationTokenBytes)
		if err != nil {
			return nil, false, common.Internal("failed to generate activation token", err)
		}
		token := &models.ActivationToken{
			ActivationToken: code,
			UserID:          userID,
			ExpiresAt:       now.Add(s.ttl),
		}

		err = s.tokens.Create(ctx, token)
		if err == nil {
			return token, false, nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, false, repositories.StoreError("failed to save activation token", err)
		}
	}
	return nil, false, common.Internal("failed to issue activation token", nil)
}

// Activate consumes token and activates its user. Consumption is a single
// conditional delete, so concurrent attempts with one token succeed at most
// once. An expired token is deleted when it is presented.
func (s *ActivationService) Activate(ctx context.Context, code string) error {
	token, err := s.tokens.ConsumeValid(ctx, code, s.now().UTC())
	if err == nil {
		if err := s.users.SetActive(ctx, token.UserID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrActivationTokenInvalid
			}
			return repositories.StoreError("failed to activate user", err)
		}
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return repositories.StoreError("failed to consume activation token", err)
	}

	_, err = s.tokens.DeleteByToken(ctx, code)
	switch {
	case err == nil:
		return ErrActivationTokenExpired
	case errors.Is(err, repositories.ErrNotFound):
		return ErrActivationTokenInvalid
	default:
		return repositories.StoreError("failed to delete activation token", err)
	}
}
