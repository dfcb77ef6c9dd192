package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kariqs/bookbuy-api/auth"
	"github.com/Kariqs/bookbuy-api/common"
	"github.com/Kariqs/bookbuy-api/models"
	"github.com/Kariqs/bookbuy-api/repositories"
	"github.com/Kariqs/bookbuy-api/utils"
	"go.uber.org/zap"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgInactiveUser       = "Inactive user. Please activate your account first."
	msgWrongOldPassword   = "Please enter your current password correctly."
	msgSamePassword       = "Your new password cannot be similar to the old password"
	subjectActivation     = "Activation Token"
)

// MailQueue accepts messages for best-effort background delivery.
type MailQueue interface {
	SendAsync(subject, recipient, body string)
}

type UserService struct {
	users      repositories.UserRepository
	activation *ActivationService
	issuer     *auth.TokenIssuer
	ledger     auth.Ledger
	mail       MailQueue
	log        *zap.Logger
	now        func() time.Time
}

func NewUserService(
	users repositories.UserRepository,
	activation *ActivationService,
	issuer *auth.TokenIssuer,
	ledger auth.Ledger,
	mail MailQueue,
	log *zap.Logger,
) *UserService {
	return &UserService{
		users:      users,
		activation: activation,
		issuer:     issuer,
		ledger:     ledger,
		mail:       mail,
		log:        log,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an inactive user and mails an activation token. The mail
// goes out in the background; the user and token stay even if it fails.
func (s *UserService) Register(ctx context.Context, data models.RegisterData) (*models.User, error) {
	email := normalizeEmail(data.Email)
	msgExists := fmt.Sprintf("User with email %s already exists.", email)

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, common.Conflict(msgExists)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, repositories.StoreError("failed to check user", err)
	}

	hashedPassword, err := utils.HashPassword(data.Password)
	if err != nil {
		return nil, common.Internal("failed to hash password", err)
	}

	user := &models.User{
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       false,
		Role:           models.RoleUser,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, common.Conflict(msgExists)
		}
		return nil, repositories.StoreError("failed to create user", err)
	}

	token, _, err := s.activation.IssueOrReuse(ctx, user.ID)
	if err != nil {
		s.log.Debug("User created without activation token", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.mail.SendAsync(subjectActivation, email,
		fmt.Sprintf("Thank you for registering! Here's your activation token: %s", token.ActivationToken))
	return user, nil
}

// RequestActivationToken returns the user's live token or a fresh one. Only a
// fresh token is mailed.
func (s *UserService) RequestActivationToken(ctx context.Context, email string) (string, bool, error) {
	email = normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", false, common.NotFound(fmt.Sprintf("User with email %s does not exist.", email))
		}
		return "", false, repositories.StoreError("failed to load user", err)
	}

	token, reused, err := s.activation.IssueOrReuse(ctx, user.ID)
	if err != nil {
		return "", false, err
	}
	if !reused {
		s.mail.SendAsync(subjectActivation, email,
			fmt.Sprintf("Your activation token: %s. Please activate your account within 24 hours.", token.ActivationToken))
	}
	return token.ActivationToken, reused, nil
}

func (s *UserService) Activate(ctx context.Context, token string) error {
	return s.activation.Activate(ctx, token)
}

// Login checks credentials and returns a session token for active users.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", common.Validation(msgInvalidCredentials)
		}
		return "", repositories.StoreError("failed to load user", err)
	}

	ok, err := utils.VerifyPassword(password, user.HashedPassword)
	if err != nil {
		return "", common.Internal("stored password hash is corrupt", err)
	}
	if !ok {
		return "", common.Validation(msgInvalidCredentials)
	}
	if !user.IsActive {
		return "", common.Validation(msgInactiveUser)
	}

	token, _, err := s.issuer.Issue(user.Email)
	if err != nil {
		return "", common.Internal("failed to generate token", err)
	}
	return token, nil
}

// ChangePassword revokes the presenting token before storing the new hash, so
// a ledger outage leaves the old password in place.
func (s *UserService) ChangePassword(ctx context.Context, session *auth.Session, data models.ChangePasswordData) error {
	ok, err := utils.VerifyPassword(data.OldPassword, session.User.HashedPassword)
	if err != nil {
		return common.Internal("stored password hash is corrupt", err)
	}
	if !ok {
		return common.Validation(msgWrongOldPassword)
	}
	if data.OldPassword == data.NewPassword {
		return common.Validation(msgSamePassword)
	}

	hashedPassword, err := utils.HashPassword(data.NewPassword)
	if err != nil {
		return common.Internal("failed to hash password", err)
	}
	if err := s.revoke(ctx, session); err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, session.User.ID, hashedPassword); err != nil {
		return repositories.StoreError("failed to update password", err)
	}
	return nil
}

func (s *UserService) Logout(ctx context.Context, session *auth.Session) error {
	return s.revoke(ctx, session)
}

func (s *UserService) revoke(ctx context.Context, session *auth.Session) error {
	return s.ledger.Revoke(ctx, session.Token, session.Claims.RemainingTTL(s.now()))
}
