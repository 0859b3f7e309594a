package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// ResetPasswordLength is the length of generated credentials.
const ResetPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// UserDirectory is the part of the session store the reset flow needs.
type UserDirectory interface {
	FindUserByEmail(email string) (models.UserRecord, bool)
	UpdateUser(ctx context.Context, id models.ID, patch models.UserPatch) (*models.UserRecord, error)
}

// PasswordService resets forgotten passwords.
type PasswordService interface {
	ResetPassword(ctx context.Context, email string) (string, error)
}

type passwordService struct {
	users    UserDirectory
	generate func(int) (string, error)
	log      logging.Logger
}

func NewPasswordService(users UserDirectory, log logging.Logger) PasswordService {
	if log == nil {
		log = logging.Nop()
	}
	return &passwordService{
		users:    users,
		generate: common.RandomPassword,
		log:      log.With("component", "password-reset"),
	}
}

// ResetPassword assigns a fresh random password to the account registered
// under email and returns it for out-of-band delivery.
func (p *passwordService) ResetPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", common.NewError(common.ErrValidation, "email is required")
	}
	if !ValidEmail(email) {
		return "", common.NewError(common.ErrValidation, "email is not valid")
	}

	user, ok := p.users.FindUserByEmail(email)
	if !ok {
		return "", common.NewError(common.ErrNotFound, "no account is registered with this email")
	}

	pw, err := p.generate(ResetPasswordLength)
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}

	if _, err := p.users.UpdateUser(ctx, user.ID, models.UserPatch{Password: &pw}); err != nil {
		return "", err
	}
	p.log.Info(ctx, "password reset", "user_id", user.ID.String())
	return pw, nil
}
