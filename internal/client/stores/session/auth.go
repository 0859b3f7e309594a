package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/gateway"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
)

// Registration is the input of Register.
type Registration struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

// Login verifies the credentials with the backend and starts a session with
// the returned identity. The registry refresh that follows is best effort:
// its failure is recorded in Status but does not fail the login.
func (s *Store) Login(ctx context.Context, email, password string) (models.Identity, error) {
	id, err := s.gw.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return models.Identity{}, asAuthError(err, "login failed")
	}
	if id.ID.IsZero() {
		return models.Identity{}, common.NewError(common.ErrRemote, "unexpected login response")
	}

	s.startSession(ctx, id)
	s.log.Info(ctx, "logged in", "user_id", id.ID.String())
	return id, nil
}

// Register creates an account and logs into it. An email already present in
// the registry is refused without contacting the backend.
func (s *Store) Register(ctx context.Context, r Registration) (models.Identity, error) {
	email := strings.TrimSpace(r.Email)
	if email == "" || r.Password == "" {
		return models.Identity{}, common.NewError(common.ErrValidation, "email and password are required")
	}
	if _, exists := s.FindUserByEmail(email); exists {
		return models.Identity{}, common.NewError(common.ErrConflict, "a user with this email already exists")
	}

	created, err := s.gw.CreateUser(ctx, models.UserRecord{
		Name:     strings.TrimSpace(r.Name),
		Surname:  strings.TrimSpace(r.Surname),
		Email:    email,
		Password: r.Password,
		Role:     common.RoleUser,
		Active:   true,
	})
	if err != nil {
		return models.Identity{}, err
	}

	s.mu.Lock()
	s.users = append(s.users, created)
	s.mu.Unlock()

	id := created.Identity()
	s.startSession(ctx, id)
	s.log.Info(ctx, "registered", "user_id", id.ID.String())
	return id, nil
}

func (s *Store) startSession(ctx context.Context, id models.Identity) {
	s.mu.Lock()
	s.setIdentityLocked(&id)
	s.mu.Unlock()
	s.persistIdentity(ctx)

	if err := s.Refresh(ctx); err != nil {
		s.log.Warn(ctx, "refresh after sign-in failed", "error", err)
	}
}

// Logout ends the session and forgets its orders.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.setIdentityLocked(nil)
	s.mu.Unlock()
	s.persistIdentity(ctx)
	s.log.Info(ctx, "logged out")
}

// ChangePassword forwards a password change. The session identity is not
// affected.
func (s *Store) ChangePassword(ctx context.Context, id models.ID, current, next string) error {
	if id.IsZero() || current == "" || next == "" {
		return common.NewError(common.ErrValidation, "user id, current and new password are required")
	}
	if err := s.gw.ChangePassword(ctx, id, current, next); err != nil {
		return asAuthError(err, "failed to change password")
	}
	return nil
}

// ForgotPassword reports whether a registered user has email.
func (s *Store) ForgotPassword(email string) bool {
	_, ok := s.FindUserByEmail(email)
	return ok
}

// asAuthError turns a backend rejection into ErrAuthentication, keeping the
// backend message. Transport failures and server faults pass through.
func asAuthError(err error, fallback string) error {
	e, ok := gateway.IsRemote(err)
	if !ok || e.Status >= http.StatusInternalServerError {
		return err
	}
	msg := e.Message
	if msg == "" {
		msg = fallback
	}
	return &common.Error{Kind: common.ErrAuthentication, Status: e.Status, Message: msg}
}
