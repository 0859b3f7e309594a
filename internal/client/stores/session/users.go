package session

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
)

// FindUserByEmail looks the email up in the registry, ignoring case.
func (s *Store) FindUserByEmail(email string) (models.UserRecord, bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.UserRecord{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.users, func(u models.UserRecord) bool { return models.SameEmail(u.Email, email) })
	if i < 0 {
		return models.UserRecord{}, false
	}
	return s.users[i], true
}

// UpdateUser merges patch over the registry record with id and stores the
// result on the backend. An id missing from the registry is a silent no-op
// (nil record, nil error). When id is the session user, the identity picks
// up the new name, surname, email and role; a role change triggers a
// refresh so the order scope follows it.
func (s *Store) UpdateUser(ctx context.Context, id models.ID, patch models.UserPatch) (*models.UserRecord, error) {
	s.mu.Lock()
	rec, ok := findUser(s.users, id)
	s.mu.Unlock()
	if !ok {
		s.log.Debug(ctx, "update of unknown user ignored", "user_id", id.String())
		return nil, nil
	}

	updated, err := s.gw.UpdateUser(ctx, id, patch.Apply(rec))
	if err != nil {
		return nil, err
	}
	if updated.ID.IsZero() {
		updated.ID = id
	}

	s.mu.Lock()
	if i := slices.IndexFunc(s.users, func(u models.UserRecord) bool { return u.ID == updated.ID }); i >= 0 {
		s.users[i] = updated
	}
	var identityChanged, scopeChanged bool
	if s.current != nil && s.current.ID == id {
		next := *s.current
		next.Name = updated.Name
		next.Surname = updated.Surname
		next.Email = updated.Email
		if updated.Role != "" {
			next.Role = updated.Role
		}
		scopeChanged = models.IsAdmin(next.Role) != models.IsAdmin(s.current.Role)
		identityChanged = next != *s.current
		s.current = &next
	}
	s.mu.Unlock()

	if identityChanged {
		s.persistIdentity(ctx)
	}
	if scopeChanged {
		s.requestRefresh()
	}
	return &updated, nil
}

// ToggleActive flips the active flag of a registry user locally. Only an
// administrator session may do it.
func (s *Store) ToggleActive(id models.ID) (models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || !models.IsAdmin(s.current.Role) {
		return models.UserRecord{}, common.NewError(common.ErrAuthentication, "administrator access required")
	}
	i := slices.IndexFunc(s.users, func(u models.UserRecord) bool { return u.ID == id })
	if i < 0 {
		return models.UserRecord{}, common.NewError(common.ErrNotFound, "user not found")
	}
	s.users[i].Active = !s.users[i].Active
	return s.users[i], nil
}
