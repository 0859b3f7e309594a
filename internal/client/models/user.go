package models

import (
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// Identity is the session's locally cached projection of the authenticated
// user. It never carries credential material.
type Identity struct {
	ID      ID     `json:"id"`
	Name    string `json:"nombre"`
	Surname string `json:"apellido"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Active  bool   `json:"activo"`
}

// IsAdmin reports whether role grants the unfiltered order view. The check
// ignores case and surrounding whitespace.
func IsAdmin(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), common.RoleAdmin)
}

// UserRecord is the authoritative server-side user.
type UserRecord struct {
	ID       ID     `json:"id,omitempty"`
	Name     string `json:"nombre"`
	Surname  string `json:"apellido"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
	Active   bool   `json:"activo"`
}

// Identity derives the redacted projection of the record.
func (u UserRecord) Identity() Identity {
	return Identity{
		ID:      u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
		Role:    u.Role,
		Active:  u.Active,
	}
}

// SameEmail compares two emails case-insensitively, ignoring surrounding
// whitespace.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// UserPatch lists the fields to overwrite on a UserRecord; nil fields are
// left untouched.
type UserPatch struct {
	Name     *string
	Surname  *string
	Email    *string
	Role     *string
	Password *string
	Active   *bool
}

// Apply returns a copy of u with the patch merged over it.
func (p UserPatch) Apply(u UserRecord) UserRecord {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Surname != nil {
		u.Surname = *p.Surname
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Active != nil {
		u.Active = *p.Active
	}
	return u
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordChange is the body of PUT /usuarios/{id}/password.
type PasswordChange struct {
	Current string `json:"actual"`
	Next    string `json:"nueva"`
}
