package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/client/stores/session"
	"github.com/dmitrijs2005/storefront/internal/common"
)

// Test seams for interactive input.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// readSecret reads a password through the getPassword seam and wipes the
// buffer after copying it.
func (a *App) readSecret(prompt string) (string, error) {
	b, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(b)
	return string(b), nil
}

func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		return common.NewError(common.ErrValidation, "log out before registering a new account")
	}

	var r session.Registration
	var err error
	if r.Name, err = getSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if r.Surname, err = getSimpleText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if r.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if r.Password, err = a.readSecret("Password"); err != nil {
		return err
	}
	confirm, err := a.readSecret("Repeat password")
	if err != nil {
		return err
	}
	if confirm != r.Password {
		return common.NewError(common.ErrValidation, "passwords do not match")
	}

	id, err := a.session.Register(ctx, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", id.Name)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}

	id, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s %s\n", id.Name, id.Surname)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	id, ok := a.session.Identity()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s %s <%s>\nid: %s  role: %s  active: %s\n",
		id.Name, id.Surname, id.Email, id.ID, id.Role, yesNo(id.Active))
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	id, ok := a.session.Identity()
	if !ok {
		return common.NewError(common.ErrAuthentication, "log in to change the password")
	}

	current, err := a.readSecret("Current password")
	if err != nil {
		return err
	}
	next, err := a.readSecret("New password")
	if err != nil {
		return err
	}
	confirm, err := a.readSecret("Repeat new password")
	if err != nil {
		return err
	}
	if confirm != next {
		return common.NewError(common.ErrValidation, "passwords do not match")
	}

	if err := a.session.ChangePassword(ctx, id.ID, current, next); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed")
	return nil
}

// ForgotPassword assigns a new random password to the account and prints it.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	pw, err := a.passwords.ResetPassword(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "A new password was generated: %s\n", pw)
	return nil
}
