package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/common"
)

// Login prompts for an email and password, authenticates and resolves the
// session identity. The password is wiped before returning.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password: ", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if a.loggedIn {
		a.endSession()
	}

	creds := models.Credentials{Email: email, Password: string(password)}
	if err := a.authService.Login(ctx, creds); err != nil {
		return err
	}

	a.startSession(ctx)
	fmt.Fprintf(a.out, "Logged in as %s (%s).\n", a.who.User.DisplayName(), a.who.Role())
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	err := a.authService.Logout(ctx)
	a.endSession()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Whoami re-resolves the identity. A successful lookup replaces the cached
// one and rescopes the list; a failed one falls back to what is cached.
func (a *App) Whoami(ctx context.Context, _ []string) error {
	who, err := a.identity.Current(ctx)
	if err != nil {
		a.logger.Warn(ctx, "profile refresh failed", "error", err.Error())
		if !a.who.Resolved {
			fmt.Fprintln(a.out, "Logged in; profile unavailable (view-only access).")
			return nil
		}
		fmt.Fprintln(a.out, "Could not refresh your profile; showing the last known one.")
	} else {
		a.setIdentity(who)
	}
	printUser(a.out, a.who.User)
	return nil
}

// Profile shows the profile; "profile edit" prompts for phone and email.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.Whoami(ctx, nil)
	}
	if len(args) != 1 || args[0] != "edit" {
		return usage("profile [edit]")
	}
	if !a.who.Resolved {
		return errNotPermitted
	}

	phone, err := getSimpleText(a.reader, "Phone (empty to keep)", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if phone == "" && email == "" {
		fmt.Fprintln(a.out, "Nothing to update.")
		return nil
	}

	u, err := a.identity.UpdateProfile(ctx, models.ProfileUpdate{Phone: phone, Email: email})
	if err != nil {
		return err
	}
	a.who.User = u
	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

func (a *App) Passwd(ctx context.Context, _ []string) error {
	current, err := getPassword(a.reader, "Current password: ", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(a.reader, "New password: ", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	again, err := getPassword(a.reader, "Repeat new password: ", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	if string(next) != string(again) {
		return errors.New("passwords do not match")
	}

	pc := models.PasswordChange{CurrentPassword: string(current), NewPassword: string(next)}
	if err := a.authService.ChangePassword(ctx, pc); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}
