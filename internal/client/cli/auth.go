package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/studynotes/internal/client/api"
	"github.com/dmitrijs2005/studynotes/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates through the session
// manager. The password buffer is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		a.sink.Error(fmt.Sprintf("Login failed: %v", err))
		return err
	}

	a.sink.Success("Login successful!")
	return nil
}

// Register prompts for the new account's details and creates it. On
// success the session is installed immediately, matching the backend's
// register-then-login behavior.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	firstName, err := getSimpleText(a.reader, "Enter first name", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	input := api.RegisterInput{
		Email:     email,
		Password:  string(password),
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := a.session.Register(ctx, input); err != nil {
		a.sink.Error(fmt.Sprintf("Registration failed: %v", err))
		return err
	}

	a.sink.Success("Registration successful!")
	return nil
}

// Logout ends the session. It cannot fail: the remote call is best-effort
// and the local state is always cleared.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.sink.Success("Logged out successfully")
	return nil
}

// UpdateProfile edits the profile fields the user fills in; empty answers
// leave the current values alone.
func (a *App) UpdateProfile(ctx context.Context) error {
	firstName, err := getSimpleText(a.reader, "First name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Last name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	studyLevel, err := getSimpleText(a.reader, "Study level (empty to keep)", a.out)
	if err != nil {
		return err
	}

	patch := api.ProfilePatch{FirstName: firstName, LastName: lastName, StudyLevel: studyLevel}

	if err := a.session.UpdateProfile(ctx, patch); err != nil {
		a.sink.Error(fmt.Sprintf("Profile update failed: %v", err))
		return err
	}

	a.sink.Success("Profile updated successfully!")
	return nil
}

// ChangePassword rotates the account password and, with it, the session
// token. Both buffers are wiped before returning.
func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	if err := a.session.ChangePassword(ctx, string(oldPassword), string(newPassword)); err != nil {
		a.sink.Error(fmt.Sprintf("Password change failed: %v", err))
		return err
	}

	a.sink.Success("Password changed successfully!")
	return nil
}
