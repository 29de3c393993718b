package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/vkozyrev/sharebox/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and attempts to create a new
// account via the AuthService. Validation failures are echoed with the
// offending field so the user knows what to fix.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email (optional)", os.Stdout)
	if err != nil {
		return err
	}

	res := a.authService.Signup(ctx, services.SignupData{
		Username: username,
		Password: password,
		FullName: fullName,
		Email:    email,
	})
	if !res.Success {
		printResultFailure(res)
		return nil
	}

	fmt.Printf("Welcome, %s!\n", res.User.DisplayName())
	a.setMode(ModeOnline)
	return nil
}

// Login prompts for credentials and tries to authenticate.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	res := a.authService.Login(ctx, services.LoginData{Username: username, Password: password})
	if !res.Success {
		printResultFailure(res)
		return nil
	}

	fmt.Printf("Welcome back, %s!\n", res.User.DisplayName())
	a.setMode(ModeOnline)
	return nil
}

// Logout ends the session. The local session is always cleared, even when
// the backend cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	fmt.Println("Logged out")
	return nil
}

// Whoami prints the cached profile and refreshes it from the backend when
// possible.
func (a *App) Whoami(ctx context.Context) error {
	user := a.authService.RefreshProfile(ctx)
	if user == nil {
		user = a.authService.LoggedInUser(ctx)
	}
	if user == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s (%s)\n", user.DisplayName(), user.Username)
	return nil
}

func printResultFailure(res services.AuthResult) {
	if res.Field != "" {
		fmt.Printf("%s: %s\n", res.Field, res.Message)
		return
	}
	fmt.Println(res.Message)
}
