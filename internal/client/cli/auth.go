package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/adminauth/internal/common"
)

// getSimpleText, getTextWithDefault and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getTextWithDefault = GetTextWithDefault
var getPassword = GetPassword

// Login prompts for credentials and authenticates. If the account is
// OTP-protected the method loops on the code prompt; an empty code abandons
// the pending challenge and leaves the operator anonymous. The password is
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getTextWithDefault(a.reader, "Enter email", a.email, os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	twoFactor, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		a.printErr(err)
		return nil
	}

	if twoFactor {
		a.otpOn = true
		if err := a.loginSecondFactor(ctx, email, string(password)); err != nil {
			return err
		}
		if !a.isLoggedIn() {
			return nil
		}
	}

	a.email = email
	a.rememberLogin(ctx, email)
	fmt.Println("Logged in.")
	return nil
}

// loginSecondFactor runs the code prompt loop for an OTP-protected login.
// A wrong code is retriable; an empty input cancels.
func (a *App) loginSecondFactor(ctx context.Context, email, password string) error {
	for {
		code, err := getSimpleText(a.reader, "Enter one-time code (empty to cancel)", os.Stdout)
		if err != nil {
			return err
		}
		if code == "" {
			a.session.AbandonChallenge(ctx)
			fmt.Println("Login cancelled.")
			return nil
		}
		if err := a.session.LoginWithOTP(ctx, email, password, code); err != nil {
			a.printErr(err)
			continue
		}
		return nil
	}
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}

// Refresh forces a token rotation; useful when the server reports the
// current token stale.
func (a *App) Refresh(ctx context.Context) error {
	if _, err := a.session.RefreshAccessToken(ctx); err != nil {
		a.printErr(err)
		return nil
	}
	fmt.Println("Token refreshed.")
	return nil
}
