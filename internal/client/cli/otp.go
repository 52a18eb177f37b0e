package cli

import (
	"context"
	"fmt"
	"os"
)

// ensureAdminID resolves the account identifier the OTP endpoints need. The
// access token is opaque to the client, so the identifier is asked once and
// cached for the rest of the session.
func (a *App) ensureAdminID(ctx context.Context) (string, error) {
	if a.adminID != "" {
		return a.adminID, nil
	}
	id, err := getSimpleText(a.reader, "Enter admin account id", os.Stdout)
	if err != nil {
		return "", err
	}
	a.adminID = id
	return id, nil
}

// OTPEnable starts an enrollment, prints the provisioning material and loops
// on the confirmation code. An empty code leaves the enrollment pending on
// the server; it activates only once confirmed.
func (a *App) OTPEnable(ctx context.Context) error {
	adminID, err := a.ensureAdminID(ctx)
	if err != nil {
		return err
	}

	enr, err := a.otp.Enable(ctx, adminID)
	if err != nil {
		a.printErr(err)
		return nil
	}

	fmt.Println("Scan this URL with your authenticator app:")
	fmt.Println("  " + enr.ProvisioningURL)
	if enr.Secret != "" {
		fmt.Println("Or enter the secret manually:")
		fmt.Printf("  secret:  %s\n", enr.Secret)
		fmt.Printf("  issuer:  %s\n", enr.Issuer)
		fmt.Printf("  account: %s\n", enr.AccountName)
	}

	for {
		code, err := getSimpleText(a.reader, "Enter a code from the app to confirm (empty to cancel)", os.Stdout)
		if err != nil {
			return err
		}
		if code == "" {
			fmt.Println("Enrollment not confirmed; two-factor stays off.")
			return nil
		}
		if err := a.otp.Confirm(ctx, adminID, code); err != nil {
			a.printErr(err)
			continue
		}
		fmt.Println("Two-factor authentication enabled.")
		return nil
	}
}

// OTPDisable removes the second factor after a possession check.
func (a *App) OTPDisable(ctx context.Context) error {
	adminID, err := a.ensureAdminID(ctx)
	if err != nil {
		return err
	}

	code, err := getSimpleText(a.reader, "Enter a current one-time code", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.otp.Disable(ctx, adminID, code); err != nil {
		a.printErr(err)
		return nil
	}
	fmt.Println("Two-factor authentication disabled.")
	return nil
}

// OTPCheck verifies a code without changing the account. Settings screens use
// the same call to re-confirm the factor before a sensitive action.
func (a *App) OTPCheck(ctx context.Context) error {
	adminID, err := a.ensureAdminID(ctx)
	if err != nil {
		return err
	}

	code, err := getSimpleText(a.reader, "Enter a current one-time code", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.otp.Validate(ctx, adminID, code); err != nil {
		a.printErr(err)
		return nil
	}
	fmt.Println("Code accepted.")
	return nil
}
