package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/adminauth/internal/common"
)

// Forgot asks the server to mail a reset code. The printed outcome is the
// same whether or not the address has an account.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getTextWithDefault(a.reader, "Enter email", a.email, os.Stdout)
	if err != nil {
		return err
	}
	a.reset.RequestReset(ctx, email)
	fmt.Println("If the address is registered, a reset code is on its way.")
	return nil
}

// Reset completes a password reset with the code from the email. If the
// account is OTP-protected a second step asks for a one-time code; the secret
// code and the new password carry over unchanged.
func (a *App) Reset(ctx context.Context) error {
	secretCode, err := getSimpleText(a.reader, "Enter the reset code from the email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("New password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword("Repeat new password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	twoFactor, err := a.reset.SubmitNewPassword(ctx, secretCode, string(password), string(confirmation))
	if err != nil {
		a.printErr(err)
		return nil
	}

	if twoFactor {
		for {
			code, err := getSimpleText(a.reader, "Enter one-time code (empty to cancel)", os.Stdout)
			if err != nil {
				return err
			}
			if code == "" {
				fmt.Println("Reset not completed.")
				return nil
			}
			if err := a.reset.SubmitNewPasswordWithOTP(ctx, secretCode, string(password), code); err != nil {
				a.printErr(err)
				continue
			}
			break
		}
	}

	fmt.Println("Password changed. Please log in with the new password.")
	return nil
}
