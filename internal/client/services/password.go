package services

import (
	"strings"
	"unicode"

	"github.com/dmitrijs2005/adminauth/internal/common"
)

// MinPasswordLength is the shortest password the reset flow accepts.
const MinPasswordLength = 12

// PasswordSymbols is the punctuation set of which at least one character is
// required. Fixed by the server-side policy; keep in sync.
const PasswordSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// CheckPasswordStrength enforces the client-side password policy: minimum
// length, at least one upper-case letter, one digit, and one symbol from
// PasswordSymbols. Returns common.ErrWeakPassword on violation.
func CheckPasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return common.ErrWeakPassword
	}
	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasUpper || !hasDigit || !hasSymbol {
		return common.ErrWeakPassword
	}
	return nil
}

// ValidateNewPassword runs the full precondition for a password reset:
// strength first, then equality with the separately captured confirmation.
func ValidateNewPassword(password, confirmation string) error {
	if err := CheckPasswordStrength(password); err != nil {
		return err
	}
	if password != confirmation {
		return common.ErrMismatch
	}
	return nil
}
