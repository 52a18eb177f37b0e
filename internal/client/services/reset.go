package services

import (
	"context"

	"github.com/dmitrijs2005/adminauth/internal/client/api"
	"github.com/dmitrijs2005/adminauth/internal/logging"
)

// ResetService drives the password reset flow:
//
//	Start --SubmitNewPassword, no 2FA-------> Done
//	Start --SubmitNewPassword, 2FA required-> AwaitingOtp
//	AwaitingOtp --SubmitNewPasswordWithOTP--> Done
//
// The flow is independent of any active session and never creates one; on
// Done the operator is routed to the ordinary login screen. The single-use
// secret code from the reset link authorizes every call and is never
// retained beyond the current submission.
type ResetService struct {
	client api.Client
	logger logging.Logger
}

func NewResetService(client api.Client, logger logging.Logger) *ResetService {
	return &ResetService{client: client, logger: logger}
}

// RequestReset asks the server to send a reset code to the account's email.
// It always reports success, whether or not the email is registered and even
// if the call itself fails — a distinguishable outcome would let a caller
// probe which addresses have accounts. Failures are logged only.
func (s *ResetService) RequestReset(ctx context.Context, email string) {
	if err := s.client.RequestPasswordReset(ctx, email); err != nil {
		s.logger.Warn(ctx, "password reset request failed", "error", err)
	}
}

// SubmitNewPassword validates the new password locally and, if it passes,
// submits it under the secret code. Policy violations (ErrWeakPassword,
// ErrMismatch) short-circuit before any network call. A true result means
// the account is OTP-protected and the caller must follow up with
// SubmitNewPasswordWithOTP carrying the same secret code and password.
func (s *ResetService) SubmitNewPassword(ctx context.Context, secretCode, password, confirmation string) (twoFactorRequired bool, err error) {
	if err := ValidateNewPassword(password, confirmation); err != nil {
		return false, err
	}
	return s.client.ResetPassword(ctx, secretCode, password)
}

// SubmitNewPasswordWithOTP completes an OTP-protected reset. The password
// was already validated by the first step; it is carried forward unchanged.
func (s *ResetService) SubmitNewPasswordWithOTP(ctx context.Context, secretCode, password, code string) error {
	return s.client.ResetPasswordWithOTP(ctx, secretCode, password, code)
}
