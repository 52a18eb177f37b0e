package services

import (
	"context"

	"github.com/pquerna/otp"

	"github.com/dmitrijs2005/adminauth/internal/client/api"
	"github.com/dmitrijs2005/adminauth/internal/logging"
)

// Enrollment is an in-progress second-factor enable operation. The
// provisioning URL (otpauth://) is what graphical clients render as a QR
// code; Secret/Issuer/AccountName are parsed out of it for text UIs that
// cannot display an image. The enrollment is not active until Confirm
// succeeds with a code generated from the secret.
type Enrollment struct {
	ProvisioningURL string
	Secret          string
	Issuer          string
	AccountName     string
}

// OTPService manages the account's second factor. It holds no state of its
// own: enabled/not-enabled is authoritative on the server, and every call is
// a fresh, independently retriable request. It never touches the session
// store; login-time code validation goes through SessionService.
type OTPService struct {
	client api.Client
	logger logging.Logger

	// afterToggle runs after a successful Confirm or Disable. Toggling the
	// second factor changes the account's login behavior, so the
	// presentation layer hooks this to refresh its cached account flags.
	afterToggle func(context.Context)
}

func NewOTPService(client api.Client, logger logging.Logger) *OTPService {
	return &OTPService{client: client, logger: logger}
}

// OnToggle registers a callback invoked after the account's OTP protection
// actually changes (successful Confirm or Disable).
func (s *OTPService) OnToggle(fn func(context.Context)) {
	s.afterToggle = fn
}

// Enable starts an enrollment for the account. Calling it while the second
// factor is already active is a caller error the server rejects.
func (s *OTPService) Enable(ctx context.Context, adminID string) (*Enrollment, error) {
	provisioningURL, err := s.client.EnableOTP(ctx, adminID)
	if err != nil {
		return nil, err
	}

	enr := &Enrollment{ProvisioningURL: provisioningURL}
	key, err := otp.NewKeyFromURL(provisioningURL)
	if err != nil {
		// The raw payload is still scannable; only the text fallback is lost.
		s.logger.Warn(ctx, "provisioning payload is not a parsable otpauth URL", "error", err)
		return enr, nil
	}
	enr.Secret = key.Secret()
	enr.Issuer = key.Issuer()
	enr.AccountName = key.AccountName()
	return enr, nil
}

// Confirm finalizes an enrollment with a code generated from the enrolled
// secret. A wrong code does not consume the enrollment; the operator may
// retry with the next code.
func (s *OTPService) Confirm(ctx context.Context, adminID, code string) error {
	if err := s.client.ValidateOTP(ctx, adminID, code); err != nil {
		return err
	}
	s.logger.Info(ctx, "second factor enabled", "admin_id", adminID)
	s.notifyToggle(ctx)
	return nil
}

// Disable removes the account's second factor. A wrong code leaves it
// enabled.
func (s *OTPService) Disable(ctx context.Context, adminID, code string) error {
	if err := s.client.DisableOTP(ctx, adminID, code); err != nil {
		return err
	}
	s.logger.Info(ctx, "second factor disabled", "admin_id", adminID)
	s.notifyToggle(ctx)
	return nil
}

// Validate is a standalone possession check, used by settings screens to
// re-confirm the factor before a sensitive change. It does not alter the
// account.
func (s *OTPService) Validate(ctx context.Context, adminID, code string) error {
	return s.client.ValidateOTP(ctx, adminID, code)
}

func (s *OTPService) notifyToggle(ctx context.Context) {
	if s.afterToggle != nil {
		s.afterToggle(ctx)
	}
}
