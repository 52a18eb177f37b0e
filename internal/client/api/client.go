package api

import "context"

// LoginResult is the outcome of the credential step of a login. Exactly one
// of the two fields is meaningful: either a token was issued, or the account
// requires a one-time code and the caller must follow up with LoginWithOTP.
type LoginResult struct {
	AccessToken       string
	TwoFactorRequired bool
}

// Client is the remote admin API surface consumed by the auth services.
//
// Every method suspends only for its single network round trip and honors
// context cancellation/timeouts. No method mutates client-side session
// state; that is the services' job.
type Client interface {
	// Login submits credentials. If the account is protected by a second
	// factor, the result carries TwoFactorRequired and no token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// LoginWithOTP resubmits the credentials together with a one-time code.
	// The server correlates the attempt by account, so the call is
	// self-contained; no challenge handle is involved.
	LoginWithOTP(ctx context.Context, email, password, code string) (string, error)

	// RefreshWithCookie mints a new access token using the HTTP-only
	// refresh cookie the server set at login time. The cookie rides the
	// request automatically via the client's cookie jar.
	RefreshWithCookie(ctx context.Context) (string, error)

	// RefreshWithToken mints a new access token using the current (stale)
	// token as a hint.
	RefreshWithToken(ctx context.Context, token string) (string, error)

	// Logout invalidates the server-side session.
	Logout(ctx context.Context) error

	// EnableOTP starts a second-factor enrollment and returns the
	// provisioning payload (an otpauth:// URL rendered as a QR code by
	// graphical clients).
	EnableOTP(ctx context.Context, adminID string) (string, error)

	// ValidateOTP checks a one-time code for the account. It both finalizes
	// a pending enrollment and serves as a standalone possession check.
	ValidateOTP(ctx context.Context, adminID, code string) error

	// DisableOTP removes the account's second factor. Requires a currently
	// valid one-time code.
	DisableOTP(ctx context.Context, adminID, code string) error

	// RequestPasswordReset asks the server to send a reset code out-of-band.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword submits a new password authorized by a single-use secret
	// code. A true result means the account is OTP-protected and the caller
	// must follow up with ResetPasswordWithOTP using the same secret code.
	ResetPassword(ctx context.Context, secretCode, password string) (twoFactorRequired bool, err error)

	// ResetPasswordWithOTP completes an OTP-protected password reset.
	ResetPasswordWithOTP(ctx context.Context, secretCode, password, code string) error
}
