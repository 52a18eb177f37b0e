package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/adminauth/internal/client/api"
)

// fakeClient implements api.Client for unit tests. Behavior and results are
// configured per method; call counts and last-seen arguments are recorded
// for assertions.
type fakeClient struct {
	mu sync.Mutex

	LoginResult *api.LoginResult
	LoginErr    error

	OTPLoginToken string
	OTPLoginErr   error

	RefreshToken string
	RefreshErr   error
	// RefreshBlock, when non-nil, makes refresh calls wait until the channel
	// is closed. Used to exercise the single-flight guard.
	RefreshBlock chan struct{}

	LogoutErr error

	EnableURL   string
	EnableErr   error
	ValidateErr error
	DisableErr  error

	ForgotErr      error
	ResetTwoFactor bool
	ResetErr       error
	ResetOTPErr    error

	LoginCalls         int
	OTPLoginCalls      int
	RefreshCookieCalls int
	RefreshTokenCalls  int
	LogoutCalls        int
	EnableCalls        int
	ValidateCalls      int
	DisableCalls       int
	ForgotCalls        int
	ResetCalls         int
	ResetOTPCalls      int

	LastLoginEmail    string
	LastOTPCode       string
	LastRefreshHint   string
	LastAdminID       string
	LastForgotEmail   string
	LastSecretCode    string
	LastResetPassword string
}

var _ api.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	f.LastLoginEmail = email
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.LoginResult, nil
}

func (f *fakeClient) LoginWithOTP(ctx context.Context, email, password, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.OTPLoginCalls++
	f.LastLoginEmail = email
	f.LastOTPCode = code
	if f.OTPLoginErr != nil {
		return "", f.OTPLoginErr
	}
	return f.OTPLoginToken, nil
}

func (f *fakeClient) RefreshWithCookie(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.RefreshCookieCalls++
	block := f.RefreshBlock
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.RefreshErr != nil {
		return "", f.RefreshErr
	}
	return f.RefreshToken, nil
}

func (f *fakeClient) RefreshWithToken(ctx context.Context, token string) (string, error) {
	f.mu.Lock()
	f.RefreshTokenCalls++
	f.LastRefreshHint = token
	f.mu.Unlock()
	if f.RefreshErr != nil {
		return "", f.RefreshErr
	}
	return f.RefreshToken, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeClient) EnableOTP(ctx context.Context, adminID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EnableCalls++
	f.LastAdminID = adminID
	if f.EnableErr != nil {
		return "", f.EnableErr
	}
	return f.EnableURL, nil
}

func (f *fakeClient) ValidateOTP(ctx context.Context, adminID, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ValidateCalls++
	f.LastAdminID = adminID
	f.LastOTPCode = code
	return f.ValidateErr
}

func (f *fakeClient) DisableOTP(ctx context.Context, adminID, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DisableCalls++
	f.LastAdminID = adminID
	f.LastOTPCode = code
	return f.DisableErr
}

func (f *fakeClient) RequestPasswordReset(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ForgotCalls++
	f.LastForgotEmail = email
	return f.ForgotErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, secretCode, password string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResetCalls++
	f.LastSecretCode = secretCode
	f.LastResetPassword = password
	if f.ResetErr != nil {
		return false, f.ResetErr
	}
	return f.ResetTwoFactor, nil
}

func (f *fakeClient) ResetPasswordWithOTP(ctx context.Context, secretCode, password, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResetOTPCalls++
	f.LastSecretCode = secretCode
	f.LastResetPassword = password
	f.LastOTPCode = code
	return f.ResetOTPErr
}

func (f *fakeClient) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LoginCalls + f.OTPLoginCalls + f.RefreshCookieCalls + f.RefreshTokenCalls +
		f.LogoutCalls + f.EnableCalls + f.ValidateCalls + f.DisableCalls +
		f.ForgotCalls + f.ResetCalls + f.ResetOTPCalls
}
