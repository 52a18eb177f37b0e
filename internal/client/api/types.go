package api

// Wire DTOs for the admin auth endpoints. Field names follow the server's
// JSON contract exactly; do not rename.

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken       string `json:"access_token"`
	TwoFactorRequired bool   `json:"two_factor_required"`
}

type otpLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type refreshRequest struct {
	Token string `json:"token,omitempty"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type enableOTPRequest struct {
	AdminID string `json:"adminId"`
}

type enableOTPResponse struct {
	QRCode string `json:"qrCode"`
}

type otpActionRequest struct {
	AdminID string `json:"adminId"`
	Code    string `json:"code"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password   string `json:"password"`
	SecretCode string `json:"secretCode"`
}

type resetPasswordResponse struct {
	TwoFactorRequired bool `json:"two_factor_required"`
}

type otpResetPasswordRequest struct {
	Password   string `json:"password"`
	Code       string `json:"code"`
	SecretCode string `json:"secretCode"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Error codes the server attaches to non-2xx responses.
const (
	codeInvalidCredentials = "invalid_credentials"
	codeInvalidOTP         = "invalid_otp"
	codeSessionExpired     = "session_expired"
)
