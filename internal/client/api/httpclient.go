package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/adminauth/internal/common"
)

// TokenSource supplies the current access token for the bearer header.
// *session.Store satisfies it.
type TokenSource interface {
	Token() (string, bool)
}

// HTTPClient is the concrete Client over net/http. It owns a cookie jar so
// the HTTP-only refresh cookie set by the server at login is replayed on the
// refresh call without the client ever reading it.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a transport rooted at baseURL. tokens may be nil for
// consumers that never call authenticated endpoints. timeout of zero means
// no client-side deadline beyond the caller's context.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
		tokens:  tokens,
	}, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/admin/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: resp.AccessToken, TwoFactorRequired: resp.TwoFactorRequired}, nil
}

func (c *HTTPClient) LoginWithOTP(ctx context.Context, email, password, code string) (string, error) {
	var resp loginResponse
	req := otpLoginRequest{Email: email, Password: password, Code: code}
	if err := c.do(ctx, http.MethodPost, "/admin/auth/2fa/login", req, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) RefreshWithCookie(ctx context.Context) (string, error) {
	var resp refreshResponse
	if err := c.do(ctx, http.MethodPost, "/admin/auth/refresh", refreshRequest{}, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) RefreshWithToken(ctx context.Context, token string) (string, error) {
	var resp refreshResponse
	if err := c.do(ctx, http.MethodPost, "/admin/auth/refresh", refreshRequest{Token: token}, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/auth/logout", nil, nil)
}

func (c *HTTPClient) EnableOTP(ctx context.Context, adminID string) (string, error) {
	var resp enableOTPResponse
	if err := c.do(ctx, http.MethodPost, "/admin/auth/2fa/enable", enableOTPRequest{AdminID: adminID}, &resp); err != nil {
		return "", err
	}
	return resp.QRCode, nil
}

func (c *HTTPClient) ValidateOTP(ctx context.Context, adminID, code string) error {
	return c.do(ctx, http.MethodPost, "/admin/auth/2fa/validate", otpActionRequest{AdminID: adminID, Code: code}, nil)
}

func (c *HTTPClient) DisableOTP(ctx context.Context, adminID, code string) error {
	return c.do(ctx, http.MethodPost, "/admin/auth/2fa/disable", otpActionRequest{AdminID: adminID, Code: code}, nil)
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/admin/auth/forgotPassword", forgotPasswordRequest{Email: email}, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, secretCode, password string) (bool, error) {
	var resp resetPasswordResponse
	req := resetPasswordRequest{Password: password, SecretCode: secretCode}
	if err := c.do(ctx, http.MethodPatch, "/admin/auth/password", req, &resp); err != nil {
		return false, err
	}
	return resp.TwoFactorRequired, nil
}

func (c *HTTPClient) ResetPasswordWithOTP(ctx context.Context, secretCode, password, code string) error {
	req := otpResetPasswordRequest{Password: password, Code: code, SecretCode: secretCode}
	return c.do(ctx, http.MethodPatch, "/admin/auth/2fa/password", req, nil)
}

// do performs one JSON round trip. body==nil sends no payload; out==nil
// discards the response body. Non-2xx responses and network failures come
// back as sentinel errors from internal/common.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return c.mapError(resp)
	}

	if out != nil {
		// A bare 2xx with no body is a valid "nothing to report" response
		// (e.g. a reset that needed no second factor).
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// mapError translates an error response into the sentinel taxonomy. The
// server names the failure in the body; the status code alone is not enough
// to tell a bad password from a bad one-time code.
func (c *HTTPClient) mapError(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)

	switch body.Error {
	case codeInvalidCredentials:
		return common.ErrAuthFailure
	case codeInvalidOTP:
		return common.ErrInvalidOTP
	case codeSessionExpired:
		return common.ErrSessionExpired
	}
	if body.Error != "" {
		return fmt.Errorf("%w: %s (status %d)", common.ErrUnexpected, body.Error, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d", common.ErrUnexpected, resp.StatusCode)
}
