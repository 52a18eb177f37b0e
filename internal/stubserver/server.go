// Package stubserver is an in-memory stand-in for the remote admin API,
// covering exactly the auth endpoints the client consumes. It exists so the
// CLI can run against something local and so transport tests stay hermetic;
// it is not a product server and holds no durable state.
package stubserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pquerna/otp/totp"

	"github.com/dmitrijs2005/adminauth/internal/common"
	"github.com/dmitrijs2005/adminauth/internal/logging"
)

// Account is one seeded admin account. TOTP state mirrors what a real
// backend would keep: an active secret once enabled, and a pending secret
// between enable and confirm.
type Account struct {
	AdminID  string
	Email    string
	Password string

	OTPEnabled    bool
	otpSecret     string
	pendingSecret string
	// lastCode rejects replay of an already-consumed one-time code.
	lastCode string
}

// Server implements the admin auth API over an in-memory account registry.
type Server struct {
	mu         sync.Mutex
	accounts   map[string]*Account // by email
	byID       map[string]*Account // by admin id
	refresh    map[string]string   // refresh credential -> email
	resetCodes map[string]string   // secret code -> email

	issuer     string
	signingKey []byte
	tokenTTL   time.Duration
	logger     logging.Logger
}

func New(logger logging.Logger) *Server {
	return &Server{
		accounts:   make(map[string]*Account),
		byID:       make(map[string]*Account),
		refresh:    make(map[string]string),
		resetCodes: make(map[string]string),
		issuer:     "AdminConsole",
		signingKey: []byte(uuid.NewString()),
		tokenTTL:   15 * time.Minute,
		logger:     logger,
	}
}

// AddAccount registers an account without a second factor.
func (s *Server) AddAccount(adminID, email, password string) *Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := &Account{AdminID: adminID, Email: email, Password: password}
	s.accounts[email] = acct
	s.byID[adminID] = acct
	return acct
}

// SeedTOTP force-enables the second factor for an account and returns the
// secret, so tests can drive OTP-protected flows without the enrollment
// dance.
func (s *Server) SeedTOTP(adminID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byID[adminID]
	if !ok {
		return "", false
	}
	key, err := totp.Generate(totp.GenerateOpts{Issuer: s.issuer, AccountName: acct.Email})
	if err != nil {
		return "", false
	}
	acct.OTPEnabled = true
	acct.otpSecret = key.Secret()
	return acct.otpSecret, true
}

// ResetCodeFor returns the most recently issued reset code for the email.
// Out-of-band delivery is simulated by handing the code to the test.
func (s *Server) ResetCodeFor(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, e := range s.resetCodes {
		if e == email {
			return code, true
		}
	}
	return "", false
}

// Handler returns the routed HTTP surface.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/admin/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/admin/auth/2fa/login", s.handleOTPLogin).Methods(http.MethodPost)
	r.HandleFunc("/admin/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/admin/auth/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/admin/auth/2fa/enable", s.requireAuth(s.handleEnable)).Methods(http.MethodPost)
	r.HandleFunc("/admin/auth/2fa/validate", s.requireAuth(s.handleValidate)).Methods(http.MethodPost)
	r.HandleFunc("/admin/auth/2fa/disable", s.requireAuth(s.handleDisable)).Methods(http.MethodPost)
	r.HandleFunc("/admin/auth/forgotPassword", s.handleForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/admin/auth/password", s.handleResetPassword).Methods(http.MethodPatch)
	r.HandleFunc("/admin/auth/2fa/password", s.handleResetPasswordOTP).Methods(http.MethodPatch)
	return r
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Email]
	if !ok || acct.Password != req.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if acct.OTPEnabled {
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"two_factor_required": true})
		return
	}
	token, err := s.mintTokenLocked(acct)
	if err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "token_mint_failed")
		return
	}
	s.setRefreshCookieLocked(w, acct)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"access_token": token})
}

func (s *Server) handleOTPLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Code     string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Email]
	if !ok || acct.Password != req.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if !acct.OTPEnabled || !s.checkCodeLocked(acct, acct.otpSecret, req.Code) {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "invalid_otp")
		return
	}
	token, err := s.mintTokenLocked(acct)
	if err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "token_mint_failed")
		return
	}
	s.setRefreshCookieLocked(w, acct)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"access_token": token})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Cookie-based refresh: the credential the browser carries without the
	// client ever reading it.
	if cookie, err := r.Cookie(common.RefreshCookieName); err == nil {
		if email, ok := s.refresh[cookie.Value]; ok {
			acct := s.accounts[email]
			delete(s.refresh, cookie.Value)
			token, err := s.mintTokenLocked(acct)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "token_mint_failed")
				return
			}
			s.setRefreshCookieLocked(w, acct)
			writeJSON(w, http.StatusOK, map[string]any{"access_token": token})
			return
		}
	}

	// Token-hinted refresh: accept an expired but authentically signed token.
	if req.Token != "" {
		if acct, ok := s.byID[s.parseToken(req.Token, true)]; ok {
			token, err := s.mintTokenLocked(acct)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "token_mint_failed")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"access_token": token})
			return
		}
	}

	writeError(w, http.StatusUnauthorized, "session_expired")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if cookie, err := r.Cookie(common.RefreshCookieName); err == nil {
		delete(s.refresh, cookie.Value)
	}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshCookieName,
		Value:    "",
		Path:     "/admin/auth",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEnable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminID string `json:"adminId"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byID[req.AdminID]
	if !ok {
		writeError(w, http.StatusNotFound, "account_not_found")
		return
	}
	if acct.OTPEnabled {
		writeError(w, http.StatusConflict, "otp_already_enabled")
		return
	}
	key, err := totp.Generate(totp.GenerateOpts{Issuer: s.issuer, AccountName: acct.Email})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "totp_generate_failed")
		return
	}
	acct.pendingSecret = key.Secret()
	writeJSON(w, http.StatusOK, map[string]any{"qrCode": key.URL()})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminID string `json:"adminId"`
		Code    string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byID[req.AdminID]
	if !ok {
		writeError(w, http.StatusNotFound, "account_not_found")
		return
	}

	// A pending enrollment is confirmed by its first valid code; afterwards
	// the same endpoint serves as a standalone possession check.
	if acct.pendingSecret != "" {
		if !s.checkCodeLocked(acct, acct.pendingSecret, req.Code) {
			writeError(w, http.StatusUnauthorized, "invalid_otp")
			return
		}
		acct.otpSecret = acct.pendingSecret
		acct.pendingSecret = ""
		acct.OTPEnabled = true
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if !acct.OTPEnabled || !s.checkCodeLocked(acct, acct.otpSecret, req.Code) {
		writeError(w, http.StatusUnauthorized, "invalid_otp")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDisable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminID string `json:"adminId"`
		Code    string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byID[req.AdminID]
	if !ok {
		writeError(w, http.StatusNotFound, "account_not_found")
		return
	}
	if !acct.OTPEnabled || !s.checkCodeLocked(acct, acct.otpSecret, req.Code) {
		writeError(w, http.StatusUnauthorized, "invalid_otp")
		return
	}
	acct.OTPEnabled = false
	acct.otpSecret = ""
	acct.lastCode = ""
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	if _, ok := s.accounts[req.Email]; ok {
		code := uuid.NewString()
		s.resetCodes[code] = req.Email
		// Stands in for the out-of-band email delivery.
		s.logger.Info(r.Context(), "reset code issued", "email", req.Email, "code", code)
	}
	s.mu.Unlock()

	// Identical response whether or not the account exists.
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password   string `json:"password"`
		SecretCode string `json:"secretCode"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.resetCodes[req.SecretCode]
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_reset_code")
		return
	}
	acct := s.accounts[email]
	if acct.OTPEnabled {
		// The code stays valid: the flow continues with the OTP step.
		writeJSON(w, http.StatusOK, map[string]any{"two_factor_required": true})
		return
	}
	acct.Password = req.Password
	delete(s.resetCodes, req.SecretCode)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetPasswordOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password   string `json:"password"`
		Code       string `json:"code"`
		SecretCode string `json:"secretCode"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.resetCodes[req.SecretCode]
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_reset_code")
		return
	}
	acct := s.accounts[email]
	if !acct.OTPEnabled || !s.checkCodeLocked(acct, acct.otpSecret, req.Code) {
		writeError(w, http.StatusUnauthorized, "invalid_otp")
		return
	}
	acct.Password = req.Password
	delete(s.resetCodes, req.SecretCode)
	w.WriteHeader(http.StatusNoContent)
}

// requireAuth guards endpoints that need a live access token.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get(common.AuthorizationHeaderName), "Bearer ")
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "session_expired")
			return
		}
		subject := s.parseToken(raw, false)
		s.mu.Lock()
		_, ok := s.byID[subject]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "session_expired")
			return
		}
		next(w, r)
	}
}

func (s *Server) mintTokenLocked(acct *Account) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   acct.AdminID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

func (s *Server) setRefreshCookieLocked(w http.ResponseWriter, acct *Account) {
	value := uuid.NewString()
	s.refresh[value] = acct.Email
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshCookieName,
		Value:    value,
		Path:     "/admin/auth",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// parseToken verifies the signature and (unless allowExpired) the expiry of
// an access token and returns its subject, or "" when invalid. It touches no
// server state and is safe to call with or without the lock held.
func (s *Server) parseToken(raw string, allowExpired bool) string {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	var claims jwt.RegisteredClaims
	token, err := jwt.NewParser(opts...).ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Subject
}

// checkCodeLocked validates a TOTP code against the given secret and rejects
// replay of the previously accepted code.
func (s *Server) checkCodeLocked(acct *Account, secret, code string) bool {
	if code == "" || code == acct.lastCode {
		return false
	}
	if !totp.Validate(code, secret) {
		return false
	}
	acct.lastCode = code
	return true
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "malformed_body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
