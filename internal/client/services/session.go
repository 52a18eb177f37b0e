package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/adminauth/internal/client/api"
	"github.com/dmitrijs2005/adminauth/internal/client/session"
	"github.com/dmitrijs2005/adminauth/internal/common"
	"github.com/dmitrijs2005/adminauth/internal/logging"
)

// SessionService owns the session state machine:
//
//	Anonymous --login ok--------------------> Authenticated
//	Anonymous --login, 2FA required---------> AwaitingSecondFactor
//	AwaitingSecondFactor --otp login ok-----> Authenticated
//	AwaitingSecondFactor --abandon----------> Anonymous
//	Authenticated --refresh failed | logout-> Anonymous
//
// Refresh is serialized through a single-flight group: concurrent callers
// that find the store empty share one network round trip and observe the
// same outcome, instead of racing last-writer-wins.
type SessionService struct {
	client api.Client
	store  *session.Store
	logger logging.Logger
	sf     singleflight.Group
}

func NewSessionService(client api.Client, store *session.Store, logger logging.Logger) *SessionService {
	return &SessionService{client: client, store: store, logger: logger}
}

// Login submits credentials. Returns true when the account requires a
// one-time code; the caller must follow up with LoginWithOTP. On any error
// the store is left untouched.
func (s *SessionService) Login(ctx context.Context, email, password string) (twoFactorRequired bool, err error) {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return false, err
	}
	if res.TwoFactorRequired {
		s.store.BeginChallenge()
		s.logger.Debug(ctx, "login accepted, second factor required")
		return true, nil
	}
	s.store.SetToken(res.AccessToken)
	s.logger.Info(ctx, "login successful")
	return false, nil
}

// LoginWithOTP completes a login that required a second factor. The
// credentials are resubmitted together with the code, so a wrong code can be
// retried without going through Login again. On any error the store is left
// untouched (the pending challenge survives).
func (s *SessionService) LoginWithOTP(ctx context.Context, email, password, code string) error {
	token, err := s.client.LoginWithOTP(ctx, email, password, code)
	if err != nil {
		return err
	}
	s.store.SetToken(token)
	s.logger.Info(ctx, "second-factor login successful")
	return nil
}

// AbandonChallenge drops a pending second-factor challenge without creating
// a session. No-op in any other state.
func (s *SessionService) AbandonChallenge(ctx context.Context) {
	if s.store.ChallengePending() {
		s.store.Clear()
		s.logger.Debug(ctx, "second-factor challenge abandoned")
	}
}

// GetOrRefreshAccessToken returns the held token without a network call when
// one is present. Otherwise it attempts a cookie-based refresh; this is the
// only path by which a restarted client can silently recover a session.
func (s *SessionService) GetOrRefreshAccessToken(ctx context.Context) (string, error) {
	if token, ok := s.store.Token(); ok {
		return token, nil
	}
	return s.refresh(ctx, s.client.RefreshWithCookie)
}

// RefreshAccessToken unconditionally mints a new token using the currently
// held one as a hint. Use it when the current token is known stale (a 401
// was observed) rather than merely absent.
func (s *SessionService) RefreshAccessToken(ctx context.Context) (string, error) {
	hint, _ := s.store.Token()
	return s.refresh(ctx, func(ctx context.Context) (string, error) {
		return s.client.RefreshWithToken(ctx, hint)
	})
}

// refresh funnels every refresh attempt through one single-flight key. A
// failed refresh definitionally ends the session: the store is cleared so a
// stale token cannot pass a naive "is logged in" check, and the caller gets
// ErrSessionExpired.
func (s *SessionService) refresh(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	v, err, _ := s.sf.Do("refresh", func() (any, error) {
		token, err := call(ctx)
		if err != nil {
			s.store.Clear()
			s.logger.Warn(ctx, "token refresh failed, session terminated", "error", err)
			if errors.Is(err, common.ErrSessionExpired) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", common.ErrSessionExpired, err)
		}
		s.store.SetToken(token)
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Logout invalidates the server-side session best-effort and always clears
// the store: the operator's intent to end the session takes precedence over
// server acknowledgement.
func (s *SessionService) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.logger.Warn(ctx, "server-side logout failed", "error", err)
	}
	s.store.Clear()
	s.logger.Info(ctx, "logged out")
}
