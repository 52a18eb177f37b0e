package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/adminauth/internal/client/api"
	"github.com/dmitrijs2005/adminauth/internal/client/session"
	"github.com/dmitrijs2005/adminauth/internal/common"
	"github.com/dmitrijs2005/adminauth/internal/logging"
)

func newTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newSessionService(fc *fakeClient) (*SessionService, *session.Store) {
	store := session.NewStore()
	return NewSessionService(fc, store, newTestLogger()), store
}

func TestLogin_NoSecondFactor_PopulatesStore(t *testing.T) {
	fc := &fakeClient{LoginResult: &api.LoginResult{AccessToken: "tok-1"}}
	svc, store := newSessionService(fc)

	twoFactor, err := svc.Login(context.Background(), "ops@example.com", "pw")
	require.NoError(t, err)
	assert.False(t, twoFactor)

	tok, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-1", tok)
	assert.False(t, store.ChallengePending())
}

func TestLogin_SecondFactorRequired_NoTokenPendingChallenge(t *testing.T) {
	fc := &fakeClient{LoginResult: &api.LoginResult{TwoFactorRequired: true}}
	svc, store := newSessionService(fc)

	twoFactor, err := svc.Login(context.Background(), "ops@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, twoFactor)

	_, ok := store.Token()
	assert.False(t, ok)
	assert.Equal(t, session.StateAwaitingSecondFactor, store.State())
}

func TestLogin_Failure_LeavesStoreUntouched(t *testing.T) {
	fc := &fakeClient{LoginErr: common.ErrAuthFailure}
	svc, store := newSessionService(fc)

	_, err := svc.Login(context.Background(), "ops@example.com", "wrong")
	require.ErrorIs(t, err, common.ErrAuthFailure)
	assert.Equal(t, session.StateAnonymous, store.State())
}

func TestLogin_TransportFailure_LeavesStoreUntouched(t *testing.T) {
	fc := &fakeClient{LoginErr: common.ErrUnavailable}
	svc, store := newSessionService(fc)

	_, err := svc.Login(context.Background(), "ops@example.com", "pw")
	require.ErrorIs(t, err, common.ErrUnavailable)
	assert.Equal(t, session.StateAnonymous, store.State())
}

func TestLoginWithOTP_WrongCodeThenRetry(t *testing.T) {
	fc := &fakeClient{LoginResult: &api.LoginResult{TwoFactorRequired: true}}
	svc, store := newSessionService(fc)

	_, err := svc.Login(context.Background(), "ops@example.com", "pw")
	require.NoError(t, err)

	fc.OTPLoginErr = common.ErrInvalidOTP
	err = svc.LoginWithOTP(context.Background(), "ops@example.com", "pw", "000000")
	require.ErrorIs(t, err, common.ErrInvalidOTP)

	// The store is untouched: still awaiting the second factor, no token.
	_, ok := store.Token()
	assert.False(t, ok)
	assert.True(t, store.ChallengePending())

	// A retry with the correct code succeeds without going through Login.
	fc.OTPLoginErr = nil
	fc.OTPLoginToken = "tok-2"
	require.NoError(t, svc.LoginWithOTP(context.Background(), "ops@example.com", "pw", "123456"))

	tok, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-2", tok)
	assert.False(t, store.ChallengePending())
	assert.Equal(t, 1, fc.LoginCalls)
	assert.Equal(t, 2, fc.OTPLoginCalls)
}

func TestAbandonChallenge_ReturnsToAnonymous(t *testing.T) {
	fc := &fakeClient{LoginResult: &api.LoginResult{TwoFactorRequired: true}}
	svc, store := newSessionService(fc)

	_, err := svc.Login(context.Background(), "ops@example.com", "pw")
	require.NoError(t, err)

	svc.AbandonChallenge(context.Background())
	assert.Equal(t, session.StateAnonymous, store.State())
}

func TestGetOrRefreshAccessToken_CacheFirst_ZeroNetworkCalls(t *testing.T) {
	fc := &fakeClient{}
	svc, store := newSessionService(fc)
	store.SetToken("tok-cached")

	tok, err := svc.GetOrRefreshAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-cached", tok)
	assert.Zero(t, fc.networkCalls())
}

func TestGetOrRefreshAccessToken_EmptyStore_RefreshesViaCookie(t *testing.T) {
	fc := &fakeClient{RefreshToken: "tok-fresh"}
	svc, store := newSessionService(fc)

	tok, err := svc.GetOrRefreshAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-fresh", tok)
	assert.Equal(t, 1, fc.RefreshCookieCalls)

	held, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-fresh", held)
}

func TestGetOrRefreshAccessToken_RefreshFailure_ClearsStore(t *testing.T) {
	fc := &fakeClient{RefreshErr: common.ErrSessionExpired}
	svc, store := newSessionService(fc)

	_, err := svc.GetOrRefreshAccessToken(context.Background())
	require.ErrorIs(t, err, common.ErrSessionExpired)
	assert.Equal(t, session.StateAnonymous, store.State())
}

func TestGetOrRefreshAccessToken_TransportFailure_StillSessionExpired(t *testing.T) {
	fc := &fakeClient{RefreshErr: common.ErrUnavailable}
	svc, store := newSessionService(fc)

	_, err := svc.GetOrRefreshAccessToken(context.Background())
	require.ErrorIs(t, err, common.ErrSessionExpired)
	assert.Equal(t, session.StateAnonymous, store.State())
}

func TestRefreshAccessToken_PassesCurrentTokenAsHint(t *testing.T) {
	fc := &fakeClient{RefreshToken: "tok-new"}
	svc, store := newSessionService(fc)
	store.SetToken("tok-stale")

	tok, err := svc.RefreshAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-new", tok)
	assert.Equal(t, "tok-stale", fc.LastRefreshHint)

	held, _ := store.Token()
	assert.Equal(t, "tok-new", held)
}

func TestRefreshAccessToken_FailureAlwaysEmptiesStore(t *testing.T) {
	for name, prepare := range map[string]func(*session.Store){
		"from authenticated": func(s *session.Store) { s.SetToken("tok-stale") },
		"from anonymous":     func(s *session.Store) {},
	} {
		t.Run(name, func(t *testing.T) {
			fc := &fakeClient{RefreshErr: errors.New("boom")}
			svc, store := newSessionService(fc)
			prepare(store)

			_, err := svc.RefreshAccessToken(context.Background())
			require.ErrorIs(t, err, common.ErrSessionExpired)
			assert.Equal(t, session.StateAnonymous, store.State())
		})
	}
}

func TestLogout_ClearsStoreEvenWhenServerCallFails(t *testing.T) {
	fc := &fakeClient{LogoutErr: common.ErrUnavailable}
	svc, store := newSessionService(fc)
	store.SetToken("tok-1")

	svc.Logout(context.Background())

	assert.Equal(t, session.StateAnonymous, store.State())
	assert.Equal(t, 1, fc.LogoutCalls)
}

func TestGetOrRefreshAccessToken_ConcurrentCallersShareOneRefresh(t *testing.T) {
	block := make(chan struct{})
	fc := &fakeClient{RefreshToken: "tok-shared", RefreshBlock: block}
	svc, _ := newSessionService(fc)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)

	run := func(i int) {
		defer wg.Done()
		results[i], errs[i] = svc.GetOrRefreshAccessToken(context.Background())
	}

	// First caller starts a refresh and parks inside the fake.
	wg.Add(1)
	go run(0)
	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return fc.RefreshCookieCalls == 1
	}, time.Second, time.Millisecond)

	// The rest arrive while that refresh is in flight and must latch onto it.
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go run(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(block)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "tok-shared", results[i])
	}
	assert.LessOrEqual(t, fc.RefreshCookieCalls, 2, "concurrent callers must share in-flight refreshes")
}
