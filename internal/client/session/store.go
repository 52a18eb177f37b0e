// Package session holds the client-side authentication state: the current
// access token (if any) and whether a second-factor challenge is pending.
//
// The store is the single source of truth consulted by every other component
// (route guards, the transport attaching bearer headers, the services
// mutating it). It keeps one tagged state value instead of independent
// token/flag cells, so an illegal combination such as "authenticated and
// awaiting a second factor" cannot be represented.
//
// The access token is memory-resident only; it is never persisted.
package session

import "sync"

// State enumerates the session-level states.
type State int

const (
	// StateAnonymous: no token, no pending challenge.
	StateAnonymous State = iota
	// StateAwaitingSecondFactor: credentials were accepted but the account
	// requires a one-time code before a token is issued.
	StateAwaitingSecondFactor
	// StateAuthenticated: a usable access token is held.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAwaitingSecondFactor:
		return "awaiting-second-factor"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Store is a process-wide, mutex-guarded session state cell. Construct one
// per client process (or per test) and inject it into every consumer.
type Store struct {
	mu    sync.RWMutex
	state State
	token string
}

func NewStore() *Store {
	return &Store{}
}

// State returns the current session state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the held access token and whether one is present.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.state == StateAuthenticated
}

// SetToken stores a freshly minted access token, superseding any previous
// one, and clears a pending second-factor challenge.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthenticated
	s.token = token
}

// BeginChallenge records that login succeeded at the credential step but the
// account requires a one-time code. No token is held in this state.
func (s *Store) BeginChallenge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAwaitingSecondFactor
	s.token = ""
}

// ChallengePending reports whether a second-factor challenge is in progress.
func (s *Store) ChallengePending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAwaitingSecondFactor
}

// Clear drops the token and any pending challenge, returning the store to
// the anonymous state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.token = ""
}
