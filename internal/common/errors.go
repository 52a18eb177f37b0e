// Package common defines shared constants and sentinel errors used across
// the admin auth client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrAuthFailure means the server rejected the submitted credentials.
	ErrAuthFailure = errors.New("invalid credentials")

	// ErrInvalidOTP means the submitted one-time code was wrong or expired.
	ErrInvalidOTP = errors.New("invalid one-time code")

	// ErrSessionExpired means a refresh failed: the server-side refresh
	// credential is absent, revoked, or expired. The caller is no longer
	// authenticated.
	ErrSessionExpired = errors.New("session expired")

	// Client-side password policy failures. These never reach the network.
	ErrWeakPassword = errors.New("password does not meet strength requirements")
	ErrMismatch     = errors.New("password confirmation does not match")

	// ErrUnavailable means the call never produced a server response
	// (network error, DNS failure, timeout).
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnexpected covers server errors that match none of the above.
	ErrUnexpected = errors.New("unexpected server error")
)
