// Package services contains the authentication core of the admin client:
// the session service (login, second-factor login, refresh, logout), the
// OTP manager (enroll, confirm, disable, validate), and the password reset
// flow. Each service wraps the injected api.Client and, for the session
// service, the shared session.Store.
//
// Failure policy: no operation leaves session state partially mutated. A
// failed call leaves the store exactly as it was, with two deliberate
// exceptions — a failed refresh clears the store (a session that cannot be
// refreshed is over), and logout clears the store even when the server call
// fails (the operator's intent wins).
package services
