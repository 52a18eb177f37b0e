// Package api talks to the remote admin API over HTTPS/JSON.
//
// The Client interface is the seam the services program against; HTTPClient
// is the concrete transport. Transport and server failures are mapped to the
// sentinel errors in internal/common so callers can branch with errors.Is
// without knowing HTTP status codes.
package api
