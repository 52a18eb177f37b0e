// Package prefs persists small operator preferences on the client device.
// Security state never lands here: the access token is memory-resident only.
// The locale lives here for historical reasons (it predates the auth core)
// and has no concurrency hazard of note.
package prefs

import "context"

// Well-known preference keys.
const (
	KeyLocale    = "locale"
	KeyLastEmail = "last_email"
)

type Repository interface {
	// Get returns the stored value, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
