package common

const (
	// AuthorizationHeaderName carries the bearer access token on
	// authenticated requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-Id"

	// RefreshCookieName is the HTTP-only cookie the server sets at login
	// and consumes on refresh. The client never reads its value.
	RefreshCookieName = "refresh_token"
)
