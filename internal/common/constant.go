// Package common contains shared constants and sentinel errors used across
// SalesDesk client components.
package common

// Outbound HTTP header names.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Keys of the durable client-side metadata store. Token keys and the
// workspace key are independent: clearing one never touches the other.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	WorkspaceKey    = "workspace"
)
