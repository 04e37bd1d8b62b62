// Package models defines the client-side data models exchanged with the
// SalesDesk backend and kept in local state.
package models

// User is the authenticated account as returned by GET /auth/me.
// Fields beyond id and email are optional and server-defined.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	IsActive bool   `json:"is_active,omitempty"`
}

// DisplayName returns the name when present, the email otherwise.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is returned by login and refresh. RefreshToken may be empty in
// a refresh response when the server does not rotate it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

// RefreshRequest is the body of POST /auth/refresh and POST /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginResult is what a login attempt reports to the UI. Failures carry a
// human-readable message instead of an error value.
type LoginResult struct {
	Success bool
	Error   string
}
