package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthenticationExpired is returned when the session could not be
// recovered: the refresh failed or a replayed request was rejected again.
// By the time it is returned the stored tokens are gone and the
// auth-expired hooks have run.
var ErrAuthenticationExpired = errors.New("authentication expired")

// GenericErrorMessage is used when an error response carries no usable
// detail.
const GenericErrorMessage = "Something went wrong. Please try again."

var (
	errNoRefreshToken   = errors.New("no refresh token stored")
	errMalformedRefresh = errors.New("refresh response carries no access token")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// NetworkError means no usable response was received: the transport failed
// or a successful response body could not be decoded.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an APIError with status 404. On a
// project-scoped call this is how a deleted project shows up.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// UserMessage turns any error from this package into text suitable for
// showing to the user.
func UserMessage(err error) string {
	var (
		apiErr *APIError
		netErr *NetworkError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthenticationExpired):
		return "Your session has expired. Please log in again."
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &netErr):
		return "Unable to reach the server. Check your connection and try again."
	default:
		return GenericErrorMessage
	}
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	msg := GenericErrorMessage
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil && detail != "" {
			msg = detail
		}
	}
	return &APIError{Status: status, Message: msg}
}
