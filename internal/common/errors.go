// Package common defines shared constants and sentinel errors used across
// SalesDesk client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrValidation marks input rejected locally before any network call.
	ErrValidation = errors.New("validation error")
)
