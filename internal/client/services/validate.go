package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/salesdesk/internal/common"
	"github.com/go-playground/validator/v10"
)

// validationError carries the message shown to the user and matches
// common.ErrValidation.
type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }
func (e validationError) Unwrap() error { return common.ErrValidation }

// inputValidator validates request bodies before they reach the network.
// The engine is built on first use.
type inputValidator struct {
	once     sync.Once
	validate *validator.Validate
}

func (v *inputValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their wire names.
		v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// Struct returns nil or a single human-readable message for the first
// failing field.
func (v *inputValidator) Struct(obj any) error {
	v.lazyinit()

	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	return validationError{msg: describe(verrs[0])}
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must not be empty", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "timezone":
		return fmt.Sprintf("%s must be a valid time zone, e.g. Europe/Riga", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
