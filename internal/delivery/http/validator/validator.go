// Package validator adapts go-playground/validator to echo's Validator
// interface.
package validator

import (
	validatorlib "github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Validator wraps a validator instance for echo.
type Validator struct {
	validate *validatorlib.Validate
}

// New creates a request validator with struct tag validation enabled.
func New() *Validator {
	return &Validator{
		validate: validatorlib.New(validatorlib.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	return errors.WithStack(v.validate.Struct(i))
}
