// Package validation configures the go-playground validator shared by the
// auth flows and the portal's form binding.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/smartcampus/campus-portal/pkg/view"
)

const (
	// PasswordTag enforces the campus password policy.
	PasswordTag = "campus_password"
	// EmailTag accepts the same addresses as the portal's email check, which
	// is looser than the validator's built-in "email".
	EmailTag = "campus_email"
)

// New returns a validator with the campus-specific tags registered. It
// panics if a registration fails.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, PasswordTag, func(fl validator.FieldLevel) bool {
		return view.ValidatePassword(fl.Field().String())
	})
	mustRegister(v, EmailTag, func(fl validator.FieldLevel) bool {
		return view.ValidateEmail(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Messages flattens validation errors into human-readable sentences. Errors
// that are not field errors are returned as their own message.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return msgs
}

// Message joins Messages with "; ".
func Message(err error) string {
	return strings.Join(Messages(err), "; ")
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email", EmailTag:
		return field + " must be a valid email"
	case PasswordTag:
		if err := view.CheckPassword(fmt.Sprint(fe.Value())); err != nil {
			return err.Error()
		}
		return field + " does not meet the password policy"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
