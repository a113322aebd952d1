package view

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// PasswordSymbols is the fixed set a password must draw at least one symbol from.
const PasswordSymbols = "!@#$%^&*"

const MinPasswordLength = 8

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordNoUpper  = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoDigit  = errors.New("password must contain at least one number")
	ErrPasswordNoSymbol = errors.New("password must contain at least one of " + PasswordSymbols)
)

// emailPattern is something@something.something with no whitespace and a
// single @.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// ValidateEmail reports whether email, ignoring surrounding whitespace, is a
// well-formed address.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// CheckPassword returns the first rule the password breaks, or nil.
func CheckPassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r) && r <= unicode.MaxASCII:
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		return ErrPasswordNoUpper
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	if !hasSymbol {
		return ErrPasswordNoSymbol
	}
	return nil
}

func ValidatePassword(password string) bool {
	return CheckPassword(password) == nil
}
