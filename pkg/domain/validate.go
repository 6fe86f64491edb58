package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// EmailSuffix is the institutional domain required for registration.
	EmailSuffix = "@stud.noroff.no"

	// MinPasswordLen is the minimum password length accepted locally.
	MinPasswordLen = 8
)

// ValidationError is a local input failure. It is surfaced inline and never
// sent to the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation returns true if err (or any wrapped error) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateCredentials checks login inputs locally before any network call.
func ValidateCredentials(email, password string) error {
	if !strings.HasSuffix(email, EmailSuffix) {
		return &ValidationError{Field: "email", Reason: "must end with " + EmailSuffix}
	}
	if len(password) < MinPasswordLen {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLen)}
	}
	return nil
}

// ValidateRegistration checks registration inputs locally.
func ValidateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	return ValidateCredentials(email, password)
}
