package validation

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

var ErrCredentialsRequired = errors.New("Email and password are required")

// ValidateCredentials checks register/login input. Email is matched exactly
// as stored, so it is not normalized here.
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrCredentialsRequired
	}

	err := validation.Validate(email,
		validation.RuneLength(0, 255).Error("Email must be at most 255 characters"),
	)
	if err != nil {
		return err
	}

	// bcrypt rejects anything past 72 bytes
	return validation.Validate(password,
		validation.Length(0, 72).Error("Password must not exceed 72 bytes"),
	)
}

// ValidateName bounds the optional display name to its column width.
func ValidateName(name string) error {
	return validation.Validate(name,
		validation.RuneLength(0, 255).Error("Name must be at most 255 characters"),
	)
}
