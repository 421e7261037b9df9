package types

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
)

// ------------------------------
// Shared Interfaces
// ------------------------------

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ------------------------------
// Validation
// ------------------------------

// ErrInvalidInput is wrapped by every local validation failure.
var ErrInvalidInput = errors.New("invalid input")

// ValidateRequired fails when value is blank.
func ValidateRequired(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}

// ValidateEmail checks that email is a bare RFC 5322 address.
func ValidateEmail(email string) error {
	if err := ValidateRequired(email, "email"); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return fmt.Errorf("%w: email %q is not a valid address", ErrInvalidInput, email)
	}
	return nil
}

// Validate checks the login credentials.
func (r LoginRequest) Validate() error {
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	return ValidateRequired(r.Password, "password")
}

// Validate checks that every complaint field is filled in.
func (r SubmitComplaintRequest) Validate() error {
	for _, f := range []struct{ v, name string }{
		{r.Subject, "subject"}, {r.Description, "description"}, {r.Category, "category"},
	} {
		if err := ValidateRequired(f.v, f.name); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the profile update fields.
func (r UpdateProfileRequest) Validate() error {
	if err := ValidateRequired(r.Name, "name"); err != nil {
		return err
	}
	if err := ValidateRequired(r.Mobile, "mobile"); err != nil {
		return err
	}
	return ValidateEmail(r.Email)
}
