package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when the API refuses a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when the API refuses an access token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable covers transport failures and responses that cannot be decoded.
	ErrUnavailable = errors.New("auth api unavailable")
)

// RegistrationError reports a refused registration. Message is the server's
// "message" field and may be empty.
type RegistrationError struct {
	Status  int
	Message string
}

func (e *RegistrationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("registration refused with status %d", e.Status)
	}
	return fmt.Sprintf("registration refused with status %d: %s", e.Status, e.Message)
}
