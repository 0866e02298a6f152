package auth

import "errors"

var (
	// ErrEmailAlreadyExists indicates the email is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrPasswordMismatch is returned when the confirmation differs from the password.
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	// ErrWeakPassword is returned when the password is too short or entirely numeric.
	ErrWeakPassword = errors.New("password too weak")
	// ErrBlankField is returned when an update would empty a required account field.
	ErrBlankField = errors.New("required field is blank")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound signals that the user could not be located.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized represents missing or invalid authentication tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
