package domain

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// that login failures never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken covers a missing, expired, forged or already consumed
	// refresh token, and an access token whose subject no longer exists.
	ErrInvalidToken = errors.New("invalid token")

	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("access forbidden")
	ErrValidation   = errors.New("validation failed")
)
