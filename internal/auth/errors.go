package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown email or wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNoSession is returned when a request carries no session token
	ErrNoSession = errors.New("no session")

	// ErrSessionInvalid is returned for malformed, expired, or revoked tokens
	ErrSessionInvalid = errors.New("session invalid or expired")

	// ErrUserNotFound is returned when an admin user does not exist
	ErrUserNotFound = errors.New("admin user not found")
)
