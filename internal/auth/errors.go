package auth

import "errors"

var (
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for any login failure. The same error
	// covers unknown emails, wrong passwords, and deactivated accounts so the
	// response shape leaks nothing about which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRefreshToken is returned when a refresh token is unknown,
	// expired, or already redeemed.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	// ErrInvalidAccessToken is returned when an access token fails signature,
	// expiry, or shape validation.
	ErrInvalidAccessToken = errors.New("invalid access token")
)
