package jwt

import "errors"

var (
	// ErrMissingSigningKey is returned when the service is constructed without a key.
	ErrMissingSigningKey = errors.New("missing signing key")
	// ErrMissingSubject is returned when Issue is called without an account id.
	ErrMissingSubject = errors.New("missing token subject")
	// ErrSigningFailed is returned when the token cannot be signed.
	ErrSigningFailed = errors.New("failed to sign token")
	// ErrInvalidToken indicates the token failed validation.
	ErrInvalidToken = errors.New("invalid token")
)
