package user

import "errors"

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyExists is returned when registering an email that is taken.
	ErrAlreadyExists = errors.New("account already exists")
	// ErrInvalidCredentials is returned for unknown email and wrong password
	// alike; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidID is returned when an account id cannot be parsed.
	ErrInvalidID = errors.New("invalid account id")
	// ErrTokenSigning is returned when the identity token cannot be signed.
	ErrTokenSigning = errors.New("failed to sign identity token")
	// ErrStoreUnavailable is returned when the document store fails.
	ErrStoreUnavailable = errors.New("store unavailable")
)
