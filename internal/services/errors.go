package services

import "errors"

// Sentinel errors for the expected failure cases. Handlers map these to
// status codes; anything else is treated as an internal error.
var (
	// ErrValidation covers missing or malformed input fields.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmail is returned when a registration or profile update
	// would reuse an email that already belongs to another account.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is the single error for both unknown identity
	// and wrong password, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned when the requested user or record does not
	// exist under the caller's scope.
	ErrNotFound = errors.New("not found")

	// ErrInvalidToken is returned for tokens that fail signature or expiry
	// checks, or that have been revoked.
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError is an ErrValidation carrying a client-facing message
// naming the rejected field or value. errors.Is(err, ErrValidation)
// matches it.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(message string) error { return &ValidationError{Message: message} }
