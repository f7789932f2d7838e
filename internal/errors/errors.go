package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrWeakPassword       = errors.New("password does not meet the complexity policy")
	ErrMfaRequired        = errors.New("mfa code required")
	ErrInvalidMfaCode     = errors.New("invalid mfa code")
	ErrMfaNotEnabled      = errors.New("mfa is not enabled")
	ErrMfaAlreadyEnabled  = errors.New("mfa is already enabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrPropertyNotFound   = errors.New("property not found")
)

// AccountLockedError rejects login attempts while a lockout window is open.
// RetryAfterSeconds is the remaining window, rounded up to whole seconds.
type AccountLockedError struct {
	RetryAfterSeconds int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, retry in %ds", e.RetryAfterSeconds)
}
