package service

import (
	"errors"
	"fmt"
)

// MembershipRequiredMessage is shown when an email has no active membership.
const MembershipRequiredMessage = "This email isn't associated with an active membership. Visit the shop to join."

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrMembershipRequired = errors.New("no active membership found")
	ErrDispatchFailed     = errors.New("failed to send login link")
	ErrInvalidLogin       = errors.New("invalid or expired login")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("invalid params")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrProfileNotReady    = errors.New("profile not ready")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
