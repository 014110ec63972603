package usecases

import "errors"

var (
	// ErrUsageUnavailable means the caller's allowance could not be read.
	ErrUsageUnavailable = errors.New("failed to calculate usage")
	// ErrQuotaExhausted means no route calculations remain.
	ErrQuotaExhausted = errors.New("route calculation quota exhausted")
	// ErrInvalidCredentials is returned by sign-in for an unknown e-mail or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated is returned when a bearer token cannot be resolved to a user.
	ErrUnauthenticated = errors.New("unauthenticated")
)
