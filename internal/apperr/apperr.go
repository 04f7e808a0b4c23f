// Package apperr defines the error taxonomy shared by the economy engine.
// Services wrap these sentinels with fmt.Errorf("...: %w", ...) so callers
// can match with errors.Is while keeping the failing operation in the message.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing user, pet, transaction or mission row.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an operation rejected by the current state:
	// claiming before completion, double-claiming, insufficient points
	// or inventory.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation marks malformed input caught at the boundary.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration marks a seeding/config defect such as a missing
	// fallback category. Loud and non-recoverable.
	ErrConfiguration = errors.New("configuration error")

	// ErrConflict marks a guarded write that lost a race. The economy
	// layer retries the whole read-compute-write once before surfacing it.
	ErrConflict = errors.New("concurrent update conflict")
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func InvalidStatef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidState)...)
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func Configurationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConfiguration)...)
}
