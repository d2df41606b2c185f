package services

import (
	"errors"
	"fmt"
)

// Failure kinds shared by the ledger, debt and user services. Handlers map
// these to HTTP statuses; everything else wraps with %w so the kind survives.
var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
	ErrTimeout    = errors.New("timeout")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

func storagef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrStorage}, args...)...)
}
