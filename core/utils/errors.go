package utils

import (
	"errors"
	"fmt"
)

// ErrInvalid marks errors caused by caller input rather than the remote store.
var ErrInvalid = errors.New("invalid input")

// Invalidf returns an error wrapping ErrInvalid.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
