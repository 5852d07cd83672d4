package liststore

import (
	"errors"
	"fmt"
	"net/http"

	"opsboard/core/utils"
)

// Error is a failed list-store call.
type Error struct {
	// Op names the call, e.g. "create item".
	Op string
	// List is the list identifier involved, when there is one.
	List string
	// StatusCode is the HTTP status (or its equivalent for non-HTTP backends).
	StatusCode int
	// Code is the remote error code, e.g. "accessDenied".
	Code string
	// Message is the remote detail message.
	Message string
}

func (e *Error) Error() string {
	if e.StatusCode == http.StatusForbidden {
		return fmt.Sprintf("%s %s: permission denied (403): the service account cannot access this list; grant it write access on the site and list. detail: %s",
			e.Op, e.List, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Op, e.List, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Op, e.List, e.StatusCode, e.Message)
}

// StatusCode returns the status carried by err, or 0 when err is not a list-store error.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsForbidden reports whether err is a 403 from the store.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from the store.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func stringValue(v any) string {
	return utils.ToString(v)
}
