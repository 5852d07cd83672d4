package server

import (
	"errors"

	"opsboard/core/liststore"
	"opsboard/core/projection"
	"opsboard/core/utils"

	"github.com/gofiber/fiber/v2"
)

// ReadResponse is the body of every list read. Degraded reads still carry an
// empty Items array.
type ReadResponse[T any] struct {
	Items    []T    `json:"items"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

// Read renders r with status 200, degraded or not.
func Read[T any](c *fiber.Ctx, r projection.ReadResult[T]) error {
	return c.JSON(ReadResponse[T]{Items: r.Items, Degraded: r.Degraded(), Reason: r.Reason()})
}

// StatusFor maps a write error to an HTTP status. Client errors reported by
// the list store keep their status; anything else from the store is a bad gateway.
func StatusFor(err error) int {
	if errors.Is(err, utils.ErrInvalid) {
		return fiber.StatusBadRequest
	}
	code := liststore.StatusCode(err)
	switch {
	case code >= 400 && code < 500:
		return code
	case code >= 500:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// Fail renders err with the status chosen by StatusFor.
func Fail(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
