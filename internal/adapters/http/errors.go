package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/routekit/internal/pkg/validation"
)

// APIError is a structured error response.
type APIError struct {
	Status    int                      `json:"status"`
	Code      string                   `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string                   `json:"message"` // Human-readable message
	Details   []validation.FieldDetail `json:"details,omitempty"`
	RequestID string                   `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return writeError(c, APIError{Status: status, Code: code, Message: message})
}

func writeError(c *fiber.Ctx, e APIError) error {
	e.RequestID, _ = c.Locals("requestid").(string)
	return c.Status(e.Status).JSON(e)
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errUnauthorized returns a 401 error.
func errUnauthorized(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusUnauthorized, "unauthorized", msg)
}

// errQuotaExhausted returns a 403 error.
func errQuotaExhausted(c *fiber.Ctx) error {
	return newError(c, fiber.StatusForbidden, "quota_exhausted", "route calculation quota exhausted")
}

// errValidation returns a 422 error listing every failed field.
func errValidation(c *fiber.Ctx, verr *validation.RequestValidationError) error {
	return writeError(c, APIError{
		Status:  fiber.StatusUnprocessableEntity,
		Code:    "validation_error",
		Message: verr.Error(),
		Details: verr.Details(),
	})
}
