// Package apierror renders every failure as {"error": ..., "details": ...}.
package apierror

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"farmq-backend/internal/logger"
)

type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) WithDetails(details string) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details}
}

func BadRequest(message string) *Error   { return New(fiber.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(fiber.StatusUnauthorized, message) }
func NotFound(message string) *Error     { return New(fiber.StatusNotFound, message) }
func Conflict(message string) *Error     { return New(fiber.StatusConflict, message) }
func MethodNotAllowed(message string) *Error {
	return New(fiber.StatusMethodNotAllowed, message)
}
func Internal(message string) *Error { return New(fiber.StatusInternalServerError, message) }

// Handler is the fiber.Config ErrorHandler for the API.
func Handler(c *fiber.Ctx, err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(Error{Message: fe.Message})
	}

	logger.FromCtx(c).WithField("error", err.Error()).Error("unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(Error{Message: "Unexpected server error"})
}
