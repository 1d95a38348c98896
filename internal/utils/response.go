package utils

import (
	"github.com/gofiber/fiber/v2"
)

// DetailResponse sends a {"detail": message} body with status
func DetailResponse(c *fiber.Ctx, message string, status int) error {
	return c.Status(status).JSON(fiber.Map{
		"detail": message,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Not found."
	}
	return DetailResponse(c, message, fiber.StatusNotFound)
}

// FieldErrorResponse sends field-keyed validation messages (400)
func FieldErrorResponse(c *fiber.Ctx, errs map[string][]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errs)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Detail string `json:"detail"`
}

// FieldErrorResponseStruct defines the schema for validation error responses
type FieldErrorResponseStruct map[string][]string
