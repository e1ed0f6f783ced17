package server

import (
	goerrors "github.com/goliatone/go-errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
)

// statusForError maps domain error categories to HTTP status codes.
// Validation errors from ozzo bypass the category mapping since they
// never reach the domain layer.
func statusForError(err error) int {
	if _, ok := err.(validation.Errors); ok {
		return fiber.StatusUnprocessableEntity
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return fiber.StatusInternalServerError
	}

	switch rich.Category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return fiber.StatusForbidden
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusUnprocessableEntity
	case goerrors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	case goerrors.CategoryExternal:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusForError(err)

	if verr, ok := err.(validation.Errors); ok {
		return c.Status(status).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": verr,
		})
	}

	msg := "internal error"
	code := ""
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		code = rich.TextCode
		if status < fiber.StatusInternalServerError {
			msg = rich.Message
		}
	}

	body := fiber.Map{"error": msg}
	if code != "" {
		body["code"] = code
	}
	return c.Status(status).JSON(body)
}
