package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
)

// fail maps a service error to the HTTP surface. Taxonomy errors carry
// their own status and user-safe message; anything else is a 500 whose
// detail goes to the log, not the client.
func fail(c *fiber.Ctx, err error) error {
	if e, ok := apperr.As(err); ok {
		return c.Status(e.Status()).JSON(dto.ErrorResponse{
			Error: true, Message: e.Message,
		})
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

// parseUUIDParam reads a path parameter as a UUID.
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid " + name)
	}
	return id, nil
}
