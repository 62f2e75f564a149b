package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tadreeshq/tadrees-backend/internal/config"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
)

// AdminRequired checks, in order:
// 1. The X-Admin-Token header against the configured service token
// 2. The authenticated email against the configured admin list
func AdminRequired(cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			if c.Get("X-Admin-Token") == cfg.AdminToken {
				return c.Next()
			}
		}

		if email := CurrentEmail(c); email != "" && contains(adminEmails, email) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
