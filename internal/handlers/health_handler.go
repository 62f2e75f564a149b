package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tadreeshq/tadrees-backend/internal/database"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
	"github.com/tadreeshq/tadrees-backend/internal/exempt"
)

type HealthHandler struct {
	policy exempt.Policy
}

func NewHealthHandler(policy exempt.Policy) *HealthHandler {
	return &HealthHandler{policy: policy}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	exemptCount := 0
	if allowlist, ok := h.policy.(*exempt.Allowlist); ok {
		exemptCount = allowlist.Size()
	}

	return c.JSON(dto.HealthResponse{
		Status:         "ok",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		DB:             dbStatus,
		ExemptAccounts: exemptCount,
	})
}
