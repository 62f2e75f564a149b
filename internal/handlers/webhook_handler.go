package handlers

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/config"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
	"github.com/tadreeshq/tadrees-backend/internal/models"
	"github.com/tadreeshq/tadrees-backend/internal/services"
)

type WebhookHandler struct {
	cfg           *config.Config
	subscriptions *services.SubscriptionService
	studentSubs   *services.StudentSubscriptionService
}

func NewWebhookHandler(cfg *config.Config, subscriptions *services.SubscriptionService, studentSubs *services.StudentSubscriptionService) *WebhookHandler {
	return &WebhookHandler{
		cfg:           cfg,
		subscriptions: subscriptions,
		studentSubs:   studentSubs,
	}
}

// HandlePayment receives the payment gateway callback with shared-secret
// auth and applies the outcome to the named subscription.
func (h *WebhookHandler) HandlePayment(c *fiber.Ctx) error {
	if h.cfg.PaymentWebhookSecret == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Webhooks not configured",
		})
	}

	authHeader := c.Get("Authorization")
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.cfg.PaymentWebhookSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var webhook dto.PaymentWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return badRequest(c, "Invalid webhook payload")
	}

	subscriptionID, err := uuid.Parse(webhook.Event.SubscriptionID)
	if err != nil {
		return badRequest(c, "Invalid subscription id in webhook payload")
	}

	if err := h.applyEvent(subscriptionID, &webhook.Event); err != nil {
		slog.Error("webhook processing failed",
			"event_type", webhook.Event.Type,
			"subscription_id", subscriptionID,
			"error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})
	}

	slog.Info("webhook processed",
		"event_type", webhook.Event.Type,
		"subscription_id", subscriptionID,
		"side", webhook.Event.Side)
	return c.JSON(fiber.Map{"received": true})
}

func (h *WebhookHandler) applyEvent(subscriptionID uuid.UUID, event *dto.PaymentEvent) error {
	if event.Side == dto.PaymentSideStudent {
		_, err := h.studentSubs.MarkPayment(subscriptionID, paymentStatusFor(event.Type))
		return err
	}

	switch event.Type {
	case dto.PaymentEventSucceeded:
		req := &dto.ActivateSubscriptionRequest{PaymentMethod: event.Method}
		if event.Amount > 0 {
			req.Amount = &event.Amount
		}
		_, err := h.subscriptions.Activate(subscriptionID, req)
		return err
	case dto.PaymentEventFailed:
		_, err := h.subscriptions.UpdatePaymentStatus(subscriptionID, &dto.UpdatePaymentStatusRequest{
			PaymentStatus: models.PaymentFailed,
		})
		return err
	case dto.PaymentEventRefunded:
		_, err := h.subscriptions.Cancel(subscriptionID, &dto.CancelSubscriptionRequest{
			Reason: "payment refunded",
		})
		return err
	default:
		slog.Info("ignoring unknown webhook event type", "event_type", event.Type)
		return nil
	}
}

func paymentStatusFor(eventType string) string {
	switch eventType {
	case dto.PaymentEventSucceeded:
		return models.PaymentPaid
	case dto.PaymentEventRefunded:
		return models.PaymentRefunded
	default:
		return models.PaymentFailed
	}
}
