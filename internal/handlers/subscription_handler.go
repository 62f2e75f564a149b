package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
	"github.com/tadreeshq/tadrees-backend/internal/middleware"
	"github.com/tadreeshq/tadrees-backend/internal/services"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
	entitlement   *services.EntitlementService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService, entitlement *services.EntitlementService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions, entitlement: entitlement}
}

// Create is the administrative entry point: the teacher is named in the
// body and the subscription starts pending.
func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	teacherID, err := uuid.Parse(req.TeacherID)
	if err != nil {
		return fail(c, apperr.Validation("invalid teacher id"))
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return fail(c, apperr.Validation("invalid plan id"))
	}

	sub, err := h.subscriptions.Create(teacherID, planID, dto.IssuedByAdministrator, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// Subscribe is the self-service entry point: the teacher comes from the
// token and the subscription starts inactive until payment confirms.
func (h *SubscriptionHandler) Subscribe(c *fiber.Ctx) error {
	var req dto.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	teacherID := middleware.CurrentUserID(c)
	if teacherID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return fail(c, apperr.Validation("invalid plan id"))
	}

	sub, err := h.subscriptions.Create(teacherID, planID, dto.IssuedBySelf, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *SubscriptionHandler) Activate(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.ActivateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sub, err := h.subscriptions.Activate(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sub)
}

func (h *SubscriptionHandler) Deactivate(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.DeactivateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sub, err := h.subscriptions.Deactivate(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sub)
}

func (h *SubscriptionHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.CancelSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.CancelledBy == "" {
		req.CancelledBy = middleware.CurrentUserID(c).String()
	}

	sub, err := h.subscriptions.Cancel(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sub)
}

func (h *SubscriptionHandler) Renew(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.RenewSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sub, err := h.subscriptions.Renew(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sub)
}

func (h *SubscriptionHandler) ChangePlan(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.ChangePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sub, err := h.subscriptions.ChangePlan(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sub)
}

func (h *SubscriptionHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.UpdatePaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sub, err := h.subscriptions.UpdatePaymentStatus(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sub)
}

func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	sub, err := h.subscriptions.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sub)
}

// List supports ?status=, ?teacher_id= and ?plan_id= filters.
func (h *SubscriptionHandler) List(c *fiber.Ctx) error {
	var teacherID, planID *uuid.UUID
	if raw := c.Query("teacher_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fail(c, apperr.Validation("invalid teacher_id"))
		}
		teacherID = &id
	}
	if raw := c.Query("plan_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fail(c, apperr.Validation("invalid plan_id"))
		}
		planID = &id
	}

	subs, err := h.subscriptions.List(c.Query("status"), teacherID, planID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(subs)
}

// Mine returns the caller's active subscription, if any.
func (h *SubscriptionHandler) Mine(c *fiber.Ctx) error {
	teacherID := middleware.CurrentUserID(c)
	if teacherID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	sub, err := h.subscriptions.ActiveForTeacher(teacherID)
	if err != nil {
		return fail(c, err)
	}
	if sub == nil {
		return c.JSON(dto.MessageResponse{Message: "no active subscription"})
	}
	return c.JSON(sub)
}

// Usage is the account's quota readout: limit snapshot, live counters,
// exempt flag.
func (h *SubscriptionHandler) Usage(c *fiber.Ctx) error {
	teacherID := middleware.CurrentUserID(c)
	if teacherID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	teacher, exemptAccount, err := h.entitlement.Usage(teacherID)
	if err != nil {
		return fail(c, err)
	}

	var resp dto.UsageResponse
	resp.Limits.MaxStudents = teacher.Limits.MaxStudents
	resp.Limits.MaxExams = teacher.Limits.MaxExams
	resp.Limits.MaxQuestions = teacher.Limits.MaxQuestions
	resp.Usage.StudentsCount = teacher.Usage.StudentsCount
	resp.Usage.ExamsCount = teacher.Usage.ExamsCount
	resp.Usage.QuestionsCount = teacher.Usage.QuestionsCount
	resp.Exempt = exemptAccount
	return c.JSON(resp)
}
