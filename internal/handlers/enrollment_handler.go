package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
	"github.com/tadreeshq/tadrees-backend/internal/middleware"
	"github.com/tadreeshq/tadrees-backend/internal/services"
)

type EnrollmentHandler struct {
	enrollments *services.EnrollmentService
	studentSubs *services.StudentSubscriptionService
}

func NewEnrollmentHandler(enrollments *services.EnrollmentService, studentSubs *services.StudentSubscriptionService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, studentSubs: studentSubs}
}

// Enroll joins the authenticated student with a teacher.
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	studentID := middleware.CurrentUserID(c)
	if studentID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	var req dto.EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	teacherID, err := uuid.Parse(req.TeacherID)
	if err != nil {
		return fail(c, apperr.Validation("invalid teacher id"))
	}

	enrollment, err := h.enrollments.Enroll(studentID, teacherID, req.Type, req.Notes)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

func (h *EnrollmentHandler) List(c *fiber.Ctx) error {
	studentID := middleware.CurrentUserID(c)
	if studentID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	enrollments, err := h.enrollments.ListForStudent(studentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(enrollments)
}

func (h *EnrollmentHandler) Cancel(c *fiber.Ctx) error {
	studentID := middleware.CurrentUserID(c)
	if studentID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.enrollments.Cancel(studentID, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "enrollment cancelled"})
}

// Subscribe opens a student subscription on the chosen student plan.
func (h *EnrollmentHandler) Subscribe(c *fiber.Ctx) error {
	studentID := middleware.CurrentUserID(c)
	if studentID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	var req dto.CreateStudentSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	planID, err := uuid.Parse(req.StudentPlanID)
	if err != nil {
		return fail(c, apperr.Validation("invalid student plan id"))
	}

	sub, err := h.studentSubs.Create(studentID, planID, req.Notes)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// MySubscription returns the student's valid subscription, if any.
func (h *EnrollmentHandler) MySubscription(c *fiber.Ctx) error {
	studentID := middleware.CurrentUserID(c)
	if studentID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	sub, err := h.studentSubs.ActiveForStudent(studentID)
	if err != nil {
		return fail(c, err)
	}
	if sub == nil {
		return c.JSON(dto.MessageResponse{Message: "no active subscription"})
	}
	return c.JSON(sub)
}
