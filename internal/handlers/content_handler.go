package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
	"github.com/tadreeshq/tadrees-backend/internal/middleware"
	"github.com/tadreeshq/tadrees-backend/internal/services"
)

// ContentHandler exposes the quota-consuming teacher resources. Every
// create is gated by the entitlement service inside ContentService.
type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

func (h *ContentHandler) AddRosterStudent(c *fiber.Ctx) error {
	teacherID := middleware.CurrentUserID(c)
	if teacherID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	var req dto.AddRosterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return fail(c, apperr.Validation("invalid student id"))
	}

	entry, err := h.content.AddRosterStudent(teacherID, studentID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *ContentHandler) RemoveRosterStudent(c *fiber.Ctx) error {
	teacherID := middleware.CurrentUserID(c)
	if teacherID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	studentID, err := parseUUIDParam(c, "studentId")
	if err != nil {
		return fail(c, err)
	}

	if err := h.content.RemoveRosterStudent(teacherID, studentID); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "student removed from roster"})
}

func (h *ContentHandler) CreateExam(c *fiber.Ctx) error {
	teacherID := middleware.CurrentUserID(c)
	if teacherID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	var req dto.CreateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	exam, err := h.content.CreateExam(teacherID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(exam)
}

func (h *ContentHandler) DeleteExam(c *fiber.Ctx) error {
	teacherID := middleware.CurrentUserID(c)
	if teacherID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	examID, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.content.DeleteExam(teacherID, examID); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "exam deleted"})
}

func (h *ContentHandler) CreateQuestion(c *fiber.Ctx) error {
	teacherID := middleware.CurrentUserID(c)
	if teacherID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	question, err := h.content.CreateQuestion(teacherID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

func (h *ContentHandler) DeleteQuestion(c *fiber.Ctx) error {
	teacherID := middleware.CurrentUserID(c)
	if teacherID == uuid.Nil {
		return fail(c, apperr.Authorization("authentication required"))
	}

	questionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.content.DeleteQuestion(teacherID, questionID); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "question deleted"})
}
