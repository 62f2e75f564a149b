package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
	"github.com/tadreeshq/tadrees-backend/internal/services"
)

type PlanHandler struct {
	plans        *services.PlanService
	studentPlans *services.StudentPlanService
}

func NewPlanHandler(plans *services.PlanService, studentPlans *services.StudentPlanService) *PlanHandler {
	return &PlanHandler{plans: plans, studentPlans: studentPlans}
}

func (h *PlanHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan, err := h.plans.Create(&req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// List returns all plans; ?active=true narrows to those on sale.
func (h *PlanHandler) List(c *fiber.Ctx) error {
	var active *bool
	switch c.Query("active") {
	case "true":
		t := true
		active = &t
	case "false":
		f := false
		active = &f
	}

	plans, err := h.plans.List(active)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plans)
}

func (h *PlanHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	plan, err := h.plans.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plan)
}

func (h *PlanHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.UpdatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan, err := h.plans.Update(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plan)
}

func (h *PlanHandler) ToggleActive(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	plan, err := h.plans.ToggleActive(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plan)
}

func (h *PlanHandler) CreateStudentPlan(c *fiber.Ctx) error {
	var req dto.CreateStudentPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan, err := h.studentPlans.Create(&req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (h *PlanHandler) ListStudentPlans(c *fiber.Ctx) error {
	var active *bool
	switch c.Query("active") {
	case "true":
		t := true
		active = &t
	case "false":
		f := false
		active = &f
	}

	plans, err := h.studentPlans.List(active)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plans)
}

func (h *PlanHandler) GetStudentPlan(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	plan, err := h.studentPlans.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plan)
}

func (h *PlanHandler) ToggleStudentPlan(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	plan, err := h.studentPlans.ToggleActive(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plan)
}
