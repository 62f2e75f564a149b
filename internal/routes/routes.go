package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/tadreeshq/tadrees-backend/internal/config"
	"github.com/tadreeshq/tadrees-backend/internal/handlers"
	"github.com/tadreeshq/tadrees-backend/internal/middleware"
	"github.com/tadreeshq/tadrees-backend/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	planHandler *handlers.PlanHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	contentHandler *handlers.ContentHandler,
	enrollmentHandler *handlers.EnrollmentHandler,
	webhookHandler *handlers.WebhookHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Plan catalogue is public for the pricing page; editing is admin-only.
	api.Get("/plans", planHandler.List)
	api.Get("/plans/:id", planHandler.Get)
	api.Get("/student-plans", planHandler.ListStudentPlans)
	api.Get("/student-plans/:id", planHandler.GetStudentPlan)

	// Teacher self-service (JWT + teacher role)
	teacher := api.Group("/teacher", middleware.JWTProtected(cfg), middleware.RoleRequired(services.RoleTeacher))
	teacher.Post("/subscribe", subscriptionHandler.Subscribe)
	teacher.Get("/subscription", subscriptionHandler.Mine)
	teacher.Get("/usage", subscriptionHandler.Usage)
	teacher.Post("/roster", contentHandler.AddRosterStudent)
	teacher.Delete("/roster/:studentId", contentHandler.RemoveRosterStudent)
	teacher.Post("/exams", contentHandler.CreateExam)
	teacher.Delete("/exams/:id", contentHandler.DeleteExam)
	teacher.Post("/questions", contentHandler.CreateQuestion)
	teacher.Delete("/questions/:id", contentHandler.DeleteQuestion)

	// Student self-service (JWT + student role)
	student := api.Group("/student", middleware.JWTProtected(cfg), middleware.RoleRequired(services.RoleStudent))
	student.Post("/subscribe", enrollmentHandler.Subscribe)
	student.Get("/subscription", enrollmentHandler.MySubscription)
	student.Post("/enrollments", enrollmentHandler.Enroll)
	student.Get("/enrollments", enrollmentHandler.List)
	student.Delete("/enrollments/:id", enrollmentHandler.Cancel)

	// Admin panel (JWT + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(cfg))
	admin.Post("/plans", planHandler.Create)
	admin.Put("/plans/:id", planHandler.Update)
	admin.Patch("/plans/:id/toggle", planHandler.ToggleActive)
	admin.Post("/student-plans", planHandler.CreateStudentPlan)
	admin.Patch("/student-plans/:id/toggle", planHandler.ToggleStudentPlan)
	admin.Post("/subscriptions", subscriptionHandler.Create)
	admin.Get("/subscriptions", subscriptionHandler.List)
	admin.Get("/subscriptions/:id", subscriptionHandler.Get)
	admin.Patch("/subscriptions/:id/activate", subscriptionHandler.Activate)
	admin.Patch("/subscriptions/:id/deactivate", subscriptionHandler.Deactivate)
	admin.Patch("/subscriptions/:id/cancel", subscriptionHandler.Cancel)
	admin.Patch("/subscriptions/:id/renew", subscriptionHandler.Renew)
	admin.Patch("/subscriptions/:id/change-plan", subscriptionHandler.ChangePlan)
	admin.Patch("/subscriptions/:id/payment-status", subscriptionHandler.UpdatePaymentStatus)

	// Webhooks — shared-secret auth, no JWT
	webhooks := api.Group("/webhooks")
	webhooks.Post("/payments", webhookHandler.HandlePayment)
}
