package mockapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Checker-Finance/maturity-client/internal/metrics"
)

// NewApp builds the fiber app with all routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterRoutes(app, h)
	return app
}

func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Use(countRequests)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")
	v1.Post("/auth/signin", h.SignIn)
	v1.Post("/auth/signup", h.SignUp)
	v1.Post("/auth/signout", h.SignOut)
	v1.Get("/terms", h.Terms)
	v1.Get("/debug/delay", h.Delay)

	auth := h.RequireAuth
	v1.Get("/auth/me", auth, h.Me)

	v1.Get("/assessment/list", auth, h.ListAssessments)
	v1.Get("/assessment/result/:id", auth, h.AssessmentResult)
	v1.Get("/assessment/compare", auth, h.CompareAssessments)
	v1.Post("/assessment", auth, h.CreateAssessment)

	v1.Get("/billing/plans", auth, h.Plans)
	v1.Post("/billing/checkout", auth, h.Checkout)
	v1.Get("/billing/subscription", auth, h.Subscription)
	v1.Post("/billing/cancel", auth, h.CancelSubscription)

	v1.Get("/team/members", auth, h.Members)
	v1.Post("/team/invite", auth, h.Invite)
	v1.Delete("/team/members/:id", auth, h.RemoveMember)
	v1.Get("/roles", auth, h.Roles)
	v1.Put("/roles/:userID", auth, h.AssignRole)

	v1.Get("/usecase", auth, h.ListUseCases)
	v1.Post("/usecase/import", auth, h.ImportUseCases)
	v1.Post("/usecase", auth, h.CreateUseCase)
	v1.Get("/usecase/:id", auth, h.GetUseCase)
	v1.Put("/usecase/:id", auth, h.UpdateUseCase)
	v1.Delete("/usecase/:id", auth, h.DeleteUseCase)
}

func countRequests(c *fiber.Ctx) error {
	err := c.Next()
	route := c.Route().Path
	metrics.IncMockRequest(route, c.Response().StatusCode())
	return err
}
