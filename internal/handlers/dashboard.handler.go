package handlers

import (
	"rmatrack/internal/app"
	returnsController "rmatrack/internal/controllers/returns"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	Handler
	controller returnsController.ReturnsController
}

func NewDashboardHandler(app app.App, router fiber.Router) *DashboardHandler {
	return &DashboardHandler{
		controller: *app.ReturnsController,
		Handler:    newHandler(app, router, "dashboard_handler"),
	}
}

func (h *DashboardHandler) Register() {
	h.router.Get("/dashboard", h.middleware.RequireTester, h.getDashboard)
	h.router.Get("/status", h.getStatus)
}

func (h *DashboardHandler) getDashboard(c *fiber.Ctx) error {
	summary, err := h.controller.Dashboard(c.Context())
	if err != nil {
		return h.fail(c, "failed to build dashboard", err)
	}
	return c.JSON(fiber.Map{"message": "success", "dashboard": summary})
}

func (h *DashboardHandler) getStatus(c *fiber.Ctx) error {
	status, err := h.controller.Status(c.Context())
	if err != nil {
		return h.fail(c, "failed to get status", err)
	}
	return c.JSON(fiber.Map{"message": "success", "status": status})
}
