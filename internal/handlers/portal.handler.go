package handlers

import (
	"rmatrack/internal/app"
	returnsController "rmatrack/internal/controllers/returns"

	"github.com/gofiber/fiber/v2"
)

// PortalHandler serves the public customer lookup.
type PortalHandler struct {
	Handler
	controller returnsController.ReturnsController
}

func NewPortalHandler(app app.App, router fiber.Router) *PortalHandler {
	return &PortalHandler{
		controller: *app.ReturnsController,
		Handler:    newHandler(app, router, "portal_handler"),
	}
}

func (h *PortalHandler) Register() {
	h.router.Get("/portal/lookup", h.lookup)
}

func (h *PortalHandler) lookup(c *fiber.Ctx) error {
	lookup, err := h.controller.LookupForCustomer(c.Context(), c.Query("q"))
	if err != nil {
		return h.fail(c, "no return found for that reference", err)
	}
	return c.JSON(fiber.Map{"message": "success", "lookup": lookup})
}
