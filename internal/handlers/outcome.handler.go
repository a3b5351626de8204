package handlers

import (
	"bytes"
	"rmatrack/internal/app"
	returnsController "rmatrack/internal/controllers/returns"
	. "rmatrack/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OutcomeHandler struct {
	Handler
	controller returnsController.ReturnsController
}

func NewOutcomeHandler(app app.App, router fiber.Router) *OutcomeHandler {
	return &OutcomeHandler{
		controller: *app.ReturnsController,
		Handler:    newHandler(app, router, "outcome_handler"),
	}
}

func (h *OutcomeHandler) Register() {
	results := h.router.Group("/test-results", h.middleware.RequireTester)
	results.Get("/", h.listOutcomes)
	results.Post("/", h.submitOutcome)
	results.Get("/export", h.exportOutcomes)
}

func (h *OutcomeHandler) listOutcomes(c *fiber.Ctx) error {
	var filter OutcomeFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "invalid filter", "error": err.Error()})
	}

	outcomes, err := h.controller.ListOutcomes(c.Context(), filter)
	if err != nil {
		return h.fail(c, "failed to list test results", err)
	}

	return c.JSON(fiber.Map{"message": "success", "results": outcomes})
}

func (h *OutcomeHandler) submitOutcome(c *fiber.Ctx) error {
	log := h.log.Function("submitOutcome")

	var request SubmitOutcomeRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse outcome request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse outcome request"})
	}

	outcome, err := h.controller.SubmitOutcome(c.Context(), request)
	if err != nil {
		return h.fail(c, "failed to save test result", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "result": outcome})
}

func (h *OutcomeHandler) exportOutcomes(c *fiber.Ctx) error {
	var filter OutcomeFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "invalid filter", "error": err.Error()})
	}

	var buf bytes.Buffer
	if err := h.controller.ExportOutcomes(c.Context(), &buf, filter); err != nil {
		return h.fail(c, "failed to export test results", err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment("test_results.csv")
	return c.Send(buf.Bytes())
}
