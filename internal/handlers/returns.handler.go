package handlers

import (
	"bytes"
	"rmatrack/internal/app"
	returnsController "rmatrack/internal/controllers/returns"

	"github.com/gofiber/fiber/v2"
)

type ReturnsHandler struct {
	Handler
	controller returnsController.ReturnsController
}

func NewReturnsHandler(app app.App, router fiber.Router) *ReturnsHandler {
	return &ReturnsHandler{
		controller: *app.ReturnsController,
		Handler:    newHandler(app, router, "returns_handler"),
	}
}

func (h *ReturnsHandler) Register() {
	records := h.router.Group("/rma-records", h.middleware.RequireTester)
	records.Get("/", h.listCases)
	records.Get("/search", h.searchCase)
	records.Get("/export", h.exportCases)

	h.router.Post("/upload-csv", h.middleware.RequireTester, h.uploadCSV)
}

func (h *ReturnsHandler) listCases(c *fiber.Ctx) error {
	cases, err := h.controller.ListCases(c.Context())
	if err != nil {
		return h.fail(c, "failed to list cases", err)
	}
	return c.JSON(fiber.Map{"message": "success", "records": cases})
}

func (h *ReturnsHandler) searchCase(c *fiber.Ctx) error {
	found, err := h.controller.SearchCase(c.Context(), c.Query("q"))
	if err != nil {
		return h.fail(c, "case not found", err)
	}
	return c.JSON(fiber.Map{"message": "success", "record": found})
}

func (h *ReturnsHandler) exportCases(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.controller.ExportCases(c.Context(), &buf); err != nil {
		return h.fail(c, "failed to export cases", err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment("processed_rma_records.csv")
	return c.Send(buf.Bytes())
}

func (h *ReturnsHandler) uploadCSV(c *fiber.Ctx) error {
	log := h.log.Function("uploadCSV")

	header, err := c.FormFile("file")
	if err != nil {
		log.Er("missing upload file", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "a CSV file is required in field \"file\""})
	}

	file, err := header.Open()
	if err != nil {
		return h.fail(c, "failed to read upload", err)
	}
	defer file.Close()

	stats, err := h.controller.ImportSheet(c.Context(), header.Filename, file)
	if err != nil {
		return h.fail(c, "failed to import sheet", err)
	}

	return c.JSON(fiber.Map{"message": "success", "stats": stats})
}
