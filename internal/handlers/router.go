package handlers

import (
	"errors"
	"rmatrack/config"
	"rmatrack/internal/app"
	returnsController "rmatrack/internal/controllers/returns"
	userController "rmatrack/internal/controllers/users"
	"rmatrack/internal/handlers/middleware"
	"rmatrack/internal/ingest"
	"rmatrack/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func newHandler(app app.App, router fiber.Router, file string) Handler {
	return Handler{
		middleware: app.Middleware,
		log:        logger.New("handlers").File(file),
		router:     router,
	}
}

func Router(router fiber.Router, app *app.App) (err error) {
	for _, handler := range app.Middleware.Global() {
		router.Use(handler)
	}

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewUserHandler(*app, api).Register()
	NewReturnsHandler(*app, api).Register()
	NewOutcomeHandler(*app, api).Register()
	NewDashboardHandler(*app, api).Register()
	NewPortalHandler(*app, api).Register()

	return nil
}

func HealthHandler(router fiber.Router, config config.Config) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "success",
			"status":  "ok",
			"version": config.GeneralVersion,
		})
	})
}

// errorStatus maps domain failures onto HTTP statuses. Anything unknown is
// treated as a storage or server failure.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ingest.ErrParseFailure),
		errors.Is(err, returnsController.ErrInvalidOutcome),
		errors.Is(err, returnsController.ErrInvalidFilter):
		return fiber.StatusBadRequest
	case errors.Is(err, returnsController.ErrCaseNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, userController.ErrUnauthorized):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func (h Handler) fail(c *fiber.Ctx, message string, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		h.log.Er(message, err)
	}
	return c.Status(status).JSON(fiber.Map{"message": message, "error": err.Error()})
}
