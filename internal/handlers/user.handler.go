package handlers

import (
	"rmatrack/internal/app"
	userController "rmatrack/internal/controllers/users"
	"rmatrack/internal/handlers/middleware"
	. "rmatrack/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller userController.UserController
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		controller: *app.UserController,
		Handler:    newHandler(app, router, "user_handler"),
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")
	users.Post("/login", h.login)
	users.Post("/logout", h.logout)
	users.Get("/", h.middleware.RequireTester, h.getUser)
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var loginRequest LoginRequest
	if err := c.BodyParser(&loginRequest); err != nil {
		log.Er("failed to parse login request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse login request"})
	}

	token, err := h.controller.Login(c.Context(), loginRequest)
	if err != nil {
		return h.fail(c, "login failed", err)
	}

	return c.JSON(fiber.Map{"message": "success", "token": token})
}

func (h *UserHandler) logout(c *fiber.Ctx) error {
	if err := h.controller.Logout(c.Context(), middleware.BearerToken(c)); err != nil {
		return h.fail(c, "logout failed", err)
	}
	return c.JSON(fiber.Map{"message": "success"})
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success", "user": c.Locals(middleware.TesterLocal)})
}
