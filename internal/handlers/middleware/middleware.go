package middleware

import (
	"errors"
	"rmatrack/config"
	userController "rmatrack/internal/controllers/users"
	"rmatrack/internal/logger"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const TesterLocal = "tester"

type Middleware struct {
	users  *userController.UserController
	config config.Config
	log    logger.Logger
}

func New(users *userController.UserController, config config.Config) Middleware {
	return Middleware{
		users:  users,
		config: config,
		log:    logger.New("middleware"),
	}
}

// Global is the stack every request passes through.
func (m Middleware) Global() []fiber.Handler {
	return []fiber.Handler{
		recover.New(),
		cors.New(cors.Config{
			AllowOrigins: m.config.CorsAllowOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}),
		m.requestLogger,
	}
}

func (m Middleware) requestLogger(c *fiber.Ctx) error {
	err := c.Next()
	m.log.Function("requestLogger").Debug(
		"request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
	)
	return err
}

// RequireTester rejects requests without a live tester session and stores
// the session in locals under TesterLocal.
func (m Middleware) RequireTester(c *fiber.Ctx) error {
	log := m.log.Function("RequireTester")

	session, err := m.users.Validate(c.Context(), BearerToken(c))
	if errors.Is(err, userController.ErrUnauthorized) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "unauthorized"})
	}
	if err != nil {
		log.Er("failed to validate session", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to validate session", "error": err.Error()})
	}

	c.Locals(TesterLocal, session)
	return c.Next()
}

func BearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}
