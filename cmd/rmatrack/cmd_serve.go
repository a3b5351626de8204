package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"rmatrack/internal/app"
	"rmatrack/internal/handlers"
	"rmatrack/internal/logger"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

const uploadLimit = 10 * 1024 * 1024

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := logger.New("main").Function("runServe")

	application, err := app.New()
	if err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	defer application.Close()

	server := fiber.New(fiber.Config{
		AppName:               "rmatrack " + application.Config.GeneralVersion,
		ReadTimeout:           application.Config.RequestTimeout(),
		WriteTimeout:          application.Config.RequestTimeout(),
		BodyLimit:             uploadLimit,
		DisableStartupMessage: application.Config.IsProduction(),
	})

	if err := handlers.Router(server, application); err != nil {
		return log.Err("failed to register routes", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf(":%d", application.Config.ServerPort)
		log.Info("Starting server", "address", address)
		listenErr <- server.Listen(address)
	}()

	select {
	case err := <-listenErr:
		return log.Err("server stopped", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.ShutdownWithContext(shutdownCtx)
}
