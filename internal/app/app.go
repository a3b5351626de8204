package app

import (
	"rmatrack/config"
	"rmatrack/internal/database"
	"rmatrack/internal/handlers/middleware"
	"rmatrack/internal/logger"
	"rmatrack/internal/repositories"
	"rmatrack/internal/services"

	returnsController "rmatrack/internal/controllers/returns"
	userController "rmatrack/internal/controllers/users"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Config     config.Config

	// Services
	TransactionService *services.TransactionService

	// Repositories
	CaseRepo    repositories.ReturnCaseRepository
	OutcomeRepo repositories.TestOutcomeRepository
	BatchRepo   repositories.ImportBatchRepository
	SessionRepo repositories.SessionRepository

	// Controllers
	ReturnsController *returnsController.ReturnsController
	UserController    *userController.UserController
}

// New loads config and connects every store the HTTP server needs.
func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}
	logger.Setup(config.Environment, config.LogLevel)

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	app, err := Assemble(db, config)
	if err != nil {
		_ = db.Close()
		return &App{}, err
	}

	return app, nil
}

// NewWithoutCache is New for command line work that never checks tester
// sessions, so valkey does not need to be running.
func NewWithoutCache() (*App, error) {
	log := logger.New("app").Function("NewWithoutCache")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}
	logger.Setup(config.Environment, config.LogLevel)

	db, err := database.NewWithoutCache(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	app, err := Assemble(db, config)
	if err != nil {
		_ = db.Close()
		return &App{}, err
	}

	return app, nil
}

// Assemble wires repositories, services and controllers over an open
// database.
func Assemble(db database.DB, config config.Config) (*App, error) {
	log := logger.New("app").Function("Assemble")

	// Initialize services
	transactionService := services.NewTransactionService(db)

	// Initialize repositories
	caseRepo := repositories.NewReturnCase(db)
	outcomeRepo := repositories.NewTestOutcome(db)
	batchRepo := repositories.NewImportBatch(db)
	sessionRepo := repositories.NewSession(db)

	// Initialize controllers with repositories and services
	returnsController := returnsController.New(
		caseRepo,
		outcomeRepo,
		batchRepo,
		transactionService,
		config,
	)
	userController, err := userController.New(sessionRepo, config)
	if err != nil {
		return &App{}, log.Err("failed to create user controller", err)
	}
	middleware := middleware.New(userController, config)

	app := &App{
		Database:           db,
		Config:             config,
		Middleware:         middleware,
		TransactionService: transactionService,
		CaseRepo:           caseRepo,
		OutcomeRepo:        outcomeRepo,
		BatchRepo:          batchRepo,
		SessionRepo:        sessionRepo,
		ReturnsController:  returnsController,
		UserController:     userController,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.TransactionService,
		a.ReturnsController,
		a.UserController,
		a.CaseRepo,
		a.OutcomeRepo,
		a.BatchRepo,
		a.SessionRepo,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	return a.Database.Close()
}
