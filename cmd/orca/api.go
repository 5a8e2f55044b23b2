// Package main provides the Orca API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/alexgaganashvili/orca/pkg/engine"
	"github.com/alexgaganashvili/orca/pkg/persistence"
	"github.com/alexgaganashvili/orca/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger     *slog.Logger
	repository persistence.ExecutionRepository
	runner     *engine.Runner
	validate   *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	repository persistence.ExecutionRepository,
	runner *engine.Runner,
) *API {
	return &API{
		logger:     logger,
		repository: repository,
		runner:     runner,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.runner, a.repository, a.validate, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Orca API")
	})

	handlers.Register(app)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
