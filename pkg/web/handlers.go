// Package web provides the HTTP API for starting and inspecting executions.
package web

import (
	"log/slog"

	"github.com/alexgaganashvili/orca/pkg/auth"
	"github.com/alexgaganashvili/orca/pkg/engine"
	"github.com/alexgaganashvili/orca/pkg/front50"
	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/alexgaganashvili/orca/pkg/persistence"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	runner     *engine.Runner
	repository persistence.ExecutionRepository
	validator  *validator.Validate
	logger     *slog.Logger
}

func NewAPIHandlers(
	runner *engine.Runner,
	repository persistence.ExecutionRepository,
	validator *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		runner:     runner,
		repository: repository,
		validator:  validator,
		logger:     logger.With("module", "web"),
	}
}

// Register mounts the API routes on the app.
func (h *APIHandlers) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Post("/orchestrate", h.Orchestrate)
	app.Get("/executions/:id", h.GetExecution)
	app.Get("/applications/:application/executions", h.GetApplicationExecutions)
}

func (h *APIHandlers) Health(c fiber.Ctx) error {
	err := h.repository.HealthCheck(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": "healthy"})
}

// Orchestrate starts a pipeline from the posted definition and returns the
// finished execution. The caller identity, when present, becomes the
// execution's initiating user.
func (h *APIHandlers) Orchestrate(c fiber.Ctx) error {
	body := c.Body()

	err := models.ValidatePipelineJSON(body)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var def models.PipelineDef

	err = c.Bind().JSON(&def)
	if err != nil {
		return badRequest(c, "Invalid pipeline definition: "+err.Error())
	}

	err = h.validator.Struct(&def)
	if err != nil {
		return badRequest(c, "Invalid pipeline definition: "+err.Error())
	}

	var trigger *models.Trigger

	if user := c.Get(front50.UserHeader); user != "" {
		trigger = &models.Trigger{Type: "manual", User: user}
	}

	ctx := auth.WithIdentity(c.Context(), auth.User(c.Get(front50.UserHeader)))

	execution, err := h.runner.StartPipeline(ctx, &def, trigger)
	if err != nil {
		h.logger.Error("Failed to start pipeline", "pipeline", def.Name, "error", err)

		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(execution)
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	execution, err := h.repository.ExecutionByID(c.Context(), c.Params("id"))
	if err != nil {
		if persistence.IsExecutionNotFound(err) {
			return notFound(c, "execution not found")
		}

		return internalError(c, err)
	}

	return c.JSON(execution)
}

func (h *APIHandlers) GetApplicationExecutions(c fiber.Ctx) error {
	executions, err := h.repository.ExecutionsByApplication(c.Context(), c.Params("application"))
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"executions": executions})
}
