package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portside/portside/internal/infra/docker"
)

// ContainerDeps groups dependencies required by container handlers.
type ContainerDeps struct {
	Logger  *zap.Logger
	Runtime docker.Runtime
}

// ContainerHandler passes container operations straight through to the
// runtime; the dashboard never owns container state.
type ContainerHandler struct {
	logger  *zap.Logger
	runtime docker.Runtime
}

// NewContainerHandler creates a container handler with the provided
// dependencies.
func NewContainerHandler(deps ContainerDeps) *ContainerHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContainerHandler{
		logger:  logger,
		runtime: deps.Runtime,
	}
}

// Register wires container routes onto the provided router.
func (h *ContainerHandler) Register(router fiber.Router) {
	containers := router.Group("/api/containers")
	{
		containers.Get("/", h.List)
		containers.Post("/:id/start", h.Start)
		containers.Post("/:id/stop", h.Stop)
		containers.Post("/:id/restart", h.Restart)
	}
}

// List handles GET /api/containers.
func (h *ContainerHandler) List(c *fiber.Ctx) error {
	containers, err := h.runtime.List(requestCtx(c))
	if err != nil {
		h.logger.Error("failed to list containers", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch containers",
		})
	}
	return c.JSON(containers)
}

// Start handles POST /api/containers/:id/start.
func (h *ContainerHandler) Start(c *fiber.Ctx) error {
	return h.lifecycle(c, "start", h.runtime.Start)
}

// Stop handles POST /api/containers/:id/stop.
func (h *ContainerHandler) Stop(c *fiber.Ctx) error {
	return h.lifecycle(c, "stop", h.runtime.Stop)
}

// Restart handles POST /api/containers/:id/restart.
func (h *ContainerHandler) Restart(c *fiber.Ctx) error {
	return h.lifecycle(c, "restart", h.runtime.Restart)
}

func (h *ContainerHandler) lifecycle(c *fiber.Ctx, op string, fn func(ctx context.Context, id string) error) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "container id is required")
	}
	if err := fn(requestCtx(c), id); err != nil {
		h.logger.Error("container operation failed",
			zap.String("op", op),
			zap.String("container_id", id),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to " + op + " container",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}
