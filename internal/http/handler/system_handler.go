package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portside/portside/internal/app/service"
	"github.com/portside/portside/internal/infra/tailscale"
)

// SystemDeps groups dependencies for the dashboard view and host-status
// endpoints.
type SystemDeps struct {
	Logger     *zap.Logger
	Projection *service.Projection
	Tailscale  *tailscale.Lookup
}

// SystemHandler serves the derived dashboard view plus host-level status.
type SystemHandler struct {
	logger     *zap.Logger
	projection *service.Projection
	tailscale  *tailscale.Lookup
}

// NewSystemHandler creates a system handler with the provided dependencies.
func NewSystemHandler(deps SystemDeps) *SystemHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemHandler{
		logger:     logger,
		projection: deps.Projection,
		tailscale:  deps.Tailscale,
	}
}

// Register wires system routes onto the provided router.
func (h *SystemHandler) Register(router fiber.Router) {
	router.Get("/health", h.Health)
	router.Get("/api/dashboard", h.Dashboard)
	router.Get("/api/tailscale", h.Tailscale)
}

// Health is a simple liveness endpoint.
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Dashboard handles GET /api/dashboard: the favorited shortcuts partitioned
// section-major, position-minor, with empty sections still present.
func (h *SystemHandler) Dashboard(c *fiber.Ctx) error {
	view, err := h.projection.Dashboard(requestCtx(c))
	if err != nil {
		return fail(c, h.logger, err, "failed to build dashboard")
	}
	return c.JSON(view)
}

// Tailscale handles GET /api/tailscale.
func (h *SystemHandler) Tailscale(c *fiber.Ctx) error {
	return c.JSON(h.tailscale.Status(requestCtx(c)))
}
