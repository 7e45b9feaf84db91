package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portside/portside/internal/app/model"
	"github.com/portside/portside/internal/app/repository"
	"github.com/portside/portside/internal/app/service"
)

// SectionDeps groups dependencies required by section handlers.
type SectionDeps struct {
	Logger   *zap.Logger
	Sections service.SectionService
}

// SectionHandler implements the /api/sections endpoints.
type SectionHandler struct {
	logger   *zap.Logger
	sections service.SectionService
}

// NewSectionHandler creates a section handler with the provided
// dependencies.
func NewSectionHandler(deps SectionDeps) *SectionHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionHandler{
		logger:   logger,
		sections: deps.Sections,
	}
}

// Register wires section routes onto the provided router.
func (h *SectionHandler) Register(router fiber.Router) {
	sections := router.Group("/api/sections")
	{
		sections.Get("/", h.List)
		sections.Post("/", h.Create)
		sections.Put("/reorder", h.Reorder)
		sections.Put("/:id/toggle", h.ToggleCollapsed)
		sections.Put("/:id", h.Update)
		sections.Delete("/:id", h.Delete)
	}
}

// List handles GET /api/sections, ordered by position.
func (h *SectionHandler) List(c *fiber.Ctx) error {
	sections, err := h.sections.List(requestCtx(c))
	if err != nil {
		return fail(c, h.logger, err, "failed to list sections")
	}
	return c.JSON(sections)
}

type createSectionRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/sections. New sections append at the end of the
// global order.
func (h *SectionHandler) Create(c *fiber.Ctx) error {
	var req createSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	section, err := h.sections.Create(requestCtx(c), req.Name)
	if err != nil {
		return fail(c, h.logger, err, "failed to create section")
	}
	return c.Status(fiber.StatusCreated).JSON(section)
}

type updateSectionRequest struct {
	Name        model.Optional[string] `json:"name"`
	IsCollapsed model.Optional[bool]   `json:"is_collapsed"`
}

// Update handles PUT /api/sections/:id; at least one field is required.
func (h *SectionHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid section id")
	}

	var req updateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if _, err := h.sections.Update(requestCtx(c), id, service.UpdateSectionInput{
		Name:        req.Name,
		IsCollapsed: req.IsCollapsed,
	}); err != nil {
		return fail(c, h.logger, err, "failed to update section", zap.Int64("id", id))
	}
	return c.JSON(fiber.Map{"success": true})
}

// ToggleCollapsed handles PUT /api/sections/:id/toggle.
func (h *SectionHandler) ToggleCollapsed(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid section id")
	}

	if err := h.sections.ToggleCollapsed(requestCtx(c), id); err != nil {
		return fail(c, h.logger, err, "failed to toggle section", zap.Int64("id", id))
	}
	return c.JSON(fiber.Map{"success": true})
}

type reorderSectionsRequest struct {
	Sections *[]repository.ReorderItem `json:"sections"`
}

// Reorder handles PUT /api/sections/reorder.
func (h *SectionHandler) Reorder(c *fiber.Ctx) error {
	var req reorderSectionsRequest
	if err := c.BodyParser(&req); err != nil || req.Sections == nil {
		return badRequest(c, "sections must be an array")
	}

	if err := h.sections.Reorder(requestCtx(c), *req.Sections); err != nil {
		return fail(c, h.logger, err, "failed to reorder sections")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /api/sections/:id. Member shortcuts survive and
// return to the unsectioned bucket atomically with the removal.
func (h *SectionHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid section id")
	}

	if err := h.sections.Delete(requestCtx(c), id); err != nil {
		return fail(c, h.logger, err, "failed to delete section", zap.Int64("id", id))
	}
	return c.JSON(fiber.Map{"success": true})
}
