package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portside/portside/internal/app/model"
	"github.com/portside/portside/internal/app/repository"
	"github.com/portside/portside/internal/app/service"
	"github.com/portside/portside/internal/infra/assets"
)

// ShortcutDeps groups dependencies required by shortcut handlers.
type ShortcutDeps struct {
	Logger    *zap.Logger
	Shortcuts service.ShortcutService
	Assets    *assets.Store
}

// ShortcutHandler implements the /api/shortcuts endpoints.
type ShortcutHandler struct {
	logger    *zap.Logger
	shortcuts service.ShortcutService
	assets    *assets.Store
}

// NewShortcutHandler creates a shortcut handler with the provided
// dependencies.
func NewShortcutHandler(deps ShortcutDeps) *ShortcutHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShortcutHandler{
		logger:    logger,
		shortcuts: deps.Shortcuts,
		assets:    deps.Assets,
	}
}

// Register wires shortcut routes onto the provided router. The fixed
// /reorder route is registered before the :id routes so it is not captured
// as an id.
func (h *ShortcutHandler) Register(router fiber.Router) {
	shortcuts := router.Group("/api/shortcuts")
	{
		shortcuts.Get("/", h.List)
		shortcuts.Post("/", h.Create)
		shortcuts.Put("/reorder", h.Reorder)
		shortcuts.Post("/:id/favorite", h.ToggleFavorite)
		shortcuts.Put("/:id/section", h.SetSection)
		shortcuts.Put("/:id", h.Update)
		shortcuts.Delete("/:id", h.Delete)
	}
}

// List handles GET /api/shortcuts. The response order is the render
// contract: section scope first, position, then name.
func (h *ShortcutHandler) List(c *fiber.Ctx) error {
	shortcuts, err := h.shortcuts.List(requestCtx(c))
	if err != nil {
		return fail(c, h.logger, err, "failed to list shortcuts")
	}
	return c.JSON(shortcuts)
}

// createShortcutRequest is the JSON body for POST /api/shortcuts. Port
// accepts a number or a numeric string, since form-originated clients send
// strings.
type createShortcutRequest struct {
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	URL          *string  `json:"url"`
	Port         *flexInt `json:"port"`
	Icon         *string  `json:"icon"`
	IconType     *string  `json:"icon_type"`
	ContainerID  *string  `json:"container_id"`
	IsFavorite   *bool    `json:"is_favorite"`
	UseTailscale *bool    `json:"use_tailscale"`
	SectionID    *int64   `json:"section_id"`
	Position     *int     `json:"position"`
}

// Create handles POST /api/shortcuts, as JSON or as multipart form data
// when an icon image is uploaded alongside.
func (h *ShortcutHandler) Create(c *fiber.Ctx) error {
	var input service.CreateShortcutInput

	if isMultipart(c) {
		parsed, err := h.shortcutInputFromForm(c)
		if err != nil {
			return badRequest(c, err.Error())
		}
		input = *parsed
	} else {
		var req createShortcutRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		input = service.CreateShortcutInput{
			Name:        req.Name,
			Description: req.Description,
			URL:         req.URL,
			Port:        req.Port.intPtr(),
			Icon:        req.Icon,
			IconType:    req.IconType,
			ContainerID: req.ContainerID,
			SectionID:   req.SectionID,
		}
		if req.IsFavorite != nil {
			input.IsFavorite = *req.IsFavorite
		}
		if req.UseTailscale != nil {
			input.UseTailscale = *req.UseTailscale
		}
		if req.Position != nil {
			input.Position = *req.Position
		}
	}

	shortcut, err := h.shortcuts.Create(requestCtx(c), input)
	if err != nil {
		return fail(c, h.logger, err, "failed to create shortcut")
	}
	return c.Status(fiber.StatusCreated).JSON(shortcut)
}

// updateShortcutRequest is the JSON body for PUT /api/shortcuts/:id. Every
// field is tri-state: absent leaves the value alone, null clears it (where
// clearing is meaningful), a value replaces it.
type updateShortcutRequest struct {
	Name         model.Optional[string]  `json:"name"`
	Description  model.Optional[string]  `json:"description"`
	URL          model.Optional[string]  `json:"url"`
	Port         model.Optional[flexInt] `json:"port"`
	Icon         model.Optional[string]  `json:"icon"`
	IconType     model.Optional[string]  `json:"icon_type"`
	ContainerID  model.Optional[string]  `json:"container_id"`
	IsFavorite   model.Optional[bool]    `json:"is_favorite"`
	UseTailscale model.Optional[bool]    `json:"use_tailscale"`
	SectionID    model.Optional[int64]   `json:"section_id"`
	Position     model.Optional[int]     `json:"position"`
}

// Update handles PUT /api/shortcuts/:id.
func (h *ShortcutHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid shortcut id")
	}

	var input service.UpdateShortcutInput
	if isMultipart(c) {
		parsed, err := h.shortcutUpdateFromForm(c)
		if err != nil {
			return badRequest(c, err.Error())
		}
		input = *parsed
	} else {
		var req updateShortcutRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		input = service.UpdateShortcutInput{
			Name:         req.Name,
			Description:  req.Description,
			URL:          req.URL,
			Port:         optionalInt(req.Port),
			Icon:         req.Icon,
			IconType:     req.IconType,
			ContainerID:  req.ContainerID,
			IsFavorite:   req.IsFavorite,
			UseTailscale: req.UseTailscale,
			SectionID:    req.SectionID,
			Position:     req.Position,
		}
	}

	shortcut, err := h.shortcuts.Update(requestCtx(c), id, input)
	if err != nil {
		return fail(c, h.logger, err, "failed to update shortcut", zap.Int64("id", id))
	}
	return c.JSON(shortcut)
}

type toggleFavoriteRequest struct {
	IsFavorite model.Optional[bool] `json:"is_favorite"`
}

// ToggleFavorite handles POST /api/shortcuts/:id/favorite. The desired
// state must be an explicit boolean; toggling an id that is already gone
// still succeeds.
func (h *ShortcutHandler) ToggleFavorite(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid shortcut id")
	}

	var req toggleFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !req.IsFavorite.Set || !req.IsFavorite.Valid {
		return badRequest(c, "is_favorite must be a boolean")
	}

	if err := h.shortcuts.ToggleFavorite(requestCtx(c), id, req.IsFavorite.Value); err != nil {
		return fail(c, h.logger, err, "failed to toggle favorite", zap.Int64("id", id))
	}
	return c.JSON(fiber.Map{"success": true, "is_favorite": req.IsFavorite.Value})
}

type setSectionRequest struct {
	SectionID model.Optional[int64] `json:"section_id"`
}

// SetSection handles PUT /api/shortcuts/:id/section. A null section_id
// moves the shortcut back to the unsectioned bucket; position is left as-is.
func (h *ShortcutHandler) SetSection(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid shortcut id")
	}

	var req setSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !req.SectionID.Set {
		return badRequest(c, "section_id is required (use null for no section)")
	}

	if err := h.shortcuts.SetSection(requestCtx(c), id, req.SectionID.Ptr()); err != nil {
		return fail(c, h.logger, err, "failed to move shortcut", zap.Int64("id", id))
	}
	return c.JSON(fiber.Map{"success": true})
}

type reorderShortcutsRequest struct {
	Shortcuts *[]repository.ReorderItem `json:"shortcuts"`
}

// Reorder handles PUT /api/shortcuts/reorder.
func (h *ShortcutHandler) Reorder(c *fiber.Ctx) error {
	var req reorderShortcutsRequest
	if err := c.BodyParser(&req); err != nil || req.Shortcuts == nil {
		return badRequest(c, "shortcuts must be an array")
	}

	if err := h.shortcuts.Reorder(requestCtx(c), *req.Shortcuts); err != nil {
		return fail(c, h.logger, err, "failed to reorder shortcuts")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /api/shortcuts/:id. Deleting an id that is already
// gone is a success, so re-fetch-driven clients never special-case it.
func (h *ShortcutHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid shortcut id")
	}

	if err := h.shortcuts.Delete(requestCtx(c), id); err != nil {
		return fail(c, h.logger, err, "failed to delete shortcut", zap.Int64("id", id))
	}
	return c.JSON(fiber.Map{"success": true})
}

// shortcutInputFromForm builds a create input from multipart form data,
// saving an uploaded icon image when present.
func (h *ShortcutHandler) shortcutInputFromForm(c *fiber.Ctx) (*service.CreateShortcutInput, error) {
	input := &service.CreateShortcutInput{Name: c.FormValue("name")}

	if v := c.FormValue("description"); v != "" {
		input.Description = &v
	}
	if v := c.FormValue("url"); v != "" {
		input.URL = &v
	}
	if v := c.FormValue("port"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, &service.ValidationError{Message: "port must be an integer"}
		}
		input.Port = &port
	}
	if v := c.FormValue("icon"); v != "" {
		input.Icon = &v
	}
	if v := c.FormValue("icon_type"); v != "" {
		input.IconType = &v
	}
	if v := c.FormValue("container_id"); v != "" {
		input.ContainerID = &v
	}
	if v := c.FormValue("section_id"); v != "" {
		sectionID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, &service.ValidationError{Message: "section_id must be an integer"}
		}
		input.SectionID = &sectionID
	}
	if v := c.FormValue("is_favorite"); v != "" {
		b, err := parseFormBool(v)
		if err != nil {
			return nil, &service.ValidationError{Message: "is_favorite must be true or false"}
		}
		input.IsFavorite = b
	}
	if v := c.FormValue("use_tailscale"); v != "" {
		b, err := parseFormBool(v)
		if err != nil {
			return nil, &service.ValidationError{Message: "use_tailscale must be true or false"}
		}
		input.UseTailscale = b
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		path, err := h.assets.Save(file)
		if err != nil {
			return nil, err
		}
		upload := model.IconTypeUpload
		input.Icon = &path
		input.IconType = &upload
	}

	return input, nil
}

// shortcutUpdateFromForm builds a partial update from multipart form data.
// Form encoding cannot express null, so a present-but-empty value clears
// the field.
func (h *ShortcutHandler) shortcutUpdateFromForm(c *fiber.Ctx) (*service.UpdateShortcutInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &service.ValidationError{Message: "invalid form data"}
	}

	has := func(key string) (string, bool) {
		vals, ok := form.Value[key]
		if !ok || len(vals) == 0 {
			return "", false
		}
		return vals[0], true
	}

	input := &service.UpdateShortcutInput{}

	if v, ok := has("name"); ok {
		input.Name = model.Some(v)
	}
	if v, ok := has("description"); ok {
		input.Description = optionalFormString(v)
	}
	if v, ok := has("url"); ok {
		input.URL = optionalFormString(v)
	}
	if v, ok := has("port"); ok {
		if v == "" {
			input.Port = model.Null[int]()
		} else {
			port, err := strconv.Atoi(v)
			if err != nil {
				return nil, &service.ValidationError{Message: "port must be an integer"}
			}
			input.Port = model.Some(port)
		}
	}
	if v, ok := has("icon"); ok {
		input.Icon = model.Some(v)
	}
	if v, ok := has("icon_type"); ok {
		input.IconType = optionalFormString(v)
	}
	if v, ok := has("container_id"); ok {
		input.ContainerID = optionalFormString(v)
	}
	if v, ok := has("section_id"); ok {
		if v == "" {
			input.SectionID = model.Null[int64]()
		} else {
			sectionID, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, &service.ValidationError{Message: "section_id must be an integer"}
			}
			input.SectionID = model.Some(sectionID)
		}
	}
	if v, ok := has("is_favorite"); ok {
		b, err := parseFormBool(v)
		if err != nil {
			return nil, &service.ValidationError{Message: "is_favorite must be true or false"}
		}
		input.IsFavorite = model.Some(b)
	}
	if v, ok := has("use_tailscale"); ok {
		b, err := parseFormBool(v)
		if err != nil {
			return nil, &service.ValidationError{Message: "use_tailscale must be true or false"}
		}
		input.UseTailscale = model.Some(b)
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		path, err := h.assets.Save(file)
		if err != nil {
			return nil, err
		}
		input.Icon = model.Some(path)
		input.IconType = model.Some(model.IconTypeUpload)
	}

	return input, nil
}

func optionalFormString(v string) model.Optional[string] {
	if v == "" {
		return model.Null[string]()
	}
	return model.Some(v)
}

// parseFormBool accepts only explicit true/false, never coercions like "1".
func parseFormBool(v string) (bool, error) {
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, strconv.ErrSyntax
	}
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

func requestCtx(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// flexInt accepts a JSON number or a numeric string for the same field.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

func (f *flexInt) intPtr() *int {
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func optionalInt(o model.Optional[flexInt]) model.Optional[int] {
	out := model.Optional[int]{Set: o.Set, Valid: o.Valid}
	if o.Valid {
		out.Value = int(o.Value)
	}
	return out
}
