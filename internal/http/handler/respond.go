package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portside/portside/internal/app/repository"
	"github.com/portside/portside/internal/app/service"
)

// fail maps service errors onto the API contract: validation problems come
// back verbatim as 400, missing rows as 404, and anything else is logged in
// full and surfaced as a generic 500 so store internals never leak.
func fail(c *fiber.Ctx, logger *zap.Logger, err error, msg string, fields ...zap.Field) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Message})
	}
	if errors.Is(err, repository.ErrShortcutNotFound) || errors.Is(err, repository.ErrSectionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.Error(msg, append(fields, zap.Error(err))...)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func idParam(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
