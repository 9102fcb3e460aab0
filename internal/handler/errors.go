package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/middleware"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
)

// respondError maps the core error kinds onto HTTP statuses: 404 for
// missing resources, 409 for state conflicts, 422 for invalid input.
// Anything else is a store failure and surfaces as 500.
func respondError(c fiber.Ctx, err error) error {
	var notFound *model.NotFoundError
	var conflict *model.ConflictError
	var validation *model.ValidationError

	switch {
	case errors.As(err, &notFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", notFound.Error())
	case errors.As(err, &conflict):
		return middleware.ErrorResponse(c, fiber.StatusConflict, conflict.Code, conflict.Message)
	case errors.As(err, &validation):
		return middleware.ErrorResponse(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", validation.Error())
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
