package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/middleware"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/service"
)

type StatsHandler struct {
	svc *service.FieldService
}

func NewStatsHandler(svc *service.FieldService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GetStats handles GET /api/lists/:listId/custom-fields/stats
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	listID, errMsg := middleware.ValidateID(c.Params("listId"), "listId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	stats, err := h.svc.Stats(c.Context(), listID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
