package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/middleware"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/service"
)

type ValueHandler struct {
	svc *service.ValueService
}

func NewValueHandler(svc *service.ValueService) *ValueHandler {
	return &ValueHandler{svc: svc}
}

// SetValues handles PUT /api/videos/:videoId/fields
func (h *ValueHandler) SetValues(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateID(c.Params("videoId"), "videoId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.SetValuesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if err := h.svc.SetValues(c.Context(), videoID, req); err != nil {
		return respondError(c, err)
	}

	Metrics.ValuesSet.Add(float64(len(req.Values)))

	return c.JSON(fiber.Map{"success": true})
}

// GetValues handles GET /api/videos/:videoId/fields
// With ?preview=card the response is filtered to featured fields ordered
// by display order.
func (h *ValueHandler) GetValues(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateID(c.Params("videoId"), "videoId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var views []model.VideoFieldView
	var err error
	if fiber.Query[string](c, "preview") == "card" {
		views, err = h.svc.GetCardPreview(c.Context(), videoID)
	} else {
		views, err = h.svc.GetValuesForVideo(c.Context(), videoID)
	}
	if err != nil {
		return respondError(c, err)
	}
	if views == nil {
		views = []model.VideoFieldView{}
	}
	return c.JSON(views)
}
