package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/middleware"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/service"
)

type FieldHandler struct {
	svc *service.FieldService
}

func NewFieldHandler(svc *service.FieldService) *FieldHandler {
	return &FieldHandler{svc: svc}
}

// Create handles POST /api/lists/:listId/custom-fields
func (h *FieldHandler) Create(c fiber.Ctx) error {
	listID, errMsg := middleware.ValidateID(c.Params("listId"), "listId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.CreateFieldRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	field, err := h.svc.Create(c.Context(), listID, req)
	if err != nil {
		return respondError(c, err)
	}

	Metrics.FieldsCreated.WithLabelValues(string(field.FieldType)).Inc()

	return c.Status(fiber.StatusCreated).JSON(field)
}

// List handles GET /api/lists/:listId/custom-fields
func (h *FieldHandler) List(c fiber.Ctx) error {
	listID, errMsg := middleware.ValidateID(c.Params("listId"), "listId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	fields, err := h.svc.List(c.Context(), listID)
	if err != nil {
		return respondError(c, err)
	}
	if fields == nil {
		fields = []model.CustomField{}
	}
	return c.JSON(fields)
}

// Update handles PUT /api/custom-fields/:fieldId
func (h *FieldHandler) Update(c fiber.Ctx) error {
	fieldID, errMsg := middleware.ValidateID(c.Params("fieldId"), "fieldId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.UpdateFieldRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	field, err := h.svc.Update(c.Context(), fieldID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(field)
}

// Delete handles DELETE /api/custom-fields/:fieldId
func (h *FieldHandler) Delete(c fiber.Ctx) error {
	fieldID, errMsg := middleware.ValidateID(c.Params("fieldId"), "fieldId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Delete(c.Context(), fieldID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckDuplicate handles POST /api/lists/:listId/custom-fields/check-duplicate
func (h *FieldHandler) CheckDuplicate(c fiber.Ctx) error {
	listID, errMsg := middleware.ValidateID(c.Params("listId"), "listId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.CheckDuplicateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	name, errMsg := middleware.ValidateName(req.Name)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.CheckDuplicate(c.Context(), listID, name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
