package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/middleware"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/service"
)

type SchemaHandler struct {
	svc *service.SchemaService
}

func NewSchemaHandler(svc *service.SchemaService) *SchemaHandler {
	return &SchemaHandler{svc: svc}
}

// Create handles POST /api/lists/:listId/schemas
func (h *SchemaHandler) Create(c fiber.Ctx) error {
	listID, errMsg := middleware.ValidateID(c.Params("listId"), "listId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.CreateSchemaRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Description != nil {
		desc := middleware.ValidateDescription(*req.Description)
		req.Description = &desc
	}

	schema, err := h.svc.Create(c.Context(), listID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(schema)
}

// List handles GET /api/lists/:listId/schemas
func (h *SchemaHandler) List(c fiber.Ctx) error {
	listID, errMsg := middleware.ValidateID(c.Params("listId"), "listId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	schemas, err := h.svc.List(c.Context(), listID)
	if err != nil {
		return respondError(c, err)
	}
	if schemas == nil {
		schemas = []model.FieldSchema{}
	}
	return c.JSON(schemas)
}

// Get handles GET /api/lists/:listId/schemas/:schemaId
func (h *SchemaHandler) Get(c fiber.Ctx) error {
	schemaID, errMsg := middleware.ValidateID(c.Params("schemaId"), "schemaId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	schema, err := h.svc.Get(c.Context(), schemaID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(schema)
}

// Update handles PUT /api/lists/:listId/schemas/:schemaId
func (h *SchemaHandler) Update(c fiber.Ctx) error {
	schemaID, errMsg := middleware.ValidateID(c.Params("schemaId"), "schemaId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.UpdateSchemaRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Description != nil {
		desc := middleware.ValidateDescription(*req.Description)
		req.Description = &desc
	}

	schema, err := h.svc.Update(c.Context(), schemaID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(schema)
}

// Delete handles DELETE /api/lists/:listId/schemas/:schemaId
func (h *SchemaHandler) Delete(c fiber.Ctx) error {
	schemaID, errMsg := middleware.ValidateID(c.Params("schemaId"), "schemaId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Delete(c.Context(), schemaID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListFields handles GET /api/lists/:listId/schemas/:schemaId/fields
func (h *SchemaHandler) ListFields(c fiber.Ctx) error {
	schemaID, errMsg := middleware.ValidateID(c.Params("schemaId"), "schemaId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	fields, err := h.svc.ListFields(c.Context(), schemaID)
	if err != nil {
		return respondError(c, err)
	}
	if fields == nil {
		fields = []model.SchemaField{}
	}
	return c.JSON(fields)
}

// AddField handles POST /api/lists/:listId/schemas/:schemaId/fields
func (h *SchemaHandler) AddField(c fiber.Ctx) error {
	schemaID, errMsg := middleware.ValidateID(c.Params("schemaId"), "schemaId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.AddSchemaFieldRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if _, errMsg := middleware.ValidateID(req.FieldID, "fieldId"); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	sf, err := h.svc.AddField(c.Context(), schemaID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sf)
}

// UpdateField handles PUT /api/lists/:listId/schemas/:schemaId/fields/:fieldId
func (h *SchemaHandler) UpdateField(c fiber.Ctx) error {
	schemaID, errMsg := middleware.ValidateID(c.Params("schemaId"), "schemaId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	fieldID, errMsg := middleware.ValidateID(c.Params("fieldId"), "fieldId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.UpdateSchemaFieldRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	sf, err := h.svc.UpdateField(c.Context(), schemaID, fieldID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sf)
}

// RemoveField handles DELETE /api/lists/:listId/schemas/:schemaId/fields/:fieldId
func (h *SchemaHandler) RemoveField(c fiber.Ctx) error {
	schemaID, errMsg := middleware.ValidateID(c.Params("schemaId"), "schemaId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	fieldID, errMsg := middleware.ValidateID(c.Params("fieldId"), "fieldId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.RemoveField(c.Context(), schemaID, fieldID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
