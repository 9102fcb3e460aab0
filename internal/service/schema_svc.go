package service

import (
	"context"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/repository"
)

// SchemaResponse is a schema with its field associations attached, returned
// by creation and single-schema reads.
type SchemaResponse struct {
	model.FieldSchema
	Fields []model.SchemaField `json:"fields"`
}

type SchemaService struct {
	repo *repository.SchemaRepo
}

func NewSchemaService(repo *repository.SchemaRepo) *SchemaService {
	return &SchemaService{repo: repo}
}

// Create makes a new schema, processing any initial fields through the same
// rules as AddField. All-or-nothing: one bad initial field fails the whole
// creation.
func (s *SchemaService) Create(ctx context.Context, listID string, req model.CreateSchemaRequest) (*SchemaResponse, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	req.Name = name

	schema, fields, err := s.repo.CreateSchema(ctx, listID, req)
	if err != nil {
		return nil, err
	}
	return &SchemaResponse{FieldSchema: *schema, Fields: fields}, nil
}

// Get returns a schema with its ordered field associations.
func (s *SchemaService) Get(ctx context.Context, schemaID string) (*SchemaResponse, error) {
	schema, err := s.repo.GetSchema(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	fields, err := s.repo.ListFields(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	return &SchemaResponse{FieldSchema: *schema, Fields: fields}, nil
}

// List returns all schemas of a list.
func (s *SchemaService) List(ctx context.Context, listID string) ([]model.FieldSchema, error) {
	return s.repo.ListByList(ctx, listID)
}

// Update renames a schema or changes its description.
func (s *SchemaService) Update(ctx context.Context, schemaID string, req model.UpdateSchemaRequest) (*model.FieldSchema, error) {
	if req.Name != nil {
		name, err := validateName(*req.Name)
		if err != nil {
			return nil, err
		}
		req.Name = &name
	}
	return s.repo.UpdateSchema(ctx, schemaID, req)
}

// Delete removes a schema and its associations; referenced fields and their
// recorded values are never touched.
func (s *SchemaService) Delete(ctx context.Context, schemaID string) error {
	return s.repo.DeleteSchema(ctx, schemaID)
}

// AddField associates a field with a schema.
func (s *SchemaService) AddField(ctx context.Context, schemaID string, req model.AddSchemaFieldRequest) (*model.SchemaField, error) {
	return s.repo.AddField(ctx, schemaID, req)
}

// UpdateField mutates an association's display order or featured flag.
func (s *SchemaService) UpdateField(ctx context.Context, schemaID, fieldID string, req model.UpdateSchemaFieldRequest) (*model.SchemaField, error) {
	return s.repo.UpdateField(ctx, schemaID, fieldID, req)
}

// RemoveField deletes the association row only.
func (s *SchemaService) RemoveField(ctx context.Context, schemaID, fieldID string) error {
	return s.repo.RemoveField(ctx, schemaID, fieldID)
}

// ListFields returns the schema's associations ascending by display order.
func (s *SchemaService) ListFields(ctx context.Context, schemaID string) ([]model.SchemaField, error) {
	return s.repo.ListFields(ctx, schemaID)
}
