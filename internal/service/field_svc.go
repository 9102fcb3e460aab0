package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/repository"
)

// Name length bounds for fields and schemas.
const (
	MinNameLen = 1
	MaxNameLen = 255
)

type FieldService struct {
	repo  *repository.FieldRepo
	cache *CacheService
}

func NewFieldService(repo *repository.FieldRepo, cache *CacheService) *FieldService {
	return &FieldService{repo: repo, cache: cache}
}

// validateName trims and checks a field or schema name against the 1–255
// character bounds.
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinNameLen {
		return "", model.NewValidation("name", "name is required")
	}
	if n > MaxNameLen {
		return "", model.NewValidation("name",
			fmt.Sprintf("name must be at most %d characters", MaxNameLen))
	}
	return name, nil
}

// Create validates the name and the type-specific config, then persists the
// field with the config in canonical encoding.
func (s *FieldService) Create(ctx context.Context, listID string, req model.CreateFieldRequest) (*model.CustomField, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	if !req.FieldType.Valid() {
		return nil, model.NewValidation("fieldType",
			fmt.Sprintf("unknown field type %q", req.FieldType))
	}

	cfg, err := model.ParseFieldConfig(req.FieldType, req.Config)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, listID, name, req.FieldType, model.EncodeFieldConfig(cfg))
}

// Update applies a partial update. Config-vs-type revalidation against the
// post-update type happens inside the repository transaction, where the
// current row is visible.
func (s *FieldService) Update(ctx context.Context, fieldID string, req model.UpdateFieldRequest) (*model.CustomField, error) {
	if req.Name != nil {
		name, err := validateName(*req.Name)
		if err != nil {
			return nil, err
		}
		req.Name = &name
	}
	if req.FieldType != nil && !req.FieldType.Valid() {
		return nil, model.NewValidation("fieldType",
			fmt.Sprintf("unknown field type %q", *req.FieldType))
	}

	return s.repo.Update(ctx, fieldID, req)
}

// Delete removes a field and its recorded values, then drops the cached
// field view of every video that carried one.
func (s *FieldService) Delete(ctx context.Context, fieldID string) error {
	videoIDs, err := s.repo.Delete(ctx, fieldID)
	if err != nil {
		return err
	}

	for _, videoID := range videoIDs {
		if err := s.cache.InvalidateVideoFields(ctx, videoID); err != nil {
			log.Printf("cache: invalidate video fields error: %v", err)
		}
	}
	return nil
}

// CheckDuplicate is the interactive case-insensitive name probe.
func (s *FieldService) CheckDuplicate(ctx context.Context, listID, name string) (*model.CheckDuplicateResponse, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	field, err := s.repo.CheckDuplicate(ctx, listID, name)
	if err != nil {
		return nil, err
	}
	return &model.CheckDuplicateResponse{
		Exists: field != nil,
		Field:  field,
	}, nil
}

// List returns all fields of a list.
func (s *FieldService) List(ctx context.Context, listID string) ([]model.CustomField, error) {
	return s.repo.ListByList(ctx, listID)
}

// Stats returns per-list aggregate counts.
func (s *FieldService) Stats(ctx context.Context, listID string) (*model.ListStats, error) {
	return s.repo.GetListStats(ctx, listID)
}
