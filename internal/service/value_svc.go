package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/repository"
)

type ValueService struct {
	repo  *repository.ValueRepo
	cache *CacheService
}

func NewValueService(repo *repository.ValueRepo, cache *CacheService) *ValueService {
	return &ValueService{repo: repo, cache: cache}
}

// SetValues records a batch of values for a video. Validation of the whole
// batch happens before any write; the first failure aborts everything.
func (s *ValueService) SetValues(ctx context.Context, videoID string, req model.SetValuesRequest) error {
	if len(req.Values) == 0 {
		return model.NewValidation("values", "at least one value entry is required")
	}

	if err := s.repo.SetValues(ctx, videoID, req.Values); err != nil {
		return err
	}

	if err := s.cache.InvalidateVideoFields(ctx, videoID); err != nil {
		log.Printf("cache: invalidate video fields error: %v", err)
	}
	return nil
}

// GetValuesForVideo computes the merged field view for a video: every field
// reachable through the schemas bound to the video's tags, de-duplicated,
// joined with recorded values. Fields with no recorded value are included
// with a null value.
func (s *ValueService) GetValuesForVideo(ctx context.Context, videoID string) ([]model.VideoFieldView, error) {
	if cached, err := s.cache.GetVideoFields(ctx, videoID); err == nil && cached != nil {
		var views []model.VideoFieldView
		if err := json.Unmarshal(cached, &views); err == nil {
			return views, nil
		}
	}

	rows, err := s.repo.GetRowsForVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	views := mergeFieldRows(rows)

	if err := s.cache.SetVideoFields(ctx, videoID, views); err != nil {
		log.Printf("cache: set video fields error: %v", err)
	}
	return views, nil
}

// GetCardPreview returns the featured subset of the merged view, ordered by
// display order. The cap applies per schema, not to the unioned preview.
func (s *ValueService) GetCardPreview(ctx context.Context, videoID string) ([]model.VideoFieldView, error) {
	views, err := s.GetValuesForVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return cardPreview(views), nil
}

// mergeFieldRows de-duplicates union rows by field id. Rows arrive ordered
// by (schema created_at, schema id, display_order); when a field appears in
// more than one bound schema, the first row -- the earliest-created
// schema's -- is authoritative for the schema name, display order, and
// show_on_card flag.
func mergeFieldRows(rows []model.VideoFieldRow) []model.VideoFieldView {
	views := make([]model.VideoFieldView, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		if seen[row.FieldID] {
			continue
		}
		seen[row.FieldID] = true

		value := row.Value
		if len(value) == 0 {
			value = json.RawMessage("null")
		}

		views = append(views, model.VideoFieldView{
			FieldID:      row.FieldID,
			Name:         row.FieldName,
			FieldType:    row.FieldType,
			Config:       row.Config,
			SchemaID:     row.SchemaID,
			SchemaName:   row.SchemaName,
			DisplayOrder: row.DisplayOrder,
			ShowOnCard:   row.ShowOnCard,
			Value:        value,
			UpdatedAt:    row.ValueUpdatedAt,
		})
	}
	return views
}

// cardPreview filters a merged view down to featured fields, sorted by
// display order.
func cardPreview(views []model.VideoFieldView) []model.VideoFieldView {
	preview := make([]model.VideoFieldView, 0, len(views))
	for _, v := range views {
		if v.ShowOnCard {
			preview = append(preview, v)
		}
	}
	sort.SliceStable(preview, func(i, j int) bool {
		return preview[i].DisplayOrder < preview[j].DisplayOrder
	})
	return preview
}
