package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
)

func row(fieldID, schemaID, schemaName string, schemaAge time.Duration, order int, featured bool, value string) model.VideoFieldRow {
	r := model.VideoFieldRow{
		FieldID:         fieldID,
		FieldName:       "field-" + fieldID,
		FieldType:       model.FieldTypeText,
		Config:          json.RawMessage(`{}`),
		SchemaID:        schemaID,
		SchemaName:      schemaName,
		SchemaCreatedAt: time.Unix(0, 0).Add(schemaAge),
		DisplayOrder:    order,
		ShowOnCard:      featured,
	}
	if value != "" {
		r.Value = json.RawMessage(value)
		now := time.Now()
		r.ValueUpdatedAt = &now
	}
	return r
}

func TestMergeFieldRows_DeduplicatesByField(t *testing.T) {
	// Rows arrive ordered by schema creation, as the repository query
	// guarantees. Field f1 appears in both schemas.
	rows := []model.VideoFieldRow{
		row("f1", "s1", "Eval", 0, 0, true, `"stored"`),
		row("f2", "s1", "Eval", 0, 1, false, ""),
		row("f1", "s2", "Extra", time.Hour, 5, false, `"stored"`),
		row("f3", "s2", "Extra", time.Hour, 0, true, ""),
	}

	views := mergeFieldRows(rows)

	if len(views) != 3 {
		t.Fatalf("got %d views, want 3", len(views))
	}

	// The earliest-created schema's row wins for the duplicated field.
	f1 := views[0]
	if f1.FieldID != "f1" || f1.SchemaName != "Eval" || !f1.ShowOnCard || f1.DisplayOrder != 0 {
		t.Errorf("f1 view = %+v, want Eval/featured/order 0", f1)
	}
}

func TestMergeFieldRows_UnsetValueIsNull(t *testing.T) {
	views := mergeFieldRows([]model.VideoFieldRow{
		row("f1", "s1", "Eval", 0, 0, false, ""),
	})

	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}
	if string(views[0].Value) != "null" {
		t.Errorf("unset value = %s, want null", views[0].Value)
	}
	if views[0].UpdatedAt != nil {
		t.Error("unset value should have no timestamp")
	}
}

func TestMergeFieldRows_Empty(t *testing.T) {
	views := mergeFieldRows(nil)
	if len(views) != 0 {
		t.Errorf("got %d views, want 0", len(views))
	}
}

func TestCardPreview_FiltersAndOrders(t *testing.T) {
	views := mergeFieldRows([]model.VideoFieldRow{
		row("f1", "s1", "Eval", 0, 2, true, ""),
		row("f2", "s1", "Eval", 0, 0, false, ""),
		row("f3", "s2", "Extra", time.Hour, 1, true, ""),
		row("f4", "s2", "Extra", time.Hour, 3, true, ""),
	})

	preview := cardPreview(views)

	if len(preview) != 3 {
		t.Fatalf("got %d preview fields, want 3", len(preview))
	}
	want := []string{"f3", "f1", "f4"} // display orders 1, 2, 3
	for i, v := range preview {
		if v.FieldID != want[i] {
			t.Errorf("preview[%d] = %s, want %s", i, v.FieldID, want[i])
		}
		if !v.ShowOnCard {
			t.Errorf("preview[%d] is not featured", i)
		}
	}
}

// The per-schema cap does not bound the unioned preview: two schemas can
// contribute up to three featured fields each.
func TestCardPreview_NoGlobalCap(t *testing.T) {
	var rows []model.VideoFieldRow
	for i := 0; i < 3; i++ {
		rows = append(rows, row(string(rune('a'+i)), "s1", "One", 0, i, true, ""))
	}
	for i := 0; i < 3; i++ {
		rows = append(rows, row(string(rune('x'+i)), "s2", "Two", time.Hour, i, true, ""))
	}

	preview := cardPreview(mergeFieldRows(rows))
	if len(preview) != 6 {
		t.Errorf("got %d preview fields, want 6", len(preview))
	}
}
