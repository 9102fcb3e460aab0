package repository

import (
	"testing"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/model"
)

func strPtr(s string) *string { return &s }

func TestCardLimitExclude(t *testing.T) {
	// The featured count compares field_id, a uuid column, against the
	// parameter. "No exclusion" must reach the server as NULL; an empty
	// string fails uuid parsing there and aborts the whole add.
	if got := cardLimitExclude(""); got != nil {
		t.Fatalf("empty exclusion = %q, want nil", *got)
	}

	id := "5f2c1b4e-9d1a-4e7b-8c3d-2a6f0e9b1c7d"
	got := cardLimitExclude(id)
	if got == nil || *got != id {
		t.Fatalf("exclusion of %s = %v, want pointer to it", id, got)
	}
}

func TestMergeSchemaUpdate(t *testing.T) {
	base := func() *model.FieldSchema {
		return &model.FieldSchema{
			Name:        "Tutorials",
			Description: strPtr("learning queue"),
		}
	}

	tests := []struct {
		name     string
		req      model.UpdateSchemaRequest
		wantName string
		wantDesc *string
	}{
		{
			name:     "empty request keeps everything",
			req:      model.UpdateSchemaRequest{},
			wantName: "Tutorials",
			wantDesc: strPtr("learning queue"),
		},
		{
			name:     "rename keeps description",
			req:      model.UpdateSchemaRequest{Name: strPtr("Courses")},
			wantName: "Courses",
			wantDesc: strPtr("learning queue"),
		},
		{
			name:     "new description keeps name",
			req:      model.UpdateSchemaRequest{Description: strPtr("watch later")},
			wantName: "Tutorials",
			wantDesc: strPtr("watch later"),
		},
		{
			name:     "empty description clears it",
			req:      model.UpdateSchemaRequest{Description: strPtr("")},
			wantName: "Tutorials",
			wantDesc: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, desc := mergeSchemaUpdate(base(), tt.req)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			switch {
			case tt.wantDesc == nil && desc != nil:
				t.Errorf("description = %q, want nil", *desc)
			case tt.wantDesc != nil && desc == nil:
				t.Errorf("description = nil, want %q", *tt.wantDesc)
			case tt.wantDesc != nil && desc != nil && *desc != *tt.wantDesc:
				t.Errorf("description = %q, want %q", *desc, *tt.wantDesc)
			}
		})
	}
}
