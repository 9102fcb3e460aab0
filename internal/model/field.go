package model

import (
	"encoding/json"
	"time"
)

// FieldType discriminates the config shape and value type of a custom field.
type FieldType string

const (
	FieldTypeSelect  FieldType = "select"
	FieldTypeRating  FieldType = "rating"
	FieldTypeText    FieldType = "text"
	FieldTypeBoolean FieldType = "boolean"
)

// Valid reports whether t is one of the four supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRating, FieldTypeText, FieldTypeBoolean:
		return true
	}
	return false
}

// CustomField is a reusable, typed metadata slot scoped to a list.
// Config always matches the shape required by FieldType and is stored in
// the canonical encoding produced by EncodeFieldConfig.
type CustomField struct {
	ID        string          `json:"id"`
	ListID    string          `json:"listId"`
	Name      string          `json:"name"`
	FieldType FieldType       `json:"fieldType"`
	Config    json.RawMessage `json:"config"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CreateFieldRequest is the API request body for creating a custom field.
type CreateFieldRequest struct {
	Name      string          `json:"name"`
	FieldType FieldType       `json:"fieldType"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// UpdateFieldRequest is the API request body for a partial field update.
// Nil members are left unchanged.
type UpdateFieldRequest struct {
	Name      *string         `json:"name,omitempty"`
	FieldType *FieldType      `json:"fieldType,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// CheckDuplicateRequest is the API request body for the interactive
// duplicate-name probe.
type CheckDuplicateRequest struct {
	Name string `json:"name"`
}

// CheckDuplicateResponse reports whether a name is already taken in the list
// and, if so, which field holds it.
type CheckDuplicateResponse struct {
	Exists bool         `json:"exists"`
	Field  *CustomField `json:"field,omitempty"`
}

// ListStats aggregates per-list counts for the stats endpoint.
type ListStats struct {
	ListID         string            `json:"listId"`
	TotalFields    int               `json:"totalFields"`
	FieldsByType   map[FieldType]int `json:"fieldsByType"`
	TotalSchemas   int               `json:"totalSchemas"`
	RecordedValues int               `json:"recordedValues"`
}
