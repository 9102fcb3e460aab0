package model

import (
	"encoding/json"
	"time"
)

// VideoFieldValue is the recorded value of one field on one video.
// Value holds the canonical JSON encoding of the typed value: a string for
// select/text, an integer for rating, a boolean for boolean. A null Value
// means the field was explicitly cleared.
type VideoFieldValue struct {
	VideoID   string          `json:"videoId"`
	FieldID   string          `json:"fieldId"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// SetValuesRequest is the API request body for the batch value write.
type SetValuesRequest struct {
	Values []SetValueEntry `json:"values"`
}

// SetValueEntry is one field/value pair in a batch write.
type SetValueEntry struct {
	FieldID string          `json:"fieldId"`
	Value   json.RawMessage `json:"value"`
}

// VideoFieldRow is one pre-merge row of the union query: a schema/field
// association reachable through the video's tags, joined with any recorded
// value. Multiple rows may reference the same field when it appears in more
// than one bound schema; the service merges them into VideoFieldView rows.
type VideoFieldRow struct {
	FieldID         string
	FieldName       string
	FieldType       FieldType
	Config          json.RawMessage
	SchemaID        string
	SchemaName      string
	SchemaCreatedAt time.Time
	DisplayOrder    int
	ShowOnCard      bool
	Value           json.RawMessage
	ValueUpdatedAt  *time.Time
}

// VideoFieldView is one entry of the merged per-video field view: the field
// definition, the authoritative schema's name and display attributes, and
// the recorded value (null when unset).
type VideoFieldView struct {
	FieldID      string          `json:"fieldId"`
	Name         string          `json:"name"`
	FieldType    FieldType       `json:"fieldType"`
	Config       json.RawMessage `json:"config"`
	SchemaID     string          `json:"schemaId"`
	SchemaName   string          `json:"schemaName"`
	DisplayOrder int             `json:"displayOrder"`
	ShowOnCard   bool            `json:"showOnCard"`
	Value        json.RawMessage `json:"value"`
	UpdatedAt    *time.Time      `json:"updatedAt,omitempty"`
}
