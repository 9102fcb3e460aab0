package model

import "time"

// Cap on featured fields per schema.
const MaxShowOnCard = 3

// FieldSchema is a named, reusable bundle of fields scoped to a list.
type FieldSchema struct {
	ID          string    `json:"id"`
	ListID      string    `json:"listId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SchemaField is the association between a schema and a field, keyed by
// the (SchemaID, FieldID) pair. It carries the ordering position and the
// featured flag; Field is the nested definition attached on reads.
type SchemaField struct {
	SchemaID     string       `json:"schemaId"`
	FieldID      string       `json:"fieldId"`
	DisplayOrder int          `json:"displayOrder"`
	ShowOnCard   bool         `json:"showOnCard"`
	Field        *CustomField `json:"field,omitempty"`
}

// CreateSchemaRequest is the API request body for creating a schema,
// optionally with an initial set of field associations. The whole request
// is atomic: one bad initial field fails the entire creation.
type CreateSchemaRequest struct {
	Name          string                  `json:"name"`
	Description   *string                 `json:"description,omitempty"`
	InitialFields []AddSchemaFieldRequest `json:"initialFields,omitempty"`
}

// UpdateSchemaRequest is the API request body for renaming a schema or
// changing its description. Nil members are left unchanged; an empty
// description string clears the stored description.
type UpdateSchemaRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AddSchemaFieldRequest is the API request body for adding a field to a
// schema. A nil DisplayOrder means "append after the current maximum".
type AddSchemaFieldRequest struct {
	FieldID      string `json:"fieldId"`
	DisplayOrder *int   `json:"displayOrder,omitempty"`
	ShowOnCard   bool   `json:"showOnCard,omitempty"`
}

// UpdateSchemaFieldRequest is the API request body for mutating an
// association's payload. Nil members are left unchanged.
type UpdateSchemaFieldRequest struct {
	DisplayOrder *int  `json:"displayOrder,omitempty"`
	ShowOnCard   *bool `json:"showOnCard,omitempty"`
}
