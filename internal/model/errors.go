package model

import "fmt"

// Conflict error codes returned in the API error envelope.
const (
	CodeDuplicateName  = "DUPLICATE_NAME"
	CodeDuplicateField = "DUPLICATE_FIELD"
	CodeCardLimit      = "CARD_LIMIT"
	CodeFieldInUse     = "FIELD_IN_USE"
)

// NotFoundError indicates a schema, field, video, or association that does
// not exist, or a field/schema pair that spans two different lists.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError for the given resource kind and id.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError indicates a state collision: duplicate field name, duplicate
// (schema, field) association, the show_on_card cap, or deleting a field
// still referenced by a schema.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflict builds a ConflictError with one of the Code* constants.
func NewConflict(code, message string) *ConflictError {
	return &ConflictError{Code: code, Message: message}
}

// ValidationError indicates malformed input: a config that does not match
// the field type, a value outside its allowed range, or a malformed batch
// entry. Always deterministic; the caller must correct the input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation builds a ValidationError scoped to the given input field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
