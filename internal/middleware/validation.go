package middleware

import (
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Field length limits matching database schema constraints.
const (
	MaxNameLen        = 255 // custom_fields.name / field_schemas.name VARCHAR(255)
	MaxDescriptionLen = 2000
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateID checks that an identifier path segment is a well-formed UUID.
// label names the parameter in the error message (e.g. "listId").
func ValidateID(id, label string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", label + " is required"
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", label + " must be a valid UUID"
	}
	return parsed.String(), ""
}

// ValidateName trims and checks a field or schema name against the
// database's length bound. Emptiness after trimming is rejected.
func ValidateName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "name is required"
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", "name must be at most 255 characters"
	}
	return name, ""
}

// ValidateDescription trims and truncates an optional description.
func ValidateDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		runes := []rune(desc)
		desc = string(runes[:MaxDescriptionLen])
	}
	return desc
}
