package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Rating bounds shared by config validation and value validation.
const (
	MinRating = 1
	MaxRating = 10
)

// FieldConfig is the parsed, type-narrowed configuration of a custom field.
// Each variant validates its own shape and the values recorded against it.
type FieldConfig interface {
	Type() FieldType
	// Validate checks the shape rules of this config variant.
	Validate() error
	// CheckValue validates a raw JSON value against this config. A JSON
	// null is always accepted and means "unset".
	CheckValue(raw json.RawMessage) error
}

// SelectConfig holds the ordered option list of a select field.
type SelectConfig struct {
	Options []string `json:"options"`
}

func (c *SelectConfig) Type() FieldType { return FieldTypeSelect }

func (c *SelectConfig) Validate() error {
	if len(c.Options) == 0 {
		return NewValidation("config.options", "at least one option is required")
	}
	for i, opt := range c.Options {
		if strings.TrimSpace(opt) == "" {
			return NewValidation("config.options", fmt.Sprintf("option %d must not be empty", i))
		}
	}
	return nil
}

func (c *SelectConfig) CheckValue(raw json.RawMessage) error {
	if isJSONNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return NewValidation("value", "select value must be a string")
	}
	for _, opt := range c.Options {
		if opt == s {
			return nil
		}
	}
	return NewValidation("value", fmt.Sprintf("%q is not one of the configured options", s))
}

// RatingConfig holds the upper bound of a rating field.
type RatingConfig struct {
	MaxRating int `json:"max_rating"`
}

func (c *RatingConfig) Type() FieldType { return FieldTypeRating }

func (c *RatingConfig) Validate() error {
	if c.MaxRating < MinRating || c.MaxRating > MaxRating {
		return NewValidation("config.max_rating",
			fmt.Sprintf("max_rating must be between %d and %d", MinRating, MaxRating))
	}
	return nil
}

// CheckValue accepts integers in [0, max_rating]; 0 means "unset".
func (c *RatingConfig) CheckValue(raw json.RawMessage) error {
	if isJSONNull(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return NewValidation("value", "rating value must be an integer")
	}
	if f != math.Trunc(f) {
		return NewValidation("value", "rating value must be an integer")
	}
	n := int(f)
	if n < 0 || n > c.MaxRating {
		return NewValidation("value",
			fmt.Sprintf("rating must be between 0 and %d", c.MaxRating))
	}
	return nil
}

// TextConfig holds the optional length cap of a text field.
type TextConfig struct {
	MaxLength *int `json:"max_length,omitempty"`
}

func (c *TextConfig) Type() FieldType { return FieldTypeText }

func (c *TextConfig) Validate() error {
	if c.MaxLength != nil && *c.MaxLength < 1 {
		return NewValidation("config.max_length", "max_length must be at least 1")
	}
	return nil
}

func (c *TextConfig) CheckValue(raw json.RawMessage) error {
	if isJSONNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return NewValidation("value", "text value must be a string")
	}
	if c.MaxLength != nil && utf8.RuneCountInString(s) > *c.MaxLength {
		return NewValidation("value",
			fmt.Sprintf("text exceeds maximum length of %d", *c.MaxLength))
	}
	return nil
}

// BooleanConfig is empty; boolean fields carry no configuration.
type BooleanConfig struct{}

func (c *BooleanConfig) Type() FieldType { return FieldTypeBoolean }

func (c *BooleanConfig) Validate() error { return nil }

func (c *BooleanConfig) CheckValue(raw json.RawMessage) error {
	if isJSONNull(raw) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return NewValidation("value", "boolean value must be true or false")
	}
	return nil
}

// ParseFieldConfig decodes raw into the config variant for fieldType and
// validates its shape. Unknown keys are rejected so a select config can
// never smuggle a max_rating, and vice versa. An empty or null raw is only
// legal for boolean fields.
func ParseFieldConfig(fieldType FieldType, raw json.RawMessage) (FieldConfig, error) {
	empty := isJSONNull(raw) || string(bytes.TrimSpace(raw)) == "{}"

	var cfg FieldConfig
	switch fieldType {
	case FieldTypeSelect:
		cfg = &SelectConfig{}
	case FieldTypeRating:
		cfg = &RatingConfig{}
	case FieldTypeText:
		cfg = &TextConfig{}
	case FieldTypeBoolean:
		if !empty {
			return nil, NewValidation("config", "boolean fields take no config")
		}
		return &BooleanConfig{}, nil
	default:
		return nil, NewValidation("fieldType", fmt.Sprintf("unknown field type %q", fieldType))
	}

	if isJSONNull(raw) {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, NewValidation("config",
			fmt.Sprintf("config does not match field type %s: %v", fieldType, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EncodeFieldConfig produces the canonical stored encoding of a config.
// Storing the canonical form is what makes create-then-read return the
// config byte for byte.
func EncodeFieldConfig(cfg FieldConfig) json.RawMessage {
	if _, ok := cfg.(*BooleanConfig); ok {
		return json.RawMessage("{}")
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		// All variants are plain structs of marshalable members.
		panic(fmt.Sprintf("encode field config: %v", err))
	}
	return b
}

// CheckValue parses the stored config for fieldType and validates raw
// against it. Used by the value store so writes apply the identical rules
// used at field-creation time.
func CheckValue(fieldType FieldType, config, raw json.RawMessage) error {
	cfg, err := ParseFieldConfig(fieldType, config)
	if err != nil {
		return err
	}
	return cfg.CheckValue(raw)
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
