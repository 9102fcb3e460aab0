package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestParseFieldConfig_ValidShapes(t *testing.T) {
	tests := []struct {
		name      string
		fieldType FieldType
		config    string
	}{
		{"select single option", FieldTypeSelect, `{"options":["good"]}`},
		{"select many options", FieldTypeSelect, `{"options":["bad","good","great"]}`},
		{"rating min", FieldTypeRating, `{"max_rating":1}`},
		{"rating max", FieldTypeRating, `{"max_rating":10}`},
		{"text no limit", FieldTypeText, `{}`},
		{"text with limit", FieldTypeText, `{"max_length":500}`},
		{"boolean empty object", FieldTypeBoolean, `{}`},
		{"boolean null", FieldTypeBoolean, `null`},
		{"boolean absent", FieldTypeBoolean, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseFieldConfig(tt.fieldType, json.RawMessage(tt.config))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Type() != tt.fieldType {
				t.Errorf("type = %s, want %s", cfg.Type(), tt.fieldType)
			}
		})
	}
}

func TestParseFieldConfig_InvalidShapes(t *testing.T) {
	tests := []struct {
		name      string
		fieldType FieldType
		config    string
	}{
		{"select no options", FieldTypeSelect, `{"options":[]}`},
		{"select missing options", FieldTypeSelect, `{}`},
		{"select empty option", FieldTypeSelect, `{"options":["good",""]}`},
		{"select blank option", FieldTypeSelect, `{"options":["  "]}`},
		{"select foreign key", FieldTypeSelect, `{"options":["a"],"max_rating":5}`},
		{"rating zero", FieldTypeRating, `{"max_rating":0}`},
		{"rating eleven", FieldTypeRating, `{"max_rating":11}`},
		{"rating negative", FieldTypeRating, `{"max_rating":-1}`},
		{"rating missing", FieldTypeRating, `{}`},
		{"rating wrong type", FieldTypeRating, `{"max_rating":"five"}`},
		{"text zero limit", FieldTypeText, `{"max_length":0}`},
		{"text negative limit", FieldTypeText, `{"max_length":-5}`},
		{"boolean with keys", FieldTypeBoolean, `{"anything":true}`},
		{"unknown type", FieldType("date"), `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFieldConfig(tt.fieldType, json.RawMessage(tt.config))
			if err == nil {
				t.Fatal("expected validation error, got none")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("error is %T, want *ValidationError", err)
			}
		})
	}
}

// Encoding then re-parsing then re-encoding must be byte-stable: the stored
// canonical config is what every read returns.
func TestEncodeFieldConfig_Canonical(t *testing.T) {
	tests := []struct {
		name      string
		fieldType FieldType
		config    string
		want      string
	}{
		{"select", FieldTypeSelect, `{"options":["bad","good","great"]}`, `{"options":["bad","good","great"]}`},
		{"rating", FieldTypeRating, `{"max_rating":5}`, `{"max_rating":5}`},
		{"text with limit", FieldTypeText, `{"max_length":100}`, `{"max_length":100}`},
		{"text without limit", FieldTypeText, `{}`, `{}`},
		{"boolean", FieldTypeBoolean, ``, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseFieldConfig(tt.fieldType, json.RawMessage(tt.config))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			encoded := EncodeFieldConfig(cfg)
			if string(encoded) != tt.want {
				t.Errorf("encoded = %s, want %s", encoded, tt.want)
			}

			reparsed, err := ParseFieldConfig(tt.fieldType, encoded)
			if err != nil {
				t.Fatalf("reparse: %v", err)
			}
			if !bytes.Equal(EncodeFieldConfig(reparsed), encoded) {
				t.Error("re-encoding is not byte-identical")
			}
		})
	}
}

func TestCheckValue_Select(t *testing.T) {
	config := json.RawMessage(`{"options":["bad","good","great"]}`)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"member", `"good"`, false},
		{"non-member", `"excellent"`, true},
		{"case sensitive", `"Good"`, true},
		{"wrong type", `3`, true},
		{"null clears", `null`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckValue(FieldTypeSelect, config, json.RawMessage(tt.value))
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckValue_Rating(t *testing.T) {
	config := json.RawMessage(`{"max_rating":5}`)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"zero means unset", `0`, false},
		{"min", `1`, false},
		{"max", `5`, false},
		{"above max", `6`, true},
		{"negative", `-1`, true},
		{"fractional", `3.5`, true},
		{"string", `"3"`, true},
		{"null clears", `null`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckValue(FieldTypeRating, config, json.RawMessage(tt.value))
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckValue_Text(t *testing.T) {
	limited := json.RawMessage(`{"max_length":5}`)
	unlimited := json.RawMessage(`{}`)

	if err := CheckValue(FieldTypeText, limited, json.RawMessage(`"short"`)); err != nil {
		t.Errorf("5 chars within limit 5: %v", err)
	}
	if err := CheckValue(FieldTypeText, limited, json.RawMessage(`"toolong"`)); err == nil {
		t.Error("7 chars over limit 5 should fail")
	}
	// Limit counts characters, not bytes.
	if err := CheckValue(FieldTypeText, limited, json.RawMessage(`"ééééé"`)); err != nil {
		t.Errorf("5 multibyte chars within limit 5: %v", err)
	}
	if err := CheckValue(FieldTypeText, unlimited, json.RawMessage(`"any length at all is fine here"`)); err != nil {
		t.Errorf("unlimited text: %v", err)
	}
	if err := CheckValue(FieldTypeText, unlimited, json.RawMessage(`42`)); err == nil {
		t.Error("number should fail for text field")
	}
}

func TestCheckValue_Boolean(t *testing.T) {
	config := json.RawMessage(`{}`)

	for _, v := range []string{`true`, `false`, `null`} {
		if err := CheckValue(FieldTypeBoolean, config, json.RawMessage(v)); err != nil {
			t.Errorf("%s: %v", v, err)
		}
	}
	for _, v := range []string{`"true"`, `1`, `{}`} {
		if err := CheckValue(FieldTypeBoolean, config, json.RawMessage(v)); err == nil {
			t.Errorf("%s should fail for boolean field", v)
		}
	}
}
