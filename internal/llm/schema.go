package llm

import (
	"fmt"
	"reflect"
	"strings"
)

// Schema is the subset of JSON Schema needed to describe tool inputs and
// structured responses.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
	Description string             `json:"description,omitempty"`
}

// FromStruct generates a JSON Schema from a Go value's type. Field names come
// from json tags, descriptions from `description` tags, and required fields
// from `validate:"required"`.
func FromStruct(v any) (*Schema, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("cannot derive schema from nil")
	}
	return fromType(t), nil
}

func fromType(t reflect.Type) *Schema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	schema := &Schema{}
	switch t.Kind() {
	case reflect.String:
		schema.Type = "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		schema.Type = "integer"
	case reflect.Float32, reflect.Float64:
		schema.Type = "number"
	case reflect.Bool:
		schema.Type = "boolean"
	case reflect.Slice, reflect.Array:
		schema.Type = "array"
		schema.Items = fromType(t.Elem())
	case reflect.Map:
		schema.Type = "object"
	case reflect.Struct:
		schema.Type = "object"
		schema.Properties = make(map[string]*Schema)
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			name := field.Name
			if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
				if idx := strings.Index(tag, ","); idx >= 0 {
					tag = tag[:idx]
				}
				if tag != "" {
					name = tag
				}
			}

			prop := fromType(field.Type)
			if desc := field.Tag.Get("description"); desc != "" {
				prop.Description = desc
			}
			schema.Properties[name] = prop

			if strings.Contains(field.Tag.Get("validate"), "required") {
				schema.Required = append(schema.Required, name)
			}
		}
	}
	return schema
}

// ExtractJSON returns the first balanced top-level JSON object in text, or
// the empty string when none exists. String contents and escapes are honored
// when matching braces.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escape := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if escape {
			escape = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escape = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}
