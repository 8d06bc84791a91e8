package jsonschema

import (
	"errors"
	"fmt"
	"strings"

	jsontool "github.com/useManner/json-tool"
)

// Schema is a typed view over the JSON Schema keywords used for synthetic
// data generation. Unknown keywords are ignored.
type Schema struct {
	// Core
	Type    []string `json:"type,omitempty"`
	Format  string   `json:"format,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Enum    []any    `json:"enum,omitempty"`
	Default any      `json:"default,omitempty"`

	// Number
	Minimum    *float64 `json:"minimum,omitempty"`
	Maximum    *float64 `json:"maximum,omitempty"`
	MultipleOf *float64 `json:"multipleOf,omitempty"`

	// Object
	Properties []Property `json:"properties,omitempty"`
	Required   []string   `json:"required,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`
}

// Property is one entry of "properties", kept in declaration order. A nil
// Schema marks a property whose sub-schema could not be read.
type Property struct {
	Name   string
	Schema *Schema
}

// ErrNotObject is returned when a schema value is not a mapping.
var ErrNotObject = errors.New("jsonschema: schema must be an object")

// PrimaryType resolves the type used for generation: the first non-null entry
// of "type", else "null" when only null is listed. Without "type" it is
// inferred from "properties" (object), "items" (array), or "enum".
func (s *Schema) PrimaryType() string {
	if s == nil {
		return "null"
	}
	for _, t := range s.Type {
		if t != "null" {
			return t
		}
	}
	if len(s.Type) > 0 {
		return "null"
	}
	switch {
	case s.Properties != nil:
		return "object"
	case s.Items != nil:
		return "array"
	case len(s.Enum) > 0:
		return enumType(s.Enum[0])
	}
	return "null"
}

// IsRequired reports whether name is listed in "required".
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

func enumType(v any) string {
	switch t := jsontool.TypeName(v); t {
	case "number":
		if _, ok := v.(int64); ok {
			return "integer"
		}
		return t
	case "unknown":
		return "null"
	default:
		return t
	}
}

// FromValue converts a decoded schema mapping. Malformed nested sub-schemas
// become nil properties or items rather than errors; only a non-mapping root
// fails.
func FromValue(v any) (*Schema, error) {
	m, ok := v.(*jsontool.Map)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, jsontool.TypeName(v))
	}
	return fromMap(m), nil
}

func fromMap(m *jsontool.Map) *Schema {
	s := &Schema{}
	m.Range(func(k string, v any) bool {
		switch k {
		case "type":
			s.Type = stringList(v)
		case "format":
			s.Format, _ = v.(string)
		case "pattern":
			s.Pattern, _ = v.(string)
		case "enum":
			s.Enum, _ = v.([]any)
		case "default":
			s.Default = v
		case "minimum":
			s.Minimum = number(v)
		case "maximum":
			s.Maximum = number(v)
		case "multipleOf":
			if n := number(v); n != nil && *n > 0 {
				s.MultipleOf = n
			}
		case "required":
			s.Required = stringList(v)
		case "minItems":
			s.MinItems = count(v)
		case "maxItems":
			s.MaxItems = count(v)
		case "items":
			s.Items = sub(v)
		case "properties":
			props, ok := v.(*jsontool.Map)
			if !ok {
				return true
			}
			s.Properties = make([]Property, 0, props.Len())
			props.Range(func(name string, pv any) bool {
				s.Properties = append(s.Properties, Property{Name: name, Schema: sub(pv)})
				return true
			})
		}
		return true
	})
	return s
}

func sub(v any) *Schema {
	switch t := v.(type) {
	case *jsontool.Map:
		return fromMap(t)
	case []any:
		// Tuple-style items: the first entry describes every element.
		if len(t) > 0 {
			return sub(t[0])
		}
	}
	return nil
}

func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{strings.TrimSpace(t)}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func number(v any) *float64 {
	f, ok := jsontool.AsNumber(v)
	if !ok {
		return nil
	}
	return &f
}

func count(v any) *int {
	f, ok := jsontool.AsNumber(v)
	if !ok || f < 0 {
		return nil
	}
	n := int(f)
	return &n
}
