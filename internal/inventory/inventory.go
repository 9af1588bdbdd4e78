// Package inventory models lshw hardware inventory documents.
//
// A document is an arbitrary JSON tree: objects, arrays and scalars. The package
// provides the runtime type tagging used by the normalizer, validator and
// analyzer to dispatch structurally over the tree, and the shape check for
// DCI-wrapped lshw reports.
package inventory

import (
	"encoding/json"
	"fmt"
)

// Type is the runtime type tag of a document node.
type Type int

const (
	// Null is the type of JSON null.
	Null Type = iota
	// Number is the type of JSON numbers, integer or floating point.
	Number
	// String is the type of JSON strings.
	String
	// Bool is the type of JSON booleans.
	Bool
	// Object is the type of JSON objects.
	Object
	// Array is the type of JSON arrays.
	Array
)

func (t Type) String() string {
	s, ok := map[Type]string{
		Null:   "null",
		Number: "number",
		String: "string",
		Bool:   "boolean",
		Object: "object",
		Array:  "array",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

// MarshalText implements encoding.TextMarshaler so tags serialize in reports.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"null":    Null,
		"number":  Number,
		"string":  String,
		"boolean": Bool,
		"object":  Object,
		"array":   Array,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

// TypeOf returns the type tag of a decoded JSON value.
//
// Documents are expected to have been decoded with json.Decoder.UseNumber, but
// plain float64 values produced by encoding/json are tagged as numbers too.
func TypeOf(v any) Type {
	switch v.(type) {
	case nil:
		return Null
	case bool:
		return Bool
	case string:
		return String
	case json.Number, float64, int, int64:
		return Number
	case []any:
		return Array
	case map[string]any:
		return Object
	default:
		return Null
	}
}

// IsReport reports whether doc is a DCI-wrapped lshw document:
// {"hardware": {"node": ..., "data": {...}}} where the lshw data carries
// "id" and "class" fields.
func IsReport(doc any) bool {
	root, ok := doc.(map[string]any)
	if !ok {
		return false
	}

	hardware, ok := root["hardware"].(map[string]any)
	if !ok {
		return false
	}

	data, ok := hardware["data"].(map[string]any)
	if !ok {
		return false
	}

	_, hasID := data["id"]
	_, hasClass := data["class"]
	return hasID && hasClass
}

// ChildPath extends a dot notation field path with a key.
func ChildPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// IndexPath extends a field path with an array index.
func IndexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
