// Package schema is the single source of truth for the expected type of lshw fields.
//
// One immutable Table is built per run and shared by the normalizer, validator
// and analyzer so the three tools can never disagree on a field's expected type.
package schema

import (
	"fmt"
)

// Class is the expected semantic type of a classified field.
type Class int

const (
	// Unclassified marks fields absent from the table. They are passed through
	// by the normalizer and only subject to coverage warnings by the validator.
	Unclassified Class = iota
	// Numeric fields hold integers or floats.
	Numeric
	// Boolean fields hold booleans.
	Boolean
	// StringKeep fields stay strings even when their value looks numeric.
	StringKeep
	// ArrayOfString fields always hold an array, wrapping lone scalars.
	ArrayOfString
)

func (c Class) String() string {
	switch c {
	case Numeric:
		return "numeric"
	case Boolean:
		return "boolean"
	case StringKeep:
		return "string"
	case ArrayOfString:
		return "array"
	default:
		return "unclassified"
	}
}

// CapabilitiesField is the object whose values, whatever their key, get the
// descriptive boolean heuristic.
const CapabilitiesField = "capabilities"

// Table maps field names to their expected class.
// Field names are matched exactly and case-sensitively, with no path scoping.
type Table struct {
	classes map[string]Class
	known   map[string]struct{}
}

// Default returns the built-in classification table.
func Default() Table {
	t := Table{
		classes: make(map[string]Class),
		known:   make(map[string]struct{}),
	}

	numeric := []string{
		"latency", "cores", "enabledcores", "microcode", "threads",
		"level", "ansiversion", "size", "capacity", "width", "clock",
		"depth", "FATs", "logicalsectorsize", "sectorsize",
	}
	boolean := []string{
		"claimed", "disabled", "broadcast", "link", "multicast",
		"slave", "removable", "audio", "dvd",
	}
	stringKeep := []string{"physid", "version"}
	arrayOfString := []string{"logicalname"}

	for _, f := range numeric {
		t.classes[f] = Numeric
	}
	for _, f := range boolean {
		t.classes[f] = Boolean
	}
	for _, f := range stringKeep {
		t.classes[f] = StringKeep
	}
	for _, f := range arrayOfString {
		t.classes[f] = ArrayOfString
	}

	// Structural and descriptive lshw fields, part of the reference shape even
	// though their type is not enforced.
	structural := []string{
		"id", "class", "description", "product", "vendor", "serial",
		"businfo", "handle", "slot", "date", "units", "boot",
		"configuration", "capabilities", "children",
		"node", "hardware", "data", "error",
	}
	for f := range t.classes {
		t.known[f] = struct{}{}
	}
	for _, f := range structural {
		t.known[f] = struct{}{}
	}

	return t
}

// Classify returns the expected class of a field name.
func (t Table) Classify(field string) Class {
	return t.classes[field]
}

// KnownField reports whether a field belongs to the reference shape: classified
// fields plus the structural lshw fields. Unknown fields are reported as
// coverage warnings by the validator.
func (t Table) KnownField(field string) bool {
	_, ok := t.known[field]
	return ok
}

// ExpectedType returns the JSON type name implied by a class for diagnostics.
func (c Class) ExpectedType() string {
	switch c {
	case Numeric:
		return "number"
	case Boolean:
		return "boolean"
	case StringKeep:
		return "string"
	case ArrayOfString:
		return "array"
	default:
		return ""
	}
}

func newTable(numeric, boolean, stringKeep, arrayOfString, structural []string) (Table, error) {
	t := Table{
		classes: make(map[string]Class),
		known:   make(map[string]struct{}),
	}

	add := func(fields []string, class Class) error {
		for _, f := range fields {
			if existing, ok := t.classes[f]; ok {
				return fmt.Errorf("field %q classified as both %s and %s", f, existing, class)
			}
			t.classes[f] = class
			t.known[f] = struct{}{}
		}
		return nil
	}

	if err := add(numeric, Numeric); err != nil {
		return Table{}, err
	}
	if err := add(boolean, Boolean); err != nil {
		return Table{}, err
	}
	if err := add(stringKeep, StringKeep); err != nil {
		return Table{}, err
	}
	if err := add(arrayOfString, ArrayOfString); err != nil {
		return Table{}, err
	}

	for _, f := range structural {
		t.known[f] = struct{}{}
	}

	return t, nil
}
