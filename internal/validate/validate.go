// Package validate checks lshw documents against the field classification table
// without modifying them.
//
// It mirrors the normalizer's traversal and reports, per field, whether the
// observed JSON type matches the type implied by the field's class. Type
// mismatches on classified fields are errors; fields outside the reference
// shape, and classified fields holding convertible string forms, are warnings.
package validate

import (
	"fmt"
	"log/slog"

	"github.com/fredericlepied/lshw-normalization/internal/constants"
	"github.com/fredericlepied/lshw-normalization/internal/inventory"
	"github.com/fredericlepied/lshw-normalization/internal/normalize"
	"github.com/fredericlepied/lshw-normalization/internal/schema"
)

// Severity of a diagnostic record.
type Severity string

const (
	// SeverityError marks a type violation on a classified field.
	SeverityError Severity = "error"
	// SeverityWarning marks an advisory finding. Strict mode promotes warnings
	// for the pass/fail verdict but never rewrites the severity tag.
	SeverityWarning Severity = "warning"
)

// Issue identifies the kind of finding of a diagnostic record.
type Issue string

const (
	// IssueTypeMismatch is a classified field holding the wrong JSON type.
	IssueTypeMismatch Issue = "type_mismatch"
	// IssueStringNumeric is a numeric field holding a parseable numeric string.
	IssueStringNumeric Issue = "string_numeric"
	// IssueStringBoolean is a boolean field holding a boolean literal string.
	IssueStringBoolean Issue = "string_boolean"
	// IssueUnknownField is a field absent from the reference shape.
	IssueUnknownField Issue = "unknown_field"
	// IssueInvalidInput is a file that could not be read or parsed as JSON.
	IssueInvalidInput Issue = "invalid_input"
)

// Diagnostic is one finding at one field path of one document.
type Diagnostic struct {
	Severity   Severity `json:"severity"`
	Path       string   `json:"path"`
	Field      string   `json:"field"`
	Issue      Issue    `json:"issue"`
	Expected   string   `json:"expectedType,omitempty"`
	Observed   string   `json:"observedType,omitempty"`
	Value      string   `json:"value,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Validator walks documents and collects diagnostics.
type Validator struct {
	table schema.Table
	log   *slog.Logger
}

// New returns a Validator using the given classification table.
func New(l *slog.Logger, table schema.Table) Validator {
	return Validator{table: table, log: l}
}

// Document validates a document tree and returns its diagnostics.
// The document is never mutated.
func (v Validator) Document(doc any) []Diagnostic {
	var diags []Diagnostic
	v.walk(doc, "", true, &diags)
	return diags
}

// walk visits every node. checkCoverage is disabled inside capabilities and
// configuration objects, whose keys are free-form.
func (v Validator) walk(node any, path string, checkCoverage bool, diags *[]Diagnostic) {
	switch n := node.(type) {
	case map[string]any:
		for key, value := range n {
			fieldPath := inventory.ChildPath(path, key)
			v.checkField(key, value, fieldPath, checkCoverage, diags)

			freeForm := key == schema.CapabilitiesField || key == "configuration"
			v.walk(value, fieldPath, !freeForm, diags)
		}
	case []any:
		for i, item := range n {
			v.walk(item, inventory.IndexPath(path, i), checkCoverage, diags)
		}
	}
}

func (v Validator) checkField(key string, value any, path string, checkCoverage bool, diags *[]Diagnostic) {
	class := v.table.Classify(key)
	observed := inventory.TypeOf(value)

	if class == schema.Unclassified {
		if checkCoverage && !v.table.KnownField(key) {
			*diags = append(*diags, Diagnostic{
				Severity:   SeverityWarning,
				Path:       path,
				Field:      key,
				Issue:      IssueUnknownField,
				Observed:   observed.String(),
				Suggestion: "field is not part of the reference shape",
			})
		}
		return
	}

	// Null is acceptable for optional fields.
	if observed == inventory.Null {
		return
	}

	expected := expectedTag(class)
	if observed != expected {
		*diags = append(*diags, Diagnostic{
			Severity: SeverityError,
			Path:     path,
			Field:    key,
			Issue:    IssueTypeMismatch,
			Expected: class.ExpectedType(),
			Observed: observed.String(),
			Value:    truncate(fmt.Sprintf("%v", value), constants.MaxDiagnosticValueLen),
		})
	}

	// Convertible string forms get an advisory pointing at the normalizer.
	s, isString := value.(string)
	if !isString {
		return
	}
	switch class {
	case schema.Numeric:
		if normalize.NumericString(s) {
			*diags = append(*diags, Diagnostic{
				Severity:   SeverityWarning,
				Path:       path,
				Field:      key,
				Issue:      IssueStringNumeric,
				Value:      truncate(s, constants.MaxDiagnosticValueLen),
				Suggestion: "convert to numeric type",
			})
		}
	case schema.Boolean:
		if _, ok := normalize.BoolLiteral(s); ok {
			*diags = append(*diags, Diagnostic{
				Severity:   SeverityWarning,
				Path:       path,
				Field:      key,
				Issue:      IssueStringBoolean,
				Value:      truncate(s, constants.MaxDiagnosticValueLen),
				Suggestion: "convert to boolean type",
			})
		}
	}
}

func expectedTag(class schema.Class) inventory.Type {
	switch class {
	case schema.Numeric:
		return inventory.Number
	case schema.Boolean:
		return inventory.Bool
	case schema.StringKeep:
		return inventory.String
	case schema.ArrayOfString:
		return inventory.Array
	default:
		return inventory.Null
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
