// Package normalize is the implementation of the type normalization engine.
//
// The normalizer rewrites lshw documents so that every classified field carries
// its expected JSON type: numeric strings become numbers, boolean strings and
// capability descriptions become booleans, and array fields always hold arrays.
// Normalization is idempotent; the coercers are fixed points on their target types.
package normalize

import (
	"fmt"
	"log/slog"

	"github.com/fredericlepied/lshw-normalization/internal/constants"
	"github.com/fredericlepied/lshw-normalization/internal/inventory"
	"github.com/fredericlepied/lshw-normalization/internal/schema"
)

// Stats accumulates the conversion record of one run.
type Stats struct {
	FilesProcessed int `json:"filesProcessed"`
	FilesModified  int `json:"filesModified"`
	FilesSkipped   int `json:"filesSkipped"`

	NumericConversions  int `json:"numericConversions"`
	BooleanConversions  int `json:"booleanConversions"`
	ArrayNormalizations int `json:"arrayNormalizations"`

	Failures     []Failure `json:"coercionFailures,omitempty"`
	Errors       []string  `json:"errors,omitempty"`
	SkippedFiles []string  `json:"skippedFiles,omitempty"`
}

// Failure records a classified field whose value could not be coerced.
// The value is left unchanged in the document.
type Failure struct {
	File  string `json:"file,omitempty"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

// Normalizer applies the classification table to document trees.
type Normalizer struct {
	table schema.Table
	log   *slog.Logger
}

// New returns a Normalizer using the given classification table.
func New(l *slog.Logger, table schema.Table) Normalizer {
	return Normalizer{table: table, log: l}
}

// Document returns a normalized copy of doc, incrementing stats for every
// conversion. The input document is never mutated. The root may be a single
// object or an array of objects; both are walked the same way.
func (n Normalizer) Document(doc any, stats *Stats) any {
	return n.walk(doc, "", stats)
}

func (n Normalizer) walk(node any, path string, stats *Stats) any {
	switch v := node.(type) {
	case map[string]any:
		normalized := make(map[string]any, len(v))
		for key, value := range v {
			normalized[key] = n.field(key, value, inventory.ChildPath(path, key), stats)
		}
		return normalized
	case []any:
		normalized := make([]any, len(v))
		for i, item := range v {
			normalized[i] = n.walk(item, inventory.IndexPath(path, i), stats)
		}
		return normalized
	default:
		return node
	}
}

// field normalizes a single object entry. Every rule is keyed on the field
// name only; there is no path based scoping.
func (n Normalizer) field(key string, value any, path string, stats *Stats) any {
	if key == schema.CapabilitiesField {
		if caps, ok := value.(map[string]any); ok {
			return n.capabilities(caps, stats)
		}
	}

	switch n.table.Classify(key) {
	case schema.ArrayOfString:
		normalized, changed := ToArray(value)
		if changed {
			stats.ArrayNormalizations++
		}
		return normalized

	case schema.Numeric:
		normalized, err := ToNumber(value)
		if err != nil {
			n.fail(path, value, stats)
			return value
		}
		if _, wasString := value.(string); wasString {
			stats.NumericConversions++
		}
		return normalized

	case schema.Boolean:
		normalized, err := ToBool(value)
		if err != nil {
			n.fail(path, value, stats)
			return value
		}
		if _, wasBool := value.(bool); !wasBool {
			stats.BooleanConversions++
		}
		return normalized

	case schema.StringKeep:
		// Kept verbatim even when the value looks numeric.
		return value

	default:
		return n.walk(value, path, stats)
	}
}

// capabilities rewrites every string value of a capabilities object into a
// boolean, using the short literal forms first and the descriptive heuristic
// for prose. Values that are already booleans, or not strings at all, are kept.
func (n Normalizer) capabilities(caps map[string]any, stats *Stats) map[string]any {
	normalized := make(map[string]any, len(caps))
	for key, value := range caps {
		s, ok := value.(string)
		if !ok {
			normalized[key] = value
			continue
		}

		if b, ok := BoolLiteral(s); ok {
			normalized[key] = b
		} else {
			normalized[key] = ClassifyDescriptive(s)
		}
		stats.BooleanConversions++
	}
	return normalized
}

func (n Normalizer) fail(path string, value any, stats *Stats) {
	truncated := truncate(fmt.Sprintf("%v", value), constants.MaxDiagnosticValueLen)
	stats.Failures = append(stats.Failures, Failure{Path: path, Value: truncated})
	n.log.Warn("Could not coerce field value", "path", path, "value", truncated)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Summary renders the run statistics as a human readable report.
func (s Stats) Summary() string {
	out := "Normalization statistics:\n"
	out += fmt.Sprintf("  Files processed:      %d\n", s.FilesProcessed)
	out += fmt.Sprintf("  Files modified:       %d\n", s.FilesModified)
	out += fmt.Sprintf("  Files skipped:        %d\n", s.FilesSkipped)
	out += fmt.Sprintf("  Numeric conversions:  %d\n", s.NumericConversions)
	out += fmt.Sprintf("  Boolean conversions:  %d\n", s.BooleanConversions)
	out += fmt.Sprintf("  Array normalizations: %d\n", s.ArrayNormalizations)
	if len(s.Failures) > 0 {
		out += fmt.Sprintf("  Coercion failures:    %d\n", len(s.Failures))
	}
	if len(s.Errors) > 0 {
		out += fmt.Sprintf("  Errors:               %d\n", len(s.Errors))
	}
	return out
}
