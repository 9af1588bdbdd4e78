// Package analyze aggregates observed JSON types per field across a corpus of
// lshw documents to surface type inconsistencies before ingestion.
//
// A field is inconsistent when it was observed with more than one distinct type
// tag, or when it is present in some files and absent in others. String values
// are refined into string(numeric) and string(boolean) tags so that the fields
// the normalizer would fix are counted separately.
package analyze

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fredericlepied/lshw-normalization/internal/constants"
	"github.com/fredericlepied/lshw-normalization/internal/fileutils"
	"github.com/fredericlepied/lshw-normalization/internal/inventory"
	"github.com/fredericlepied/lshw-normalization/internal/normalize"
	"github.com/fredericlepied/lshw-normalization/internal/schema"
)

// Tags refining the plain JSON types for analysis.
const (
	TagInteger       = "integer"
	TagFloat         = "float"
	TagStringNumeric = "string(numeric)"
	TagStringBoolean = "string(boolean)"
)

// Analyzer accumulates type observations over many documents.
// It is a write-once accumulator: observations are added file by file, and the
// report is derived once scanning is over.
type Analyzer struct {
	table schema.Table
	log   *slog.Logger

	totalFiles int
	types      map[string]map[string]int      // field path -> type tag -> count
	examples   map[string]map[string][]string // field path -> type tag -> example values
	filesWith  map[string]int                 // field path -> number of files containing it
}

// New returns an Analyzer sharing the run's classification table.
func New(l *slog.Logger, table schema.Table) *Analyzer {
	return &Analyzer{
		table:     table,
		log:       l,
		types:     make(map[string]map[string]int),
		examples:  make(map[string]map[string][]string),
		filesWith: make(map[string]int),
	}
}

// Document records the type observations of one document.
func (a *Analyzer) Document(doc any) {
	a.totalFiles++

	seen := make(map[string]struct{})
	a.walk(doc, "", seen)
	for path := range seen {
		a.filesWith[path]++
	}
}

// File reads and records one document file.
func (a *Analyzer) File(path string) error {
	doc, err := fileutils.ReadJSONDocument(path)
	if err != nil {
		return err
	}

	a.Document(doc)
	a.log.Debug("Scanned file", "file", path)
	return nil
}

// walk records one tag per field path. Array elements that are objects are
// recorded under their parent path so observations aggregate across files;
// scalar elements are recorded under path[].
func (a *Analyzer) walk(node any, path string, seen map[string]struct{}) {
	switch n := node.(type) {
	case map[string]any:
		for key, value := range n {
			fieldPath := inventory.ChildPath(path, key)
			a.observe(fieldPath, value, seen)

			switch v := value.(type) {
			case map[string]any:
				a.walk(v, fieldPath, seen)
			case []any:
				for _, item := range v {
					if _, ok := item.(map[string]any); ok {
						a.walk(item, fieldPath, seen)
						continue
					}
					a.observe(fieldPath+"[]", item, seen)
				}
			}
		}
	case []any:
		for _, item := range n {
			a.walk(item, path, seen)
		}
	}
}

func (a *Analyzer) observe(path string, value any, seen map[string]struct{}) {
	tag := TypeTag(value)

	if a.types[path] == nil {
		a.types[path] = make(map[string]int)
	}
	a.types[path][tag]++
	seen[path] = struct{}{}

	if tag == inventory.Object.String() || tag == inventory.Array.String() {
		return
	}
	if a.examples[path] == nil {
		a.examples[path] = make(map[string][]string)
	}
	if len(a.examples[path][tag]) < constants.MaxExampleValues {
		example := truncate(fmt.Sprintf("%v", value), constants.MaxDiagnosticValueLen)
		a.examples[path][tag] = append(a.examples[path][tag], example)
	}
}

// TypeTag returns the refined type tag of a value.
func TypeTag(value any) string {
	switch v := value.(type) {
	case string:
		if normalize.NumericString(v) {
			return TagStringNumeric
		}
		if _, ok := normalize.BoolLiteral(v); ok {
			return TagStringBoolean
		}
		return inventory.String.String()
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			return TagFloat
		}
		return TagInteger
	case float64:
		return TagFloat
	case int, int64:
		return TagInteger
	default:
		return inventory.TypeOf(value).String()
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
