package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/fredericlepied/lshw-normalization/internal/fileutils"
)

// Config represents the analyzer run configuration.
type Config struct {
	Paths      []string
	ReportPath string
}

// Sanitize checks that the Config is properly configured.
func (c *Config) Sanitize(_ *slog.Logger) error {
	if len(c.Paths) == 0 {
		return errors.New("no input paths provided")
	}
	return nil
}

// FieldReport describes one inconsistent field.
// Expected carries the type implied by the field's class when it is classified.
type FieldReport struct {
	Types     map[string]int      `json:"types"`
	Examples  map[string][]string `json:"examples,omitempty"`
	Expected  string              `json:"expectedType,omitempty"`
	FilesWith int                 `json:"filesWith"`
	Missing   bool                `json:"missingInSomeFiles"`
}

// Report is the run-level analysis report, keyed by field path.
type Report struct {
	FilesScanned       int `json:"filesScanned"`
	FieldsSeen         int `json:"fieldsSeen"`
	InconsistentFields int `json:"inconsistentFields"`
	NumericAsString    int `json:"numericAsStringOccurrences"`
	BooleanAsString    int `json:"booleanAsStringOccurrences"`

	Fields map[string]FieldReport `json:"fields"`
}

// Run scans every JSON file under the configured paths and derives the report.
// Unparseable files are logged and skipped; the scan continues.
// The number of skipped files is returned so callers can set the exit status.
func Run(l *slog.Logger, a *Analyzer, cfg Config) (Report, int, error) {
	files, err := fileutils.CollectJSONFiles(cfg.Paths)
	if err != nil {
		return Report{}, 0, err
	}
	if len(files) == 0 {
		return Report{}, 0, errors.New("no JSON files found")
	}

	failed := 0
	for _, file := range files {
		if err := a.File(file); err != nil {
			l.Warn("Could not analyze file", "file", file, "error", err)
			failed++
		}
	}

	return a.Report(), failed, nil
}

// Report derives the inconsistency report from the accumulated observations.
func (a *Analyzer) Report() Report {
	rep := Report{
		FilesScanned: a.totalFiles,
		FieldsSeen:   len(a.types),
		Fields:       make(map[string]FieldReport),
	}

	for path, tags := range a.types {
		rep.NumericAsString += tags[TagStringNumeric]
		rep.BooleanAsString += tags[TagStringBoolean]

		missing := a.filesWith[path] > 0 && a.filesWith[path] < a.totalFiles
		if len(tags) <= 1 && !missing {
			continue
		}

		rep.Fields[path] = FieldReport{
			Types:     tags,
			Examples:  a.examples[path],
			Expected:  a.table.Classify(fieldName(path)).ExpectedType(),
			FilesWith: a.filesWith[path],
			Missing:   missing,
		}
	}
	rep.InconsistentFields = len(rep.Fields)

	return rep
}

// Text renders the report as a human readable document, sorted by field name.
func (rep Report) Text() string {
	var b strings.Builder

	b.WriteString("lshw type analysis report\n")
	fmt.Fprintf(&b, "  Files scanned:        %d\n", rep.FilesScanned)
	fmt.Fprintf(&b, "  Unique field paths:   %d\n", rep.FieldsSeen)
	fmt.Fprintf(&b, "  Inconsistent fields:  %d\n", rep.InconsistentFields)
	fmt.Fprintf(&b, "  Numeric as string:    %d\n", rep.NumericAsString)
	fmt.Fprintf(&b, "  Boolean as string:    %d\n", rep.BooleanAsString)

	if len(rep.Fields) == 0 {
		return b.String()
	}

	var fields []string
	for f := range rep.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	b.WriteString("\nInconsistent fields:\n")
	for _, f := range fields {
		fr := rep.Fields[f]

		var tags []string
		for tag := range fr.Types {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		if fr.Expected != "" {
			fmt.Fprintf(&b, "  %s (expected %s)\n", f, fr.Expected)
		} else {
			fmt.Fprintf(&b, "  %s\n", f)
		}
		for _, tag := range tags {
			fmt.Fprintf(&b, "    %s: %d", tag, fr.Types[tag])
			if examples := fr.Examples[tag]; len(examples) > 0 {
				fmt.Fprintf(&b, " (e.g. %s)", strings.Join(examples, ", "))
			}
			b.WriteString("\n")
		}
		if fr.Missing {
			fmt.Fprintf(&b, "    present in %d/%d files\n", fr.FilesWith, rep.FilesScanned)
		}
	}

	return b.String()
}

// fieldName returns the last segment of a field path, without array markers.
func fieldName(path string) string {
	path = strings.TrimSuffix(path, "[]")
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

// WriteReport writes the machine readable analysis report to path.
func (rep Report) WriteReport(path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal report: %v", err)
	}
	return fileutils.AtomicWrite(path, append(data, '\n'))
}
