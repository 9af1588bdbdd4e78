package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/fredericlepied/lshw-normalization/internal/fileutils"
	"github.com/fredericlepied/lshw-normalization/internal/schema"
)

// StatusPass and StatusFail are the per-file verdicts.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// Config represents the validator run configuration.
type Config struct {
	Paths      []string
	Strict     bool
	ReportPath string
}

// Sanitize checks that the Config is properly configured.
func (c *Config) Sanitize(_ *slog.Logger) error {
	if len(c.Paths) == 0 {
		return errors.New("no input paths provided")
	}
	return nil
}

// FileResult is the validation outcome of one file.
type FileResult struct {
	Status   string       `json:"status"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
}

// Report is the run-level validation report.
type Report struct {
	FilesValidated int `json:"filesValidated"`
	FilesPassed    int `json:"filesPassed"`
	TotalErrors    int `json:"totalErrors"`
	TotalWarnings  int `json:"totalWarnings"`

	Files map[string]FileResult `json:"files"`
}

// Runner validates a set of report files.
type Runner struct {
	cfg       Config
	validator Validator
	log       *slog.Logger
}

// NewRunner returns a Runner over a sanitized Config.
func NewRunner(l *slog.Logger, table schema.Table, cfg Config) *Runner {
	return &Runner{
		cfg:       cfg,
		validator: New(l, table),
		log:       l,
	}
}

// Run validates every JSON file under the configured paths.
// Schema violations never halt the run; unreadable files fail their file and
// the run continues.
func (r *Runner) Run() (Report, error) {
	files, err := fileutils.CollectJSONFiles(r.cfg.Paths)
	if err != nil {
		return Report{}, err
	}
	if len(files) == 0 {
		return Report{}, errors.New("no JSON files found")
	}

	report := Report{Files: make(map[string]FileResult, len(files))}
	for _, file := range files {
		result := r.file(file)
		report.Files[file] = result
		report.FilesValidated++
		if result.Status == StatusPass {
			report.FilesPassed++
		}
		report.TotalErrors += len(result.Errors)
		report.TotalWarnings += len(result.Warnings)
	}

	return report, nil
}

func (r *Runner) file(path string) FileResult {
	doc, err := fileutils.ReadJSONDocument(path)
	if err != nil {
		r.log.Warn("Could not read file", "file", path, "error", err)
		return FileResult{
			Status: StatusFail,
			Errors: []Diagnostic{{
				Severity: SeverityError,
				Path:     "",
				Issue:    IssueInvalidInput,
				Value:    err.Error(),
			}},
		}
	}

	result := FileResult{Status: StatusPass}
	for _, d := range r.validator.Document(doc) {
		switch d.Severity {
		case SeverityError:
			result.Errors = append(result.Errors, d)
		case SeverityWarning:
			result.Warnings = append(result.Warnings, d)
		}
	}

	if len(result.Errors) > 0 || (r.cfg.Strict && len(result.Warnings) > 0) {
		result.Status = StatusFail
	}

	return result
}

// Failed reports whether any file failed its verdict.
func (rep Report) Failed() bool {
	return rep.FilesPassed != rep.FilesValidated
}

// Summary renders the run report as a human readable summary.
func (rep Report) Summary() string {
	out := "Validation summary:\n"
	out += fmt.Sprintf("  Files validated: %d\n", rep.FilesValidated)
	out += fmt.Sprintf("  Files passed:    %d\n", rep.FilesPassed)
	out += fmt.Sprintf("  Files failed:    %d\n", rep.FilesValidated-rep.FilesPassed)
	out += fmt.Sprintf("  Total errors:    %d\n", rep.TotalErrors)
	out += fmt.Sprintf("  Total warnings:  %d\n", rep.TotalWarnings)

	var files []string
	for f := range rep.Files {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		res := rep.Files[f]
		if res.Status == StatusPass {
			out += fmt.Sprintf("  PASS %s\n", f)
			continue
		}
		out += fmt.Sprintf("  FAIL %s (%d errors, %d warnings)\n", f, len(res.Errors), len(res.Warnings))
	}

	return out
}

// WriteReport writes the machine readable validation report to path.
func (rep Report) WriteReport(path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal report: %v", err)
	}
	return fileutils.AtomicWrite(path, append(data, '\n'))
}
