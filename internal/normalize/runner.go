package normalize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fredericlepied/lshw-normalization/internal/fileutils"
	"github.com/fredericlepied/lshw-normalization/internal/inventory"
	"github.com/fredericlepied/lshw-normalization/internal/schema"
)

// ErrNoInputFiles is returned when no JSON files were found under the input paths.
var ErrNoInputFiles = errors.New("no JSON files found")

// Config represents the normalizer run configuration.
type Config struct {
	Paths      []string
	OutputDir  string
	Suffix     string
	Strict     bool
	AnyJSON    bool
	Watch      bool
	ReportPath string
}

// Sanitize checks that the Config is properly configured and prepares the
// output directory.
func (c *Config) Sanitize(l *slog.Logger) error {
	if len(c.Paths) == 0 {
		return errors.New("no input paths provided")
	}

	if c.Watch && c.OutputDir == "" && c.Suffix == "" {
		return errors.New("watch mode with in-place output would reprocess its own writes; set an output directory or a filename suffix")
	}

	if c.OutputDir != "" {
		if err := os.MkdirAll(c.OutputDir, 0750); err != nil {
			return fmt.Errorf("could not create output directory: %v", err)
		}
	}

	return nil
}

// Runner processes a set of report files with one Normalizer, accumulating a
// single Stats record for the run.
type Runner struct {
	cfg  Config
	norm Normalizer

	stats Stats
	log   *slog.Logger
}

// NewRunner returns a Runner over a sanitized Config.
func NewRunner(l *slog.Logger, table schema.Table, cfg Config) *Runner {
	return &Runner{
		cfg:  cfg,
		norm: New(l, table),
		log:  l,
	}
}

// Run normalizes every JSON file under the configured paths, then watches the
// input directories for new files when watch mode is enabled.
//
// In strict mode the run aborts on the first coercion failure or unreadable
// file. Otherwise failures are recorded in the returned Stats and processing
// continues.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	files, err := fileutils.CollectJSONFiles(r.cfg.Paths)
	if err != nil {
		return r.stats, err
	}

	files = r.dropOwnOutputs(files)
	if len(files) == 0 && !r.cfg.Watch {
		return r.stats, ErrNoInputFiles
	}

	for _, file := range files {
		if err := r.File(file); err != nil {
			return r.stats, err
		}
	}

	if r.cfg.Watch {
		if err := r.watch(ctx); err != nil {
			return r.stats, err
		}
	}

	return r.stats, nil
}

// File normalizes a single report file.
// A returned error means the run must abort; recoverable conditions are
// recorded in the Stats instead.
func (r *Runner) File(path string) error {
	doc, err := fileutils.ReadJSONDocument(path)
	if err != nil {
		r.stats.Errors = append(r.stats.Errors, fmt.Sprintf("%s: %v", path, err))
		if r.cfg.Strict {
			return fmt.Errorf("could not process %s: %v", path, err)
		}
		r.log.Warn("Skipping unreadable file", "file", path, "error", err)
		return nil
	}

	if !r.cfg.AnyJSON && !isReportDocument(doc) {
		r.stats.FilesSkipped++
		r.stats.SkippedFiles = append(r.stats.SkippedFiles, path)
		r.log.Info("Skipping file: not a valid lshw report", "file", path)
		return nil
	}

	before := len(r.stats.Failures)
	normalized := r.norm.Document(doc, &r.stats)
	for i := before; i < len(r.stats.Failures); i++ {
		r.stats.Failures[i].File = path
	}
	if r.cfg.Strict && len(r.stats.Failures) > before {
		f := r.stats.Failures[before]
		return fmt.Errorf("coercion failure in %s at %s: %q", f.File, f.Path, f.Value)
	}

	modified, err := documentsDiffer(doc, normalized)
	if err != nil {
		return fmt.Errorf("could not compare documents for %s: %v", path, err)
	}

	out := fileutils.OutputPath(path, r.cfg.OutputDir, r.cfg.Suffix)
	if err := fileutils.WriteJSONDocument(out, normalized); err != nil {
		r.stats.Errors = append(r.stats.Errors, fmt.Sprintf("%s: %v", out, err))
		if r.cfg.Strict {
			return fmt.Errorf("could not write %s: %v", out, err)
		}
		r.log.Warn("Could not write normalized file", "file", out, "error", err)
		return nil
	}

	r.stats.FilesProcessed++
	if modified {
		r.stats.FilesModified++
	}
	r.log.Debug("Normalized file", "file", path, "output", out, "modified", modified)

	return nil
}

// Stats returns the accumulated run statistics.
func (r *Runner) Stats() Stats {
	return r.stats
}

// dropOwnOutputs filters out files that carry the configured output suffix, so
// rerunning over the same directory does not renormalize previous outputs.
func (r *Runner) dropOwnOutputs(files []string) []string {
	if r.cfg.Suffix == "" {
		return files
	}

	kept := files[:0]
	for _, f := range files {
		stem := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if strings.HasSuffix(stem, r.cfg.Suffix) {
			r.log.Debug("Ignoring previous normalization output", "file", f)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// isReportDocument accepts a DCI-wrapped lshw report, or an array of them.
func isReportDocument(doc any) bool {
	if items, ok := doc.([]any); ok {
		if len(items) == 0 {
			return false
		}
		for _, item := range items {
			if !inventory.IsReport(item) {
				return false
			}
		}
		return true
	}

	return inventory.IsReport(doc)
}

// documentsDiffer compares two documents through their canonical JSON encoding.
func documentsDiffer(a, b any) (bool, error) {
	ja, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(ja, jb), nil
}

// WriteReport writes the machine readable conversion record to path.
func (s Stats) WriteReport(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal stats: %v", err)
	}
	return fileutils.AtomicWrite(path, append(data, '\n'))
}
