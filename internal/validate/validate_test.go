package validate_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredericlepied/lshw-normalization/internal/fileutils"
	"github.com/fredericlepied/lshw-normalization/internal/normalize"
	"github.com/fredericlepied/lshw-normalization/internal/schema"
	"github.com/fredericlepied/lshw-normalization/internal/testutils"
	"github.com/fredericlepied/lshw-normalization/internal/validate"
)

func newValidator(t *testing.T) validate.Validator {
	t.Helper()

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	return validate.New(l, schema.Default())
}

func decode(t *testing.T, data string) any {
	t.Helper()

	doc, err := fileutils.DecodeJSONDocument([]byte(data))
	require.NoError(t, err, "Setup: could not decode test document")
	return doc
}

type diagCount struct {
	errors   int
	warnings int
}

func countDiags(diags []validate.Diagnostic) diagCount {
	var c diagCount
	for _, d := range diags {
		switch d.Severity {
		case validate.SeverityError:
			c.errors++
		case validate.SeverityWarning:
			c.warnings++
		}
	}
	return c
}

func TestDocument(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string

		want       diagCount
		wantIssues []validate.Issue
	}{
		"Well typed document": {
			input: `{"id": "machine", "class": "system", "size": 1024, "claimed": true, "physid": "0a", "logicalname": ["eth0"]}`,
		},
		"Numeric string is a mismatch and an advisory": {
			input:      `{"id": "cpu", "size": "1024"}`,
			want:       diagCount{errors: 1, warnings: 1},
			wantIssues: []validate.Issue{validate.IssueTypeMismatch, validate.IssueStringNumeric},
		},
		"Boolean literal string is a mismatch and an advisory": {
			input:      `{"id": "net", "claimed": "yes"}`,
			want:       diagCount{errors: 1, warnings: 1},
			wantIssues: []validate.Issue{validate.IssueTypeMismatch, validate.IssueStringBoolean},
		},
		"Non convertible string on numeric field": {
			input:      `{"id": "disk", "size": "large"}`,
			want:       diagCount{errors: 1},
			wantIssues: []validate.Issue{validate.IssueTypeMismatch},
		},
		"StringKeep field holding a number": {
			input:      `{"id": "bus", "physid": 10}`,
			want:       diagCount{errors: 1},
			wantIssues: []validate.Issue{validate.IssueTypeMismatch},
		},
		"Scalar on array field": {
			input:      `{"id": "net", "logicalname": "eth0"}`,
			want:       diagCount{errors: 1},
			wantIssues: []validate.Issue{validate.IssueTypeMismatch},
		},
		"Null is acceptable on classified fields": {
			input: `{"id": "net", "size": null, "claimed": null, "logicalname": null}`,
		},
		"Unknown field warning": {
			input:      `{"id": "machine", "mystery": 1}`,
			want:       diagCount{warnings: 1},
			wantIssues: []validate.Issue{validate.IssueUnknownField},
		},
		"Capabilities keys are free form": {
			input: `{"id": "net", "capabilities": {"tp": true, "driver=e1000": true}}`,
		},
		"Configuration keys are free form": {
			input: `{"id": "net", "configuration": {"autonegotiation": "on", "driver": "e1000e"}}`,
		},
		"Classified keys inside capabilities still checked": {
			input:      `{"id": "net", "capabilities": {"link": "text"}}`,
			want:       diagCount{errors: 1},
			wantIssues: []validate.Issue{validate.IssueTypeMismatch},
		},
		"Nested children are walked": {
			input:      `{"id": "machine", "class": "system", "children": [{"id": "cpu", "cores": "8"}]}`,
			want:       diagCount{errors: 1, warnings: 1},
			wantIssues: []validate.Issue{validate.IssueTypeMismatch, validate.IssueStringNumeric},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v := newValidator(t)
			diags := v.Document(decode(t, tc.input))

			assert.Equal(t, tc.want, countDiags(diags), "Diagnostic counts do not match")

			var issues []validate.Issue
			for _, d := range diags {
				issues = append(issues, d.Issue)
			}
			assert.ElementsMatch(t, tc.wantIssues, issues, "Diagnostic issues do not match")
		})
	}
}

func TestDocumentDiagnosticDetail(t *testing.T) {
	t.Parallel()

	v := newValidator(t)
	diags := v.Document(decode(t, `{"children": [{"size": "large"}]}`))

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, validate.SeverityError, d.Severity)
	assert.Equal(t, "children[0].size", d.Path)
	assert.Equal(t, "size", d.Field)
	assert.Equal(t, "number", d.Expected)
	assert.Equal(t, "string", d.Observed)
	assert.Equal(t, "large", d.Value)
}

func TestDocumentDiagnosticsGolden(t *testing.T) {
	t.Parallel()

	v := newValidator(t)
	got := v.Document(decode(t, `{"size": "1024"}`))

	want := testutils.LoadWithUpdateFromGoldenYAML(t, got)
	assert.Equal(t, want, got, "Diagnostics do not match golden file")
}

// Normalized documents must validate cleanly, modulo coercion failures left in
// place by the normalizer.
func TestNormalizedDocumentsPass(t *testing.T) {
	t.Parallel()

	input := `{
		"id": "network",
		"class": "network",
		"claimed": "yes",
		"size": "1024",
		"latency": "32.5",
		"physid": "0a",
		"logicalname": "eth0",
		"capabilities": {"ethernet": "driver=e1000"},
		"children": [{"id": "port", "class": "network", "link": "no"}]
	}`

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	n := normalize.New(l, schema.Default())
	var stats normalize.Stats
	normalized := n.Document(decode(t, input), &stats)
	require.Empty(t, stats.Failures, "Setup: document should normalize cleanly")

	diags := newValidator(t).Document(normalized)
	assert.Zero(t, countDiags(diags).errors, "Normalized documents must produce no validation errors")
}

func TestRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600), "Setup: could not write test file")
	}
	write("clean.json", `{"id": "machine", "class": "system", "size": 1024}`)
	write("dirty.json", `{"id": "machine", "class": "system", "size": "1024"}`)
	write("bad.json", `{not json`)

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := validate.Config{Paths: []string{dir}}
	require.NoError(t, cfg.Sanitize(l))

	report, err := validate.NewRunner(l, schema.Default(), cfg).Run()
	require.NoError(t, err, "Run should not return an error")

	assert.Equal(t, 3, report.FilesValidated)
	assert.Equal(t, 1, report.FilesPassed)
	assert.True(t, report.Failed())

	assert.Equal(t, validate.StatusPass, report.Files[filepath.Join(dir, "clean.json")].Status)
	assert.Equal(t, validate.StatusFail, report.Files[filepath.Join(dir, "dirty.json")].Status)

	bad := report.Files[filepath.Join(dir, "bad.json")]
	assert.Equal(t, validate.StatusFail, bad.Status)
	require.Len(t, bad.Errors, 1)
	assert.Equal(t, validate.IssueInvalidInput, bad.Errors[0].Issue, "Unreadable files are input errors, not schema findings")

	summary := report.Summary()
	assert.Contains(t, summary, "PASS "+filepath.Join(dir, "clean.json"))
	assert.Contains(t, summary, "FAIL "+filepath.Join(dir, "dirty.json"))
}

func TestRunStrictPromotesWarnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.json"),
		[]byte(`{"id": "machine", "mystery": 1}`), 0600), "Setup: could not write test file")

	l := slog.New(slog.NewTextHandler(io.Discard, nil))

	for name, tc := range map[string]struct {
		strict bool
		want   string
	}{
		"Warnings pass by default": {want: validate.StatusPass},
		"Strict fails on warnings": {strict: true, want: validate.StatusFail},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := validate.Config{Paths: []string{dir}, Strict: tc.strict}
			require.NoError(t, cfg.Sanitize(l))

			report, err := validate.NewRunner(l, schema.Default(), cfg).Run()
			require.NoError(t, err, "Run should not return an error")

			res := report.Files[filepath.Join(dir, "report.json")]
			assert.Equal(t, tc.want, res.Status)
			require.Len(t, res.Warnings, 1, "The warning severity itself is never rewritten")
			assert.Equal(t, validate.SeverityWarning, res.Warnings[0].Severity)
		})
	}
}

func TestReportWriteReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.json"),
		[]byte(`{"id": "machine", "class": "system"}`), 0600), "Setup: could not write test file")

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := validate.Config{Paths: []string{dir}}
	require.NoError(t, cfg.Sanitize(l))

	report, err := validate.NewRunner(l, schema.Default(), cfg).Run()
	require.NoError(t, err, "Run should not return an error")

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, report.WriteReport(path), "WriteReport should not return an error")

	doc, err := fileutils.ReadJSONDocument(path)
	require.NoError(t, err, "Report should contain valid JSON")
	obj := doc.(map[string]any)
	assert.Contains(t, obj, "filesValidated")
	assert.Contains(t, obj, "files")
}
