package normalize_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredericlepied/lshw-normalization/internal/normalize"
)

func TestWatchNormalizesNewFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := newRunner(t, normalize.Config{Paths: []string{dir}, Suffix: ".normalized", Watch: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx)
		done <- err
	}()

	// Give the watcher time to install before producing events.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, dir, "report.json", sampleReport)

	out := filepath.Join(dir, "report.normalized.json")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(out)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond, "New files should be normalized while watching")

	writeFile(t, dir, "another.json", sampleReport)
	another := filepath.Join(dir, "another.normalized.json")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(another)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond, "Every new file should be picked up")

	cancel()
	require.NoError(t, <-done, "Run should stop cleanly on cancellation")

	stats := r.Stats()
	assert.Equal(t, 2, stats.FilesProcessed, "Each file is processed exactly once per save")
	assert.Empty(t, stats.Errors, "Watching must not record read errors for picked up files")
}

func TestWatchIgnoresOwnOutputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := newRunner(t, normalize.Config{Paths: []string{dir}, Suffix: ".normalized", Watch: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx)
		done <- err
	}()

	time.Sleep(200 * time.Millisecond)
	writeFile(t, dir, "report.normalized.json", sampleReport)

	assert.Never(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "report.normalized.normalized.json"))
		return err == nil
	}, time.Second, 100*time.Millisecond, "Own outputs must not be reprocessed")

	cancel()
	require.NoError(t, <-done, "Run should stop cleanly on cancellation")
	assert.Zero(t, r.Stats().FilesProcessed)
}
