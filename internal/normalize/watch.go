package normalize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/fredericlepied/lshw-normalization/internal/constants"
)

// watch normalizes JSON files created or rewritten under the input directories
// until ctx is cancelled. File inputs are watched through their parent directory.
func (r *Runner) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %v", err)
	}
	defer watcher.Close()

	for _, dir := range r.watchDirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to add directory %s to watcher: %v", dir, err)
		}
		r.log.Info("Watching directory", "dir", dir)
	}

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Watcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed unexpectedly")
			}

			// A save emits Create then Write; only the Write carries the full
			// content, and reacting to both would process the file twice.
			if !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !r.wantsFile(event.Name) {
				continue
			}

			r.log.Debug("Picked up file", "file", event.Name, "op", event.Op.String())
			if err := r.File(event.Name); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed unexpectedly")
			}
			r.log.Warn("Watcher error", "error", err)
		}
	}
}

func (r *Runner) watchDirs() []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, path := range r.cfg.Paths {
		dir := path
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			dir = filepath.Dir(path)
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}

// wantsFile reports whether a watch event concerns an input report, ignoring
// this run's own outputs.
func (r *Runner) wantsFile(path string) bool {
	if filepath.Ext(path) != constants.ReportExt {
		return false
	}

	if r.cfg.Suffix != "" {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if strings.HasSuffix(stem, r.cfg.Suffix) {
			return false
		}
	}

	return true
}
