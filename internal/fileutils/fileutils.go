// Package fileutils provides utility functions for handling report files.
package fileutils

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fredericlepied/lshw-normalization/internal/constants"
)

// AtomicWrite writes data to a file atomically.
// If the file already exists, then it will be overwritten.
func AtomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary file: %v", err)
	}
	defer func() {
		_ = tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove temporary file", "file", tmp.Name(), "error", err)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("could not write to temporary file: %v", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temporary file: %v", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not rename temporary file: %v", err)
	}
	return nil
}

// CollectJSONFiles expands the given paths into the list of JSON report files they contain.
// Files are returned as given, directories are walked recursively keeping regular *.json files.
func CollectJSONFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("could not stat %s: %v", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.Type().IsRegular() && filepath.Ext(p) == constants.ReportExt {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("could not walk %s: %v", path, err)
		}
	}

	return files, nil
}

// OutputPath returns the destination path of a normalized file.
// When outputDir is empty the file is written next to the input.
// suffix is inserted before the extension; an empty suffix with no output directory
// means overwriting the input in place.
func OutputPath(input, outputDir, suffix string) string {
	dir := filepath.Dir(input)
	if outputDir != "" {
		dir = outputDir
	}

	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	return filepath.Join(dir, stem+suffix+ext)
}
