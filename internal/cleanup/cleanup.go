// Package cleanup empties a download directory before a fresh batch.
package cleanup

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Result summarizes one ClearDirectory call
type Result struct {
	Path    string
	Missing bool
	Deleted []string
	Errors  []error
}

// ClearDirectory deletes every non-directory entry directly under path.
// Subdirectories are left untouched. displayPath is what gets logged in
// place of path. A failed deletion is logged and does not stop the others.
func ClearDirectory(logger *slog.Logger, path, displayPath string) Result {
	res := Result{Path: path}

	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Missing = true
			logger.Info("directory not found", "path", displayPath)
			return res
		}
		res.Errors = append(res.Errors, fmt.Errorf("failed to read directory %s: %w", displayPath, err))
		logger.Error("failed to read directory", "path", displayPath, "error", err)
		return res
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		full := filepath.Join(path, entry.Name())
		if err := os.Remove(full); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("failed to delete %s: %w", full, err))
			logger.Error("error deleting file", "file", entry.Name(), "path", displayPath, "error", err)
			continue
		}

		res.Deleted = append(res.Deleted, entry.Name())
		logger.Info("deleted", "file", entry.Name(), "path", displayPath)
	}

	return res
}
