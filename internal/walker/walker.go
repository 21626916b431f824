// Package walker performs the physical directory traversal that feeds the
// size catalog.
package walker

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"dupfind/internal/catalog"
)

// WalkResult summarises one traversal. Errors below the root are collected
// rather than aborting the walk.
type WalkResult struct {
	Files   int
	Skipped int
	Errors  []error
}

// Walk visits every regular file below rootPath. Symbolic links are never
// followed, and directories and special files are not reported.
func Walk(rootPath string, matcher *Matcher, visit func(catalog.FileRecord)) (*WalkResult, error) {
	result := &WalkResult{
		Errors: make([]error, 0),
	}

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// If error is on the root path, return it (don't continue walking)
			if path == rootPath {
				return err
			}
			result.Errors = append(result.Errors, err)
			return nil
		}

		if path != rootPath && matcher.Excluded(rootPath, path, d.IsDir()) {
			result.Skipped++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rec, err := stat(path)
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}
		// Replaced between listing and stat; it is not a regular file any more.
		if rec == nil {
			return nil
		}

		result.Files++
		visit(*rec)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return result, nil
}
