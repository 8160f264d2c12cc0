// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SourceExt is the extension of files picked up for conversion. Matching is
// case-insensitive.
const SourceExt = ".heic"

// TargetExt is the extension given to converted files.
const TargetExt = ".jpg"

// IsSource reports whether path has the source extension in any letter case.
func IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SourceExt)
}

// Enumerate walks root recursively and returns every non-directory entry
// whose extension matches SourceExt. Directories listed in skip are pruned.
// Unreadable subdirectories are skipped; only a failure on root itself is
// returned. An empty result is not an error.
func Enumerate(fsys afero.Fs, root string, skip ...string) ([]string, error) {
	pruned := make(map[string]bool, len(skip))
	for _, dir := range skip {
		if dir != "" {
			pruned[filepath.Clean(dir)] = true
		}
	}
	root = filepath.Clean(root)

	var files []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if info.IsDir() {
			if path != root && pruned[filepath.Clean(path)] {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
