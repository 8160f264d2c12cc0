// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrInputNotFound is returned when the input directory does not exist
	// or is not a directory.
	ErrInputNotFound = errors.New("input directory not found")

	// ErrInvalidOutputName is returned for output folder names that are
	// empty, absolute, or escape the input directory.
	ErrInvalidOutputName = errors.New("invalid output folder name")
)

// ResolvedPaths holds the absolute input and output roots of a run.
type ResolvedPaths struct {
	InputRoot  string
	OutputRoot string
}

// Resolve makes inputPath absolute and symlink-free, checks that it is a
// directory, validates outputName and creates InputRoot/outputName. A missing
// input is reported before a bad output name, and nothing is created in
// either case. Creating an existing output directory is not an error.
func Resolve(fsys afero.Fs, inputPath, outputName string) (ResolvedPaths, error) {
	inputRoot, err := absPath(inputPath)
	if err != nil {
		return ResolvedPaths{}, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}

	info, err := fsys.Stat(inputRoot)
	if err != nil || !info.IsDir() {
		return ResolvedPaths{}, fmt.Errorf("%w: %s", ErrInputNotFound, inputRoot)
	}

	if err := ValidateOutputName(outputName); err != nil {
		return ResolvedPaths{}, err
	}

	outputRoot := filepath.Join(inputRoot, outputName)
	if err := fsys.MkdirAll(outputRoot, 0o755); err != nil {
		return ResolvedPaths{}, fmt.Errorf("creating output directory %s: %w", outputRoot, err)
	}

	return ResolvedPaths{InputRoot: inputRoot, OutputRoot: outputRoot}, nil
}

// ValidateOutputName checks that name is a relative path that stays inside
// the input directory.
func ValidateOutputName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidOutputName)
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("%w: %q is absolute", ErrInvalidOutputName, name)
	}
	clean := filepath.Clean(name)
	if clean == "." {
		return fmt.Errorf("%w: %q names the input directory itself", ErrInvalidOutputName, name)
	}
	for _, part := range strings.Split(filepath.ToSlash(clean), "/") {
		if part == ".." {
			return fmt.Errorf("%w: %q leaves the input directory", ErrInvalidOutputName, name)
		}
	}
	return nil
}

// absPath returns the absolute path with symlinks resolved. A path that does
// not exist on the host filesystem is returned unresolved so that callers
// can check it against their own filesystem.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}
