// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the HEIC-to-JPEG batch pipeline: path
// resolution, source enumeration, per-file conversion, bounded parallel
// dispatch, and summary aggregation.
package convert

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/conc/panics"
	"github.com/spf13/afero"

	"github.com/pdiddy/heic-converter/pkg/types"
)

// outputPerm is the file mode of written JPEGs.
const outputPerm = 0o644

// Codec decodes source images and encodes JPEGs. Different decoder backends
// (in-process WASM, libheif CLI) sit behind it.
type Codec interface {
	// Decode reads a source image.
	Decode(r io.Reader) (image.Image, error)

	// Flatten returns img as opaque 3-channel color. Alpha is dropped, not
	// composited.
	Flatten(img image.Image) image.Image

	// Encode writes img as JPEG using the fixed quality policy.
	Encode(w io.Writer, img image.Image) error
}

// Converter converts single files. It is safe for concurrent use as long as
// the Codec is.
type Converter struct {
	fs    afero.Fs
	codec Codec
}

// NewConverter returns a Converter that reads and writes through fsys.
func NewConverter(fsys afero.Fs, codec Codec) *Converter {
	return &Converter{fs: fsys, codec: codec}
}

// Convert converts task.SourcePath into the mirrored location under
// task.OutputRoot. It never panics and never returns an error: every failure,
// including a panic inside the codec, becomes a failed outcome.
func (c *Converter) Convert(task types.ConversionTask) (out types.ConversionOutcome) {
	name := filepath.Base(task.SourcePath)

	var pc panics.Catcher
	pc.Try(func() { out = c.convert(task, name) })
	if r := pc.Recovered(); r != nil {
		return types.Failed(task, name, fmt.Errorf("panic: %v", r.Value))
	}
	return out
}

func (c *Converter) convert(task types.ConversionTask, name string) types.ConversionOutcome {
	target, err := TargetPath(task)
	if err != nil {
		return types.Failed(task, name, err)
	}

	// Several workers may create the same directory at once; MkdirAll
	// treats an existing directory as success.
	targetDir := filepath.Dir(target)
	if err := c.fs.MkdirAll(targetDir, 0o755); err != nil {
		return types.Failed(task, name, fmt.Errorf("creating directory %s: %w", targetDir, err))
	}

	img, err := c.decode(task.SourcePath)
	if err != nil {
		return types.Failed(task, name, err)
	}

	if err := c.writeJPEG(target, c.codec.Flatten(img)); err != nil {
		return types.Failed(task, name, err)
	}
	return types.Succeeded(task, name, target)
}

func (c *Converter) decode(path string) (image.Image, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := c.codec.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// writeJPEG encodes img into a temporary file next to dest and renames it
// over dest on success, replacing any existing file.
func (c *Converter) writeJPEG(dest string, img image.Image) error {
	tmp, err := afero.TempFile(c.fs, filepath.Dir(dest), ".heic-converter-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	bw := bufio.NewWriter(tmp)
	encErr := c.codec.Encode(bw, img)
	if encErr == nil {
		encErr = bw.Flush()
	}
	closeErr := tmp.Close()
	if encErr != nil {
		c.fs.Remove(tmpPath)
		return fmt.Errorf("encoding JPEG: %w", encErr)
	}
	if closeErr != nil {
		c.fs.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	// TempFile creates 0600 files; converted photos get ordinary file mode.
	if err := c.fs.Chmod(tmpPath, outputPerm); err != nil {
		c.fs.Remove(tmpPath)
		return fmt.Errorf("setting mode of temp file: %w", err)
	}

	if err := c.fs.Rename(tmpPath, dest); err != nil {
		c.fs.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// TargetPath returns OutputRoot/<dir of source relative to InputRoot>/<stem>.jpg.
func TargetPath(task types.ConversionTask) (string, error) {
	rel, err := filepath.Rel(task.InputRoot, filepath.Dir(task.SourcePath))
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", task.SourcePath, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside input directory %s", task.SourcePath, task.InputRoot)
	}

	base := filepath.Base(task.SourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(task.OutputRoot, rel, stem+TargetExt), nil
}
