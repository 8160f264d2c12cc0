// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imagecodec

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	binHeifDec     = "heif-dec"
	binHeifConvert = "heif-convert"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// libheifDecoder decodes by running libheif's CLI on a temporary copy of the
// source and reading back the PNG it writes. heif-dec (libheif >= 1.17) and
// the older heif-convert share the same "<input> <output>" invocation.
type libheifDecoder struct {
	bin  string
	exec executor
}

func (d *libheifDecoder) Name() string { return "libheif (" + d.bin + ")" }

func (d *libheifDecoder) available() bool {
	_, err := d.exec.LookPath(d.bin)
	return err == nil
}

func (d *libheifDecoder) Decode(r io.Reader) (image.Image, error) {
	dir, err := os.MkdirTemp("", "heic-converter-*")
	if err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "source.heic")
	dst := filepath.Join(dir, "decoded.png")

	f, err := os.Create(src)
	if err != nil {
		return nil, fmt.Errorf("staging source: %w", err)
	}
	_, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		return nil, fmt.Errorf("staging source: %w", copyErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("staging source: %w", closeErr)
	}

	if out, err := d.exec.Output(d.bin, src, dst); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", d.bin, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", d.bin, err)
	}

	pf, err := os.Open(dst)
	if err != nil {
		return nil, fmt.Errorf("%s produced no output: %w", d.bin, err)
	}
	defer pf.Close()

	img, err := png.Decode(pf)
	if err != nil {
		return nil, fmt.Errorf("reading %s output: %w", d.bin, err)
	}
	return img, nil
}

var defaultExec = &osExecutor{}

// DetectLibheif returns a Decoder backed by heif-dec, falling back to
// heif-convert. It fails when neither is on PATH.
func DetectLibheif() (Decoder, error) {
	return detectLibheif(defaultExec)
}

func detectLibheif(exec executor) (Decoder, error) {
	for _, bin := range []string{binHeifDec, binHeifConvert} {
		d := &libheifDecoder{bin: bin, exec: exec}
		if d.available() {
			return d, nil
		}
	}
	return nil, fmt.Errorf(
		"no libheif decoder available: neither %s nor %s found on PATH",
		binHeifDec, binHeifConvert,
	)
}
