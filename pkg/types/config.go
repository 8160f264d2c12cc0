// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// DefaultOutputName is the output folder created inside the input directory
// when none is configured.
const DefaultOutputName = "JPEG_Output"

// DecoderBackend identifies the HEIC decoding implementation.
type DecoderBackend string

const (
	// DecoderWASM decodes in-process with libheif compiled to WebAssembly.
	DecoderWASM DecoderBackend = "wasm"
	// DecoderLibheif shells out to libheif's command-line decoder.
	DecoderLibheif DecoderBackend = "libheif"
)

// ColorMode controls ANSI color in terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// HistoryConfig holds settings for the run history database.
type HistoryConfig struct {
	// Enabled turns recording of runs on or off (default true).
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`
}

// ConverterConfig holds the settings of one conversion run. The CLI builds
// it from flags, environment and config file; the core receives it by value.
type ConverterConfig struct {
	// InputDir is the directory tree to scan for HEIC files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputName is the folder created inside InputDir for JPEG output.
	OutputName string `json:"output_name" yaml:"output_name"`

	// Workers is the pool size. Zero selects min(32, CPUs).
	Workers int `json:"workers" yaml:"workers"`

	// IncludeOutput scans the output folder for HEIC files too.
	IncludeOutput bool `json:"include_output" yaml:"include_output"`

	// Decoder selects the HEIC decoder backend.
	Decoder DecoderBackend `json:"decoder" yaml:"decoder"`

	// Color selects terminal color handling.
	Color ColorMode `json:"color" yaml:"color"`

	// ReportPath, when set, receives a YAML report of the run.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty"`

	History HistoryConfig `json:"history" yaml:"history"`
}

// Validate checks enum fields and numeric ranges.
func (c ConverterConfig) Validate() error {
	switch c.Decoder {
	case DecoderWASM, DecoderLibheif:
	default:
		return fmt.Errorf("invalid decoder %q (use %q or %q)", c.Decoder, DecoderWASM, DecoderLibheif)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (use auto, always or never)", c.Color)
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.OutputName == "" {
		return errors.New("output folder name must not be empty")
	}
	return nil
}
