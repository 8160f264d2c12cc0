// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/heic-converter/pkg/types"
)

// Report is the machine-readable record of one batch run.
type Report struct {
	StartedAt  time.Time                 `json:"started_at" yaml:"started_at"`
	DurationMS int64                     `json:"duration_ms" yaml:"duration_ms"`
	InputDir   string                    `json:"input_dir" yaml:"input_dir"`
	Decoder    string                    `json:"decoder" yaml:"decoder"`
	Workers    int                       `json:"workers" yaml:"workers"`
	Summary    ReportSummary             `json:"summary" yaml:"summary"`
	Outcomes   []types.ConversionOutcome `json:"outcomes" yaml:"outcomes"`
}

// ReportSummary holds the counts of a Report. Failures are omitted because
// every outcome is already listed.
type ReportSummary struct {
	TotalFound int    `json:"total_found" yaml:"total_found"`
	Converted  int    `json:"converted" yaml:"converted"`
	Errors     int    `json:"errors" yaml:"errors"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`
}

// NewReport builds a Report from a summary and its outcomes.
func NewReport(inputDir, decoder string, workers int, startedAt time.Time, d time.Duration,
	s types.BatchSummary, outcomes []types.ConversionOutcome) Report {
	if outcomes == nil {
		outcomes = []types.ConversionOutcome{}
	}
	return Report{
		StartedAt:  startedAt.UTC(),
		DurationMS: d.Milliseconds(),
		InputDir:   inputDir,
		Decoder:    decoder,
		Workers:    workers,
		Summary: ReportSummary{
			TotalFound: s.TotalFound,
			Converted:  s.Converted,
			Errors:     s.Errors,
			OutputDir:  s.OutputDir,
		},
		Outcomes: outcomes,
	}
}

// WriteYAML writes r to path, creating parent directories.
func WriteYAML(fsys afero.Fs, path string, r Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
