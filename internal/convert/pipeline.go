// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/pdiddy/heic-converter/pkg/types"
)

// Options configures one pipeline run.
type Options struct {
	// InputPath is the directory to scan, as given by the user.
	InputPath string

	// OutputName is the folder created inside the input directory.
	OutputName string

	// Workers is the pool size; zero or less selects DefaultPoolSize.
	Workers int

	// IncludeOutput scans the output folder for source files as well.
	IncludeOutput bool
}

// Observer receives progress from a running pipeline. Outcome is called
// concurrently from worker goroutines.
type Observer interface {
	Found(n int)
	Outcome(o types.ConversionOutcome)
}

// Result holds everything produced by a pipeline run.
type Result struct {
	Paths     ResolvedPaths
	Summary   types.BatchSummary
	Outcomes  []types.ConversionOutcome
	StartedAt time.Time
	Duration  time.Duration
}

// Run resolves the input and output directories, enumerates source files,
// converts them on a bounded pool and summarizes the outcomes. Only a path
// resolution or enumeration failure is returned as an error; per-file
// failures are recorded in the summary. No source files yields an empty
// summary and a nil error.
func Run(ctx context.Context, fsys afero.Fs, conv TaskConverter, opts Options, obs Observer) (Result, error) {
	res := Result{StartedAt: time.Now()}

	paths, err := Resolve(fsys, opts.InputPath, opts.OutputName)
	if err != nil {
		return res, err
	}
	res.Paths = paths

	var skip []string
	if !opts.IncludeOutput {
		skip = append(skip, paths.OutputRoot)
	}
	files, err := Enumerate(fsys, paths.InputRoot, skip...)
	if err != nil {
		return res, fmt.Errorf("scanning %s: %w", paths.InputRoot, err)
	}
	if obs != nil {
		obs.Found(len(files))
	}

	tasks := make([]types.ConversionTask, len(files))
	for i, f := range files {
		tasks[i] = types.ConversionTask{
			SourcePath: f,
			InputRoot:  paths.InputRoot,
			OutputRoot: paths.OutputRoot,
		}
	}

	var onOutcome func(types.ConversionOutcome)
	if obs != nil {
		onOutcome = obs.Outcome
	}
	res.Outcomes = RunBatch(ctx, conv, tasks, opts.Workers, onOutcome)
	res.Summary = Summarize(res.Outcomes, paths.OutputRoot)
	res.Duration = time.Since(res.StartedAt)
	return res, nil
}
