// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/heic-converter/internal/convert"
	"github.com/pdiddy/heic-converter/internal/history"
	"github.com/pdiddy/heic-converter/internal/imagecodec"
	"github.com/pdiddy/heic-converter/internal/report"
	"github.com/pdiddy/heic-converter/pkg/types"
)

var errCancelled = errors.New("conversion cancelled")

var convertCmd = &cobra.Command{
	Use:   "convert [input-dir]",
	Short: "Convert every HEIC file under a folder to JPEG",
	Long: `Convert walks input-dir recursively, converts each .heic file (any letter
case) to a quality-100, 4:4:4 JPEG, and writes it under the output folder at the
same relative path. Existing JPEGs are overwritten. Source files are never
modified.

When input-dir is omitted, ~/Pictures is used if it exists, otherwise the
current directory. The command exits non-zero if any file fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := defaultInputDir()
		if len(args) == 1 {
			input = args[0]
		}
		cfg, err := loadConfig(cmd, input)
		if err != nil {
			return err
		}
		return runConversion(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

// loadConfig builds the run configuration from viper and validates it.
func loadConfig(cmd *cobra.Command, inputDir string) (types.ConverterConfig, error) {
	noHistory, _ := cmd.Flags().GetBool("no-history")

	cfg := types.ConverterConfig{
		InputDir:      inputDir,
		OutputName:    viper.GetString("output_name"),
		Workers:       viper.GetInt("workers"),
		IncludeOutput: viper.GetBool("include_output"),
		Decoder:       types.DecoderBackend(viper.GetString("decoder")),
		Color:         types.ColorMode(viper.GetString("color")),
		ReportPath:    viper.GetString("report"),
		History: types.HistoryConfig{
			Enabled: viper.GetBool("history.enabled") && !noHistory,
			Path:    viper.GetString("history.path"),
		},
	}
	if cfg.OutputName == "" {
		cfg.OutputName = types.DefaultOutputName
	}
	if cfg.Decoder == "" {
		cfg.Decoder = types.DecoderWASM
	}
	if cfg.Color == "" {
		cfg.Color = types.ColorAuto
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runConversion runs one batch and reports it on w. Cancelling ctx skips the
// pending files; files already written stay.
func runConversion(ctx context.Context, cfg types.ConverterConfig, w io.Writer) error {
	out := report.NewPrinter(w, report.ColorEnabled(cfg.Color, writerFile(w)))

	codec, err := imagecodec.New(cfg.Decoder)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	workers := cfg.Workers
	if workers <= 0 {
		workers = convert.DefaultPoolSize()
	}

	res, err := convert.Run(ctx, fsys, convert.NewConverter(fsys, codec), convert.Options{
		InputPath:     cfg.InputDir,
		OutputName:    cfg.OutputName,
		Workers:       workers,
		IncludeOutput: cfg.IncludeOutput,
	}, out)
	if err != nil {
		return err
	}

	if ctx.Err() != nil {
		out.Cancelled()
	} else {
		out.Summary(res.Summary)
	}

	if cfg.ReportPath != "" {
		r := report.NewReport(res.Paths.InputRoot, codec.DecoderName(), workers,
			res.StartedAt, res.Duration, res.Summary, res.Outcomes)
		if err := report.WriteYAML(fsys, cfg.ReportPath, r); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	if cfg.History.Enabled && !res.Summary.Empty() {
		if err := recordHistory(cfg.History.Path, res); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording history: %v\n", err)
		}
	}

	switch {
	case ctx.Err() != nil:
		return errCancelled
	case res.Summary.HasFailures():
		return fmt.Errorf("%d of %d file(s) failed conversion", res.Summary.Errors, res.Summary.TotalFound)
	}
	return nil
}

func recordHistory(path string, res convert.Result) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordRun(context.Background(), history.Run{
		StartedAt: res.StartedAt,
		InputDir:  res.Paths.InputRoot,
		OutputDir: res.Paths.OutputRoot,
		Total:     res.Summary.TotalFound,
		Converted: res.Summary.Converted,
		Errors:    res.Summary.Errors,
		Duration:  res.Duration,
	}, res.Outcomes)
	return err
}

// writerFile returns w as an *os.File when it is one, for terminal detection.
func writerFile(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}
