// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/heic-converter/internal/report"
	"github.com/pdiddy/heic-converter/pkg/types"
)

// defaultInputDir is ~/Pictures when it exists, otherwise the working
// directory.
func defaultInputDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		pictures := filepath.Join(home, "Pictures")
		if info, err := os.Stat(pictures); err == nil && info.IsDir() {
			return pictures
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func runInteractive(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	out := report.NewPrinter(w, report.ColorEnabled(types.ColorMode(viper.GetString("color")), writerFile(w)))
	out.Banner()

	defaultOutput := viper.GetString("output_name")
	if defaultOutput == "" {
		defaultOutput = types.DefaultOutputName
	}

	input, output, err := promptFolders(cmd.Context(), cmd.InOrStdin(), out, defaultInputDir(), defaultOutput)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, input)
	if err != nil {
		return err
	}
	cfg.OutputName = output

	out.Info("\nStarting conversion...")
	return runConversion(cmd.Context(), cfg, w)
}

type folderAnswers struct {
	input, output string
	err           error
}

// promptFolders runs askFolders until it answers or ctx is cancelled. A
// blocked read of in is abandoned on cancellation.
func promptFolders(ctx context.Context, in io.Reader, out *report.Printer, defaultInput, defaultOutput string) (string, string, error) {
	done := make(chan folderAnswers, 1)
	go func() {
		input, output, err := askFolders(in, out, defaultInput, defaultOutput)
		done <- folderAnswers{input: input, output: output, err: err}
	}()

	select {
	case a := <-done:
		return a.input, a.output, a.err
	case <-ctx.Done():
		out.Cancelled()
		return "", "", errCancelled
	}
}

// askFolders prompts for the input folder and output folder name. Empty
// answers, or end of input, take the defaults.
func askFolders(in io.Reader, out *report.Printer, defaultInput, defaultOutput string) (string, string, error) {
	sc := bufio.NewScanner(in)

	out.Prompt("Please specify your folders:")
	input, err := ask(sc, out, fmt.Sprintf("Enter folder with HEIC photos [default: %s]: ", defaultInput), defaultInput)
	if err != nil {
		return "", "", err
	}
	output, err := ask(sc, out, fmt.Sprintf("Name for the output folder [default: %s]: ", defaultOutput), defaultOutput)
	if err != nil {
		return "", "", err
	}
	return input, output, nil
}

func ask(sc *bufio.Scanner, out *report.Printer, question, def string) (string, error) {
	out.Ask(question)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		return def, nil
	}
	if answer := strings.TrimSpace(sc.Text()); answer != "" {
		return answer, nil
	}
	return def, nil
}
