// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders batch progress and summaries for people and
// exports them for tools.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/pdiddy/heic-converter/pkg/types"
)

const (
	ruleWidth   = 50
	bannerWidth = 60
)

// ColorEnabled decides whether output to f is colored. ColorAuto colors only
// terminals and honors NO_COLOR.
func ColorEnabled(mode types.ColorMode, f *os.File) bool {
	switch mode {
	case types.ColorAlways:
		return true
	case types.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer writes status lines to w. Its methods may be called from several
// goroutines; each line is written whole.
type Printer struct {
	mu sync.Mutex
	w  io.Writer

	info, ok, fail, warn *color.Color
}

// NewPrinter returns a Printer writing to w, colored only when useColor is
// set. The setting is per printer and never changes the color package's
// global state.
func NewPrinter(w io.Writer, useColor bool) *Printer {
	p := &Printer{
		w:    w,
		info: color.New(color.FgBlue),
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed),
		warn: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.info, p.ok, p.fail, p.warn} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) line(c *color.Color, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c == nil {
		fmt.Fprintf(p.w, format+"\n", args...)
		return
	}
	c.Fprintf(p.w, format, args...)
	fmt.Fprintln(p.w)
}

// Banner prints the program header shown in interactive mode.
func (p *Printer) Banner() {
	p.line(nil, "\n%s", strings.Repeat("=", bannerWidth))
	p.line(p.info, "  HEIC to JPEG Photo Converter")
	p.line(nil, "%s", strings.Repeat("=", bannerWidth))
	p.line(nil, "This tool converts Apple HEIC photos to standard JPEG format\nwhile preserving the highest possible quality.\n")
}

// Prompt prints a section heading before interactive questions.
func (p *Printer) Prompt(text string) {
	p.line(p.warn, "%s", text)
}

// Found reports how many source files were enumerated.
func (p *Printer) Found(n int) {
	if n == 0 {
		return
	}
	p.line(p.info, "Found %d HEIC files to convert...", n)
}

// Outcome prints one per-file result line.
func (p *Printer) Outcome(o types.ConversionOutcome) {
	if o.Success {
		p.line(p.ok, "✓ Converted: %s", o.FileName)
		return
	}
	p.line(p.fail, "✗ Error converting %s: %s", o.FileName, o.Error)
}

// Summary prints the final report block, or a notice when nothing was found.
func (p *Printer) Summary(s types.BatchSummary) {
	if s.Empty() {
		p.line(p.warn, "No HEIC files found in the directory.")
		return
	}

	p.line(nil, "\n%s", strings.Repeat("-", ruleWidth))
	p.line(p.info, "Conversion complete!")
	p.line(p.ok, "✓ Successfully converted: %d", s.Converted)
	if s.HasFailures() {
		p.line(p.fail, "✗ Files with errors: %d", s.Errors)
		p.line(p.warn, "\nCheck error messages above for problematic files")
	}
	p.line(p.info, "\nYour converted images are in: %s", s.OutputDir)
	p.line(nil, "%s", strings.Repeat("-", ruleWidth))
}

// Cancelled prints the interrupt notice.
func (p *Printer) Cancelled() {
	p.line(p.warn, "\n\nConversion cancelled by user.")
}

// Ask prints an interactive question without a trailing newline.
func (p *Printer) Ask(question string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, question)
}

// Info prints a plain informational line.
func (p *Printer) Info(format string, args ...any) {
	p.line(nil, format, args...)
}
