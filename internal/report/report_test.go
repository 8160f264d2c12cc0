// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/heic-converter/pkg/types"
)

var task = types.ConversionTask{SourcePath: "/in/a.heic", InputRoot: "/in", OutputRoot: "/in/Out"}

func TestPrinterOutcome(t *testing.T) {
	tests := []struct {
		name    string
		outcome types.ConversionOutcome
		want    string
	}{
		{
			name:    "success",
			outcome: types.Succeeded(task, "a.heic", "/in/Out/a.jpg"),
			want:    "✓ Converted: a.heic\n",
		},
		{
			name:    "failure",
			outcome: types.Failed(task, "a.heic", errors.New("bad header")),
			want:    "✗ Error converting a.heic: bad header\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf, false).Outcome(tt.outcome)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinterSummary(t *testing.T) {
	tests := []struct {
		name        string
		summary     types.BatchSummary
		contains    []string
		notContains []string
	}{
		{
			name:        "all converted",
			summary:     types.BatchSummary{TotalFound: 2, Converted: 2, OutputDir: "/in/Out"},
			contains:    []string{"Conversion complete!", "✓ Successfully converted: 2", "Your converted images are in: /in/Out"},
			notContains: []string{"Files with errors", "Check error messages"},
		},
		{
			name:     "with failures",
			summary:  types.BatchSummary{TotalFound: 3, Converted: 2, Errors: 1, OutputDir: "/in/Out"},
			contains: []string{"✗ Files with errors: 1", "Check error messages above for problematic files"},
		},
		{
			name:        "nothing found",
			summary:     types.BatchSummary{OutputDir: "/in/Out"},
			contains:    []string{"No HEIC files found in the directory."},
			notContains: []string{"Conversion complete!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf, false).Summary(tt.summary)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestPrinterFound(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	p.Found(0)
	assert.Empty(t, buf.String())
	p.Found(7)
	assert.Equal(t, "Found 7 HEIC files to convert...\n", buf.String())
}

func TestPrinterColor(t *testing.T) {
	var plain, colored bytes.Buffer
	NewPrinter(&plain, false).Cancelled()
	NewPrinter(&colored, true).Cancelled()

	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[33m")
	assert.Contains(t, plain.String(), "Conversion cancelled by user.")
}

func TestPrinterConcurrentLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Outcome(types.Succeeded(task, "a.heic", "/in/Out/a.jpg"))
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 50)
	for _, l := range lines {
		assert.Equal(t, "✓ Converted: a.heic", l)
	}
}

func TestColorEnabled(t *testing.T) {
	assert.True(t, ColorEnabled(types.ColorAlways, nil))
	assert.False(t, ColorEnabled(types.ColorNever, os.Stdout))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, ColorEnabled(types.ColorAuto, f), "regular file is not a terminal")

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(types.ColorAuto, os.Stdout))
}

func TestWriteYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	outcomes := []types.ConversionOutcome{
		types.Succeeded(task, "a.heic", "/in/Out/a.jpg"),
		types.Failed(task, "b.heic", errors.New("truncated")),
	}
	summary := types.BatchSummary{TotalFound: 2, Converted: 1, Errors: 1, OutputDir: "/in/Out"}
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r := NewReport("/in", "wasm", 4, started, 1500*time.Millisecond, summary, outcomes)
	require.NoError(t, WriteYAML(fsys, "/reports/run.yaml", r))

	data, err := afero.ReadFile(fsys, "/reports/run.yaml")
	require.NoError(t, err)

	var got Report
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, int64(1500), got.DurationMS)
	assert.Equal(t, 1, got.Summary.Errors)
	require.Len(t, got.Outcomes, 2)
	assert.Equal(t, "truncated", got.Outcomes[1].Error)
	assert.Contains(t, string(data), "output_path: /in/Out/a.jpg")
}

func TestNewReport_NoOutcomes(t *testing.T) {
	r := NewReport("/in", "wasm", 1, time.Now(), 0, types.BatchSummary{}, nil)
	assert.NotNil(t, r.Outcomes)
}
