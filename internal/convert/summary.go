// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "github.com/pdiddy/heic-converter/pkg/types"

// Summarize counts successes and failures. It does not touch the filesystem.
func Summarize(outcomes []types.ConversionOutcome, outputDir string) types.BatchSummary {
	summary := types.BatchSummary{
		TotalFound: len(outcomes),
		OutputDir:  outputDir,
	}
	for _, o := range outcomes {
		if o.Success {
			summary.Converted++
			continue
		}
		summary.Errors++
		summary.Failures = append(summary.Failures, o)
	}
	return summary
}
