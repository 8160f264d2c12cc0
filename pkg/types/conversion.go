// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionTask identifies one source file to convert. Tasks are built by
// the pipeline for every enumerated file and are never modified afterwards.
type ConversionTask struct {
	// SourcePath is the absolute path of the HEIC file.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// InputRoot is the resolved input directory the file was found under.
	InputRoot string `json:"input_root" yaml:"input_root"`

	// OutputRoot is the directory that mirrors InputRoot's layout for JPEGs.
	OutputRoot string `json:"output_root" yaml:"output_root"`
}

// ConversionOutcome is the result of converting a single file. Exactly one
// outcome exists per task.
type ConversionOutcome struct {
	// Success is true when the JPEG was fully written.
	Success bool `json:"success" yaml:"success"`

	// FileName is the source file's base name, used for display.
	FileName string `json:"file_name" yaml:"file_name"`

	// Error holds the failure text. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// SourcePath is the task's source file.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// OutputPath is the written JPEG. Empty on failure.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
}

// Succeeded builds a successful outcome for task.
func Succeeded(task ConversionTask, fileName, outputPath string) ConversionOutcome {
	return ConversionOutcome{
		Success:    true,
		FileName:   fileName,
		SourcePath: task.SourcePath,
		OutputPath: outputPath,
	}
}

// Failed builds a failed outcome for task carrying err's message.
func Failed(task ConversionTask, fileName string, err error) ConversionOutcome {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ConversionOutcome{
		FileName:   fileName,
		Error:      msg,
		SourcePath: task.SourcePath,
	}
}

// BatchSummary aggregates the outcomes of one batch run.
type BatchSummary struct {
	// TotalFound is the number of source files enumerated.
	TotalFound int `json:"total_found" yaml:"total_found"`

	// Converted counts successful outcomes.
	Converted int `json:"converted" yaml:"converted"`

	// Errors counts failed outcomes.
	Errors int `json:"errors" yaml:"errors"`

	// OutputDir is the resolved output root.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Failures lists the failed outcomes for reporting.
	Failures []ConversionOutcome `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Empty reports whether no source files were found.
func (s BatchSummary) Empty() bool {
	return s.TotalFound == 0
}

// HasFailures reports whether any file failed conversion.
func (s BatchSummary) HasFailures() bool {
	return s.Errors > 0
}
