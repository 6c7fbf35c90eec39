package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/mdlite/internal/ui/pretty"
	"github.com/yaklabco/mdlite/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path       string        `json:"path"`
	Status     string        `json:"status"`
	Tokens     int           `json:"tokens"`
	OutputPath string        `json:"outputPath,omitempty"`
	Changed    bool          `json:"changed,omitempty"`
	Written    bool          `json:"written,omitempty"`
	Additions  int           `json:"additions,omitempty"`
	Deletions  int           `json:"deletions,omitempty"`
	Error      string        `json:"error,omitempty"`
	Problems   []JSONProblem `json:"problems,omitempty"`
}

// JSONProblem is one located failure.
type JSONProblem struct {
	Line    int    `json:"line,omitempty"`
	EndLine int    `json:"end_line,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesProcessed  int `json:"filesProcessed"`
	FilesErrored    int `json:"filesErrored"`
	FilesSkipped    int `json:"filesSkipped"`
	FilesChanged    int `json:"filesChanged"`
	FilesWritten    int `json:"filesWritten"`
	Tokens          int `json:"tokens"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(r.buildOutput(result)); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return needsAttention(result, r.opts.Mode), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)
		entry := JSONFileResult{Path: path, Status: file.Status()}

		if file.Error != nil {
			entry.Error = file.Error.Error()
			for _, p := range pretty.Problems(path, file.Error) {
				entry.Problems = append(entry.Problems, JSONProblem{
					Line:    p.Line,
					EndLine: p.EndLine,
					Stage:   p.Stage,
					Message: p.Message,
				})
			}
		}

		if fr := file.Result; fr != nil {
			entry.Tokens = fr.Tokens
			entry.Changed = fr.Changed
			entry.Written = fr.Written
			if fr.OutputPath != "" {
				entry.OutputPath = displayPath(fr.OutputPath, r.opts.WorkingDir)
			}
			if fr.Diff != nil {
				entry.Additions = fr.Diff.Additions
				entry.Deletions = fr.Diff.Deletions
			}
		}

		output.Files = append(output.Files, entry)
	}

	s := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered: s.FilesDiscovered,
		FilesProcessed:  s.FilesProcessed,
		FilesErrored:    s.FilesErrored,
		FilesSkipped:    s.FilesSkipped,
		FilesChanged:    s.FilesChanged,
		FilesWritten:    s.FilesWritten,
		Tokens:          s.Tokens,
	}

	return output
}
