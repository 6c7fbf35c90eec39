package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/runner"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stderr, since
	// rendered documents may go to stdout).
	Writer io.Writer

	// Format specifies the report format.
	Format config.ReportFormat

	// Mode is the kind of run being reported.
	Mode runner.Mode

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowContext includes the offending source line under each problem.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Verbose lists every file, not only failed, changed or written ones.
	Verbose bool

	// Compact uses minified JSON.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stderr,
		Format:      config.ReportText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
	}
}

// displayPath makes path relative to workingDir when that does not climb
// out of it.
func displayPath(path, workingDir string) string {
	if workingDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workingDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// needsAttention counts failed files and, when formatting, files left
// unformatted.
func needsAttention(result *runner.Result, mode runner.Mode) int {
	if result == nil {
		return 0
	}
	n := result.Stats.FilesErrored
	if mode == runner.ModeFormat {
		for _, f := range result.Files {
			if f.Result != nil && f.Result.Changed && !f.Result.Written {
				n++
			}
		}
	}
	return n
}
