package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdlite/internal/ui/pretty"
	"github.com/yaklabco/mdlite/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No Markdown files found."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			problems := pretty.Problems(path, file.Error)
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(problems)))
			for _, p := range problems {
				fmt.Fprint(r.bw, r.styles.FormatProblem(p, r.opts.ShowContext))
			}
			fmt.Fprintln(r.bw)
			continue
		}

		if line := r.outcomeLine(path, file.Result); line != "" {
			fmt.Fprintln(r.bw, line)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.Mode))
	}

	return needsAttention(result, r.opts.Mode), nil
}

// outcomeLine describes a successful file, or returns "" when there is
// nothing worth saying about it.
func (r *TextReporter) outcomeLine(path string, fr *runner.FileResult) string {
	if fr == nil {
		return ""
	}

	file := r.styles.FilePath.Render(path)
	switch {
	case fr.Skipped:
		return file + "  " + r.styles.Skipped.Render(fr.Summary())
	case fr.Written && fr.OutputPath != "":
		if !r.opts.Verbose {
			return ""
		}
		return file + r.styles.Dim.Render(" -> ") + displayPath(fr.OutputPath, r.opts.WorkingDir)
	case fr.Written:
		return file + "  " + r.styles.Written.Render(fr.Summary())
	case fr.Changed:
		return file + "  " + r.styles.Changed.Render(fr.Summary())
	case r.opts.Verbose:
		return file + "  " + r.styles.Dim.Render(fr.Summary())
	default:
		return ""
	}
}
