// Package reporter writes per-file outcome reports for render and format
// runs.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result. It returns the
	// number of files needing attention (failed, or left unformatted in a
	// format run) and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = config.ReportText
	}

	switch format {
	case config.ReportText:
		return NewTextReporter(opts), nil
	case config.ReportTable:
		return NewTableReporter(opts), nil
	case config.ReportJSON:
		return NewJSONReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}
