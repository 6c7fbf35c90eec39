package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdlite/internal/logging"
)

// Runner processes many files concurrently with one Processor.
type Runner struct {
	// Processor handles per-file parsing, rendering and writing.
	Processor *Processor
}

// New creates a new Runner with the given processor.
func New(processor *Processor) *Runner {
	return &Runner{Processor: processor}
}

// Run discovers files under opts.Paths and processes them concurrently.
// Outcomes are returned in path order regardless of completion order.
// A failing file is recorded in its outcome and does not stop the run;
// only cancellation does.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	process := opts.Process
	if process.BaseDir == "" {
		if process.BaseDir, err = resolveWorkDir(opts.WorkingDir); err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
	}

	jobs := min(jobCount(opts.Jobs), len(files))
	logger.Debug("starting workers", logging.FieldJobs, jobs)

	// Each goroutine owns one slot, so no locking is needed.
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.process(logging.With(groupCtx, logging.FieldPath, path), path, process)
			done[i] = true
			return nil
		})
	}

	// Workers never fail the group; the only error is cancellation, which
	// is reported from ctx below.
	_ = group.Wait()

	for i := range outcomes {
		if done[i] {
			result.accumulate(outcomes[i])
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) process(ctx context.Context, path string, opts ProcessOptions) FileOutcome {
	outcome := FileOutcome{Path: path}
	outcome.Result, outcome.Error = r.Processor.ProcessFile(ctx, path, opts)
	if outcome.Error != nil {
		logging.FromContext(ctx).Debug("file failed", logging.FieldError, outcome.Error)
	}
	return outcome
}

// jobCount resolves the worker limit; zero or negative means one per CPU.
func jobCount(jobs int) int {
	if jobs <= 0 {
		return runtime.NumCPU()
	}
	return jobs
}
