package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlite/internal/logging"
	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/reporter"
	"github.com/yaklabco/mdlite/pkg/runner"
	"github.com/yaklabco/mdlite/pkg/watch"
)

type renderFlags struct {
	runFlags
	format   string
	watch    bool
	debounce time.Duration
}

func newRenderCommand() *cobra.Command {
	var cfg config.Config
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render Markdown to HTML, JSON or Markdown",
		Long:  renderLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: html, json, markdown (default html)")
	cmd.Flags().StringVarP(&cfg.OutDir, "out-dir", "o", "", "write rendered files below this directory")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-render into --out-dir whenever sources change")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", watch.DefaultDebounce, "quiet period before a --watch re-render")
	addRunFlags(cmd, &cfg, &flags.runFlags)
	addEngineFlags(cmd, &cfg.Markdown)

	return cmd
}

const renderLongDescription = `Render Markdown documents.

With no paths and piped input, or with the single path "-", standard input
is rendered to standard output. Directories are searched for .md and
.markdown files.

Without --out-dir the rendered documents are written to standard output in
path order. With --out-dir each document is written to a file mirroring its
place in the input tree, with the extension of the output format.

--watch keeps running after the first render and renders again into
--out-dir whenever a source file changes, until interrupted.

Examples:
  mdlite render README.md                 # HTML to stdout
  cat notes.md | mdlite render            # stdin to stdout
  mdlite render -f json README.md         # JSON token tree
  mdlite render docs -o site              # docs/**/*.md -> site/**/*.html
  mdlite render docs -o site --watch      # re-render on every change
  mdlite render --sanitize untrusted.md   # filter raw HTML`

func runRender(cmd *cobra.Command, args []string, cfg *config.Config, flags *renderFlags) error {
	ctx := commandContext(cmd)

	if cmd.Flags().Changed("format") {
		format, err := config.ParseOutputFormat(flags.format)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cfg.Format = format
	}
	cfg.Ignore = flags.ignore
	if err := checkRunFlags(cfg); err != nil {
		return err
	}

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	toStdout := finalCfg.OutDir == ""
	if flags.watch && toStdout {
		return fmt.Errorf("%w: --watch requires --out-dir", ErrUsage)
	}

	// The report shares stdout only when documents are not printed there.
	reportTo := cmd.ErrOrStderr()
	if !toStdout {
		reportTo = stdout
	}
	rep, err := newReporter(cmd, reportTo, finalCfg, runner.ModeRender, workDir, &flags.runFlags, !toStdout)
	if err != nil {
		return err
	}

	proc := runner.NewProcessor(newEngine(ctx, finalCfg, &flags.runFlags))

	var result *runner.Result
	if useStdin(cmd, args) {
		if !toStdout {
			return fmt.Errorf("%w: --out-dir cannot be used with standard input", ErrUsage)
		}
		result, err = processStdin(cmd, proc, runner.ProcessOptionsFromConfig(finalCfg, runner.ModeRender))
	} else {
		runOpts := runner.OptionsFromConfig(finalCfg, runner.ModeRender, args)
		runOpts.WorkingDir = workDir

		logging.FromContext(ctx).Debug("starting render",
			logging.FieldPaths, runOpts.Paths,
			logging.FieldWorkingDir, workDir,
			logging.FieldFormat, string(finalCfg.Format),
			logging.FieldJobs, runOpts.Jobs,
		)
		if flags.watch {
			return watchRender(ctx, runner.New(proc), runOpts, rep, flags.debounce)
		}
		result, err = runner.New(proc).Run(ctx, runOpts)
	}
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	logRun(ctx, "render finished", result)

	if toStdout {
		if err := writeOutputs(stdout, result); err != nil {
			return err
		}
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return resultError(result, false)
}

// watchRender renders once and then again after every change below the
// input paths. Failed files are reported but do not end the watch.
func watchRender(ctx context.Context, run *runner.Runner, opts runner.Options, rep reporter.Reporter,
	debounce time.Duration,
) error {
	build := func(ctx context.Context) error {
		result, err := run.Run(ctx, opts)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		logRun(ctx, "render finished", result)
		if _, err := rep.Report(ctx, result); err != nil {
			return fmt.Errorf("report results: %w", err)
		}
		return nil
	}

	if err := build(ctx); err != nil {
		return err
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(opts.WorkingDir, p)
		}
		roots = append(roots, p)
	}

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = runner.DefaultExtensions()
	}

	err := watch.Run(ctx, watch.Options{
		Roots:      roots,
		Extensions: extensions,
		Skip:       []string{opts.Process.OutDir},
		Debounce:   debounce,
	}, build)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
