package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlite/internal/logging"
	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/reporter"
	"github.com/yaklabco/mdlite/pkg/runner"
)

func newFmtCommand() *cobra.Command {
	var cfg config.Config
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Normalize Markdown by rendering it back to Markdown",
		Long:  fmtLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().BoolVarP(&cfg.Write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVarP(&cfg.Diff, "diff", "d", false, "print a unified diff instead of the formatted documents")
	cmd.Flags().BoolVarP(&cfg.Check, "check", "c", false, "exit with status 1 if any file needs formatting")
	cmd.Flags().BoolVar(&cfg.Backup, "backup", false, "keep a .mdlite.bak copy of every rewritten file")
	addRunFlags(cmd, &cfg, flags)

	return cmd
}

const fmtLongDescription = `Format Markdown documents.

Each document is parsed and rendered back to Markdown: setext headings
become ATX headings, bullets become "-", and blank lines are normalized.
Running fmt on its own output changes nothing.

By default the formatted documents are written to standard output. With no
paths and piped input, or with the single path "-", standard input is
formatted.

Examples:
  mdlite fmt README.md          # formatted document to stdout
  mdlite fmt -d docs            # show what would change
  mdlite fmt -w docs            # rewrite files in place
  mdlite fmt -c .               # fail CI when a file is not formatted
  mdlite fmt -w --backup docs   # keep a copy of every rewritten file`

func runFmt(cmd *cobra.Command, args []string, cfg *config.Config, flags *runFlags) error {
	ctx := commandContext(cmd)

	cfg.Ignore = flags.ignore
	if err := checkRunFlags(cfg); err != nil {
		return err
	}
	if cfg.Backup && !cfg.Write {
		return fmt.Errorf("%w: --backup requires --write", ErrUsage)
	}

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	stdin := useStdin(cmd, args)
	if stdin && finalCfg.Write {
		return fmt.Errorf("%w: --write cannot be used with standard input", ErrUsage)
	}

	stdout := cmd.OutOrStdout()
	// Documents go to stdout unless they are written back, checked or
	// replaced by their diff.
	printDocs := !finalCfg.Write && !finalCfg.Check && !finalCfg.Diff

	reportTo := cmd.ErrOrStderr()
	if !printDocs && !finalCfg.Diff {
		reportTo = stdout
	}
	rep, err := newReporter(cmd, reportTo, finalCfg, runner.ModeFormat, workDir, flags, !printDocs && !finalCfg.Diff)
	if err != nil {
		return err
	}

	proc := runner.NewProcessor(newEngine(ctx, finalCfg, flags))

	var result *runner.Result
	if stdin {
		result, err = processStdin(cmd, proc, runner.ProcessOptionsFromConfig(finalCfg, runner.ModeFormat))
	} else {
		runOpts := runner.OptionsFromConfig(finalCfg, runner.ModeFormat, args)
		runOpts.WorkingDir = workDir

		logging.FromContext(ctx).Debug("starting fmt",
			logging.FieldPaths, runOpts.Paths,
			logging.FieldWorkingDir, workDir,
			logging.FieldJobs, runOpts.Jobs,
		)
		result, err = runner.New(proc).Run(ctx, runOpts)
	}
	if err != nil {
		return fmt.Errorf("fmt: %w", err)
	}
	logRun(ctx, "fmt finished", result)

	switch {
	case printDocs:
		if err := writeOutputs(stdout, result); err != nil {
			return err
		}
	case finalCfg.Diff:
		diffRep := reporter.NewDiffReporter(reporter.Options{
			Writer:      stdout,
			Color:       colorFlag(cmd),
			ShowSummary: !stdin,
			WorkingDir:  workDir,
		})
		if _, err := diffRep.Report(ctx, withoutFailures(result)); err != nil {
			return fmt.Errorf("report diff: %w", err)
		}
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return resultError(result, finalCfg.Check && !finalCfg.Write)
}

// withoutFailures drops failed files, which the outcome report covers.
func withoutFailures(result *runner.Result) *runner.Result {
	out := &runner.Result{Stats: result.Stats}
	for _, f := range result.Files {
		if f.Error == nil {
			out.Files = append(out.Files, f)
		}
	}
	return out
}
