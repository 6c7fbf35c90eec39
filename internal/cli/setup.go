package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/mdlite/internal/configloader"
	"github.com/yaklabco/mdlite/internal/logging"
	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/engine"
	"github.com/yaklabco/mdlite/pkg/reporter"
	"github.com/yaklabco/mdlite/pkg/runner"
)

// stdinName labels content read from standard input.
const stdinName = "<stdin>"

// runFlags are shared by render and fmt.
type runFlags struct {
	ignore          []string
	verbose         bool
	noContext       bool
	maxHeadingDepth int
	noNestedLinks   bool
}

// addRunFlags binds the flags shared by render and fmt.
func addRunFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlags) {
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringVar((*string)(&cfg.Report), "report", "", "report format: text, table, json (default text)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "report every file, not only problems")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in problems")
	cmd.Flags().IntVar(&flags.maxHeadingDepth, "max-heading-depth", 0,
		"fail documents with headings deeper than this (0 = no limit)")
	cmd.Flags().BoolVar(&flags.noNestedLinks, "no-nested-links", false, "fail documents with links inside links")
}

// addEngineFlags binds flags that switch engine options on. Options that
// default to on are turned off in a config file or with MDLITE_* variables.
func addEngineFlags(cmd *cobra.Command, opts *config.Options) {
	fs := cmd.Flags()
	fs.BoolVar(&opts.Pedantic, "pedantic", false, "follow markdown.pl quirks")
	fs.BoolVar(&opts.Sanitize, "sanitize", false, "drop unsafe links and filter raw HTML")
	fs.BoolVar(&opts.SmartyPants, "smartypants", false, "use typographic quotes, dashes and ellipses")
	fs.BoolVar(&opts.Breaks, "breaks", false, "turn single newlines into <br>")
	fs.BoolVar(&opts.Mangle, "mangle", false, "obfuscate email autolinks")
	fs.BoolVar(&opts.XHTML, "xhtml", false, "emit self-closing void tags")
	fs.BoolVar(&opts.ShouldExportSourceInfo, "export-source-info", false,
		"add source file and line attributes to rendered blocks")
	fs.BoolVar(&opts.DetectLanguage, "detect-language", false, "guess the language of unlabeled fenced code")
	fs.StringVar(&opts.HeaderPrefix, "header-prefix", "", "prefix for generated heading ids")
	fs.StringVar(&opts.LangPrefix, "lang-prefix", "", "prefix for code block language classes")
	fs.IntVar(&opts.MaxExtractCount, "max-extract-count", 0, "maximum passes resolving deferred tokens")
}

// checkRunFlags rejects flag values the config loader would otherwise
// report as configuration errors.
func checkRunFlags(cfg *config.Config) error {
	if cfg.Report == "" {
		return nil
	}
	if _, err := config.ParseReportFormat(string(cfg.Report)); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}

// commandContext returns the command's context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the configuration with cliCfg on top and returns it
// with the working directory it was resolved from.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	// Persistent flags of the root command.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}
	noConfig, err := cmd.Flags().GetBool("no-config")
	if err != nil {
		return nil, "", fmt.Errorf("get no-config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:          workDir,
		ExplicitPath:        configPath,
		IgnoreUserConfig:    noConfig,
		IgnoreProjectConfig: noConfig,
		CLIConfig:           cliCfg,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfigFiles, loadResult.LoadedFrom)
	}

	return loadResult.Config, workDir, nil
}

// newEngine builds the engine for cfg with the validators flags ask for.
func newEngine(ctx context.Context, cfg *config.Config, flags *runFlags) *engine.Engine {
	var validators []engine.Validator
	if flags.maxHeadingDepth > 0 {
		validators = append(validators, engine.HeadingDepth(flags.maxHeadingDepth))
	}
	if flags.noNestedLinks {
		validators = append(validators, engine.NoNestedLinks())
	}

	return engine.New(cfg.Markdown,
		engine.WithLogger(logging.FromContext(ctx)),
		engine.WithValidators(validators...),
	)
}

// newReporter builds the outcome reporter writing to w in the report
// format of cfg.
func newReporter(cmd *cobra.Command, w io.Writer, cfg *config.Config, mode runner.Mode, workDir string,
	flags *runFlags, showSummary bool,
) (reporter.Reporter, error) {
	format, err := config.ParseReportFormat(string(cfg.Report))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      w,
		Format:      format,
		Mode:        mode,
		Color:       colorFlag(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: showSummary || flags.verbose,
		Verbose:     flags.verbose,
		WorkingDir:  workDir,
	})
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}
	return rep, nil
}

// colorFlag returns the --color mode.
func colorFlag(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return "auto"
	}
	return mode
}

// useStdin reports whether the command should read standard input: the
// single path "-", or no paths while input is piped in.
func useStdin(cmd *cobra.Command, args []string) bool {
	if len(args) == 1 && args[0] == "-" {
		return true
	}
	if len(args) > 0 {
		return false
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		return !term.IsTerminal(int(f.Fd()))
	}
	return true
}

// readStdin reads all of standard input.
func readStdin(cmd *cobra.Command) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(cmd.InOrStdin()); err != nil {
		return nil, fmt.Errorf("%w: read stdin: %w", ErrIO, err)
	}
	return buf.Bytes(), nil
}

// processStdin processes standard input as one document and returns a
// single-file result, so it can be reported like a run.
func processStdin(cmd *cobra.Command, proc *runner.Processor, opts runner.ProcessOptions) (*runner.Result, error) {
	content, err := readStdin(cmd)
	if err != nil {
		return nil, err
	}

	fr, err := proc.ProcessContent(commandContext(cmd), stdinName, content, opts)
	outcome := runner.FileOutcome{Path: stdinName, Result: fr, Error: err}

	result := &runner.Result{Files: []runner.FileOutcome{outcome}}
	result.Stats.FilesDiscovered = 1
	switch {
	case err != nil:
		result.Stats.FilesErrored = 1
	default:
		result.Stats.FilesProcessed = 1
		result.Stats.Tokens = fr.Tokens
		if fr.Changed {
			result.Stats.FilesChanged = 1
		}
	}
	return result, nil
}

// writeOutputs writes the rendered output of every processed file to w in
// result order.
func writeOutputs(w io.Writer, result *runner.Result) error {
	for _, file := range result.Files {
		if file.Result == nil {
			continue
		}
		if _, err := w.Write(file.Result.Output); err != nil {
			return fmt.Errorf("%w: write output: %w", ErrIO, err)
		}
	}
	return nil
}

// logRun writes the run statistics at debug level.
func logRun(ctx context.Context, msg string, result *runner.Result) {
	s := result.Stats
	logging.FromContext(ctx).Debug(msg,
		logging.FieldFilesDiscovered, s.FilesDiscovered,
		logging.FieldFilesRendered, s.FilesProcessed,
		logging.FieldFilesFailed, s.FilesErrored,
		logging.FieldFilesChanged, s.FilesChanged,
		logging.FieldFilesWritten, s.FilesWritten,
		logging.FieldTokens, s.Tokens,
	)
}
