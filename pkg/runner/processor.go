package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/mdlite/internal/logging"
	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/engine"
	"github.com/yaklabco/mdlite/pkg/fsutil"
	"github.com/yaklabco/mdlite/pkg/textdiff"
)

// Mode selects what the processor does with a parsed document.
type Mode int

const (
	// ModeRender renders documents to the configured output format.
	ModeRender Mode = iota

	// ModeFormat renders documents back to normalized Markdown and
	// compares the result with the source.
	ModeFormat
)

// Processing error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates the document could not be parsed or rendered.
	ErrParseFailure = errors.New("parse failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// ProcessOptions controls per-file processing.
type ProcessOptions struct {
	// Mode selects rendering or formatting.
	Mode Mode

	// Format is the output format in ModeRender. ModeFormat always
	// produces Markdown.
	Format config.OutputFormat

	// OutDir receives rendered files in ModeRender, mirroring the input
	// tree below BaseDir. Empty keeps output in memory.
	OutDir string

	// BaseDir is the root the input tree is mirrored from. Files outside
	// it are written flat into OutDir.
	BaseDir string

	// Write rewrites changed files in place in ModeFormat.
	Write bool

	// Diff records a unified diff for changed files in ModeFormat.
	Diff bool

	// Backup keeps a sidecar copy of each file before rewriting it.
	Backup bool

	// StrictRaceDetection uses hash comparison for modification detection.
	// When false, only mod time and size are checked.
	StrictRaceDetection bool
}

// ProcessOptionsFromConfig builds ProcessOptions for mode from a config.
func ProcessOptionsFromConfig(cfg *config.Config, mode Mode) ProcessOptions {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return ProcessOptions{
		Mode:                mode,
		Format:              cfg.Format,
		OutDir:              cfg.OutDir,
		Write:               cfg.Write,
		Diff:                cfg.Diff,
		Backup:              cfg.Backup,
		StrictRaceDetection: true,
	}
}

// FileResult is the outcome of processing one document.
type FileResult struct {
	// Path is the file path that was processed.
	Path string

	// Format is the format Output is in.
	Format config.OutputFormat

	// Output is the rendered document.
	Output []byte

	// Tokens is the number of top-level tokens in the parsed document.
	Tokens int

	// OutputPath is where Output was written in ModeRender with OutDir.
	OutputPath string

	// Changed is true in ModeFormat when Output differs from the source.
	Changed bool

	// Diff is the unified diff of a changed file when requested.
	Diff *textdiff.Diff

	// Written is true if a file was written to disk.
	Written bool

	// BackupCreated is true if a backup was taken before writing.
	BackupCreated bool

	// Skipped is true if the file was left alone, e.g. because it changed
	// on disk while being processed.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string
}

// Summary returns a human-readable summary of the result.
func (fr *FileResult) Summary() string {
	switch {
	case fr.Skipped:
		return "skipped: " + fr.SkipReason
	case fr.Written && fr.BackupCreated:
		return "written (backup created)"
	case fr.Written:
		return "written"
	case fr.Changed:
		return "needs formatting"
	default:
		return "ok"
	}
}

// Processor parses and renders single documents with a shared engine.
type Processor struct {
	// Engine is shared by every worker; it is safe for concurrent use.
	Engine *engine.Engine
}

// NewProcessor creates a processor using e.
func NewProcessor(e *engine.Engine) *Processor {
	return &Processor{Engine: e}
}

// ProcessContent parses and renders in-memory content without writing
// anything. name labels the document in source positions and diffs.
func (p *Processor) ProcessContent(ctx context.Context, name string, content []byte, opts ProcessOptions) (*FileResult, error) {
	format := opts.Format
	if opts.Mode == ModeFormat {
		format = config.FormatMarkdown
	}

	doc, err := p.Engine.Parse(ctx, name, string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	r, err := p.Engine.Renderer(format)
	if err != nil {
		return nil, err
	}
	out, err := p.Engine.Render(doc, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	result := &FileResult{
		Path:   name,
		Format: format,
		Output: []byte(out),
		Tokens: len(doc.Tokens),
	}

	if opts.Mode == ModeFormat {
		result.Changed = out != string(content)
		if result.Changed && opts.Diff {
			result.Diff, err = textdiff.Generate(name, content, result.Output)
			if err != nil {
				return nil, err
			}
		}
	}

	logging.FromContext(ctx).Debug("processed",
		logging.FieldFormat, string(format),
		logging.FieldTokens, result.Tokens)

	return result, nil
}

// ProcessFile reads, parses and renders the file at path, then writes the
// result as opts asks:
//   - ModeRender with OutDir writes the rendered file below OutDir.
//   - ModeFormat with Write rewrites a changed file in place, after
//     checking it was not modified meanwhile and taking a backup if asked.
func (p *Processor) ProcessFile(ctx context.Context, path string, opts ProcessOptions) (*FileResult, error) {
	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.Mode == ModeRender && opts.OutDir != "":
		result.OutputPath = OutputPath(path, opts.BaseDir, opts.OutDir, result.Format)
		written, err := fsutil.WriteOutput(ctx, result.OutputPath, result.Output)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
		}
		result.Written = written

	case opts.Mode == ModeFormat && opts.Write && result.Changed:
		modified, err := p.checkModified(ctx, snap, opts.StrictRaceDetection)
		if err != nil {
			return nil, err
		}
		if modified {
			result.Skipped = true
			result.SkipReason = "file modified during processing"
			return result, nil
		}

		if opts.Backup {
			created, err := fsutil.CreateBackup(ctx, path)
			if err != nil {
				return nil, fmt.Errorf("create backup: %w", err)
			}
			result.BackupCreated = created
		}

		if err := fsutil.WriteAtomic(ctx, path, result.Output, snap.Mode); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
		}
		result.Written = true
	}

	return result, nil
}

// OutputPath maps an input file to its rendered location below outDir.
// The path relative to baseDir is kept and the extension replaced by the
// format's.
func OutputPath(path, baseDir, outDir string, format config.OutputFormat) string {
	rel := filepath.Base(path)
	if baseDir != "" {
		if r, err := filepath.Rel(baseDir, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + format.Extension()
	return filepath.Join(outDir, rel)
}

func (p *Processor) checkModified(ctx context.Context, snap *fsutil.Snapshot, strict bool) (bool, error) {
	modified, err := snap.Changed(ctx, strict)
	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError wraps an error with the matching processing error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsProcessingError checks if an error is a known processing error type.
func IsProcessingError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure)
}
