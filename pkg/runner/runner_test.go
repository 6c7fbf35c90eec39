package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/engine"
	"github.com/yaklabco/mdlite/pkg/parser"
	"github.com/yaklabco/mdlite/pkg/runner"
)

func newRunner() *runner.Runner {
	return runner.New(runner.NewProcessor(engine.New(config.DefaultOptions())))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.FilesDiscovered != 0 || len(result.Files) != 0 {
		t.Errorf("expected no files, got %+v", result.Stats)
	}
}

func TestRunner_Run_RenderHTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\n")
	writeFile(t, filepath.Join(dir, "sub", "b.md"), "*b*\n")

	opts := runner.Options{
		WorkingDir: dir,
		Process:    runner.ProcessOptions{Format: config.FormatHTML},
	}
	result, err := newRunner().Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesProcessed != 2 {
		t.Fatalf("FilesProcessed = %d, want 2", result.Stats.FilesProcessed)
	}
	if got := string(result.Files[0].Result.Output); got != "<h1 id=\"a\">A</h1>\n" {
		t.Errorf("a.md output = %q", got)
	}
	if got := string(result.Files[1].Result.Output); got != "<p><em>b</em></p>\n" {
		t.Errorf("sub/b.md output = %q", got)
	}
	if result.Stats.Tokens == 0 {
		t.Error("expected token count")
	}
}

func TestRunner_Run_OutDirMirrorsTree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(dir, "docs", "guide.md"), "text\n")

	opts := runner.Options{
		WorkingDir: dir,
		Process:    runner.ProcessOptions{Format: config.FormatJSON, OutDir: out},
	}
	result, err := newRunner().Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := filepath.Join(out, "docs", "guide.json")
	fr := result.Files[0].Result
	if fr.OutputPath != want || !fr.Written {
		t.Fatalf("expected written %s, got %+v", want, fr)
	}
	content, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(content), `"name": "paragraph"`) {
		t.Errorf("unexpected JSON output:\n%s", content)
	}
	if result.Stats.FilesWritten != 1 {
		t.Errorf("FilesWritten = %d, want 1", result.Stats.FilesWritten)
	}
}

func TestRunner_Run_FormatCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "clean.md"), "# Clean\n")
	dirty := filepath.Join(dir, "dirty.md")
	writeFile(t, dirty, "Dirty\n=====\n")

	opts := runner.Options{
		WorkingDir: dir,
		Process:    runner.ProcessOptions{Mode: runner.ModeFormat, Diff: true},
	}
	result, err := newRunner().Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.HasChanges() || result.Stats.FilesChanged != 1 {
		t.Fatalf("expected one changed file, got %+v", result.Stats)
	}
	fr := result.Files[1].Result
	if fr.Path != dirty || !fr.Changed || fr.Written {
		t.Errorf("unexpected dirty result %+v", fr)
	}
	if fr.Diff == nil || !strings.Contains(fr.Diff.String(), "+# Dirty") {
		t.Errorf("expected diff adding the ATX heading, got %v", fr.Diff)
	}
	if result.Files[0].Result.Changed {
		t.Error("clean.md should not change")
	}

	content, _ := os.ReadFile(dirty)
	if string(content) != "Dirty\n=====\n" {
		t.Error("check mode must not write")
	}
}

func TestRunner_Run_FormatWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	writeFile(t, path, "Title\n=====\n\n* a\n* b\n")

	opts := runner.Options{
		WorkingDir: dir,
		Process: runner.ProcessOptions{
			Mode:                runner.ModeFormat,
			Write:               true,
			Backup:              runner.ProcessOptionsFromConfig(&config.Config{Backup: true}, runner.ModeFormat).Backup,
			StrictRaceDetection: true,
		},
	}
	result, err := newRunner().Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	fr := result.Files[0].Result
	if !fr.Written || !fr.BackupCreated {
		t.Fatalf("expected written with backup, got %s", fr.Summary())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "# Title\n\n- a\n- b\n" {
		t.Errorf("formatted content = %q", content)
	}
	if _, err := os.Stat(path + ".mdlite.bak"); err != nil {
		t.Errorf("expected backup: %v", err)
	}

	// A second run finds nothing to do.
	again, err := newRunner().Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if again.HasChanges() {
		t.Error("formatted output should be stable")
	}
}

func TestRunner_Run_FailuresDoNotStopRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\n")
	writeFile(t, filepath.Join(dir, "b.md"), "plain text\n")

	// Without paragraph and text rules, plain text cannot be tokenized.
	block := parser.NewBlockRules(config.DefaultOptions())
	for _, name := range []string{parser.RuleParagraph, parser.RuleText} {
		if err := block.Remove(name); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	r := runner.New(runner.NewProcessor(engine.New(config.DefaultOptions(), engine.WithBlockRules(block))))

	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.HasFailures() || result.Stats.FilesErrored != 1 || result.Stats.FilesProcessed != 1 {
		t.Fatalf("unexpected stats %+v", result.Stats)
	}
	failed := result.Files[1]
	if !errors.Is(failed.Error, runner.ErrParseFailure) || !errors.Is(failed.Error, parser.ErrNoRuleMatched) {
		t.Errorf("expected parse failure, got %v", failed.Error)
	}
	if !runner.IsProcessingError(failed.Error) {
		t.Error("expected a processing error")
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := range 20 {
		writeFile(t, filepath.Join(dir, fmt.Sprintf("doc%02d.md", i)),
			fmt.Sprintf("# Doc %d\n\nSee [ref].\n\n[ref]: http://x.com/%d\n", i, i))
	}

	run := func(jobs int) *runner.Result {
		result, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: jobs})
		if err != nil {
			t.Fatalf("Run(jobs=%d) error = %v", jobs, err)
		}
		return result
	}

	serial := run(1)
	parallel := run(8)

	if len(serial.Files) != len(parallel.Files) {
		t.Fatalf("file counts differ: %d vs %d", len(serial.Files), len(parallel.Files))
	}
	for i := range serial.Files {
		s, p := serial.Files[i], parallel.Files[i]
		if s.Path != p.Path {
			t.Errorf("order differs at %d: %s vs %s", i, s.Path, p.Path)
		}
		if string(s.Result.Output) != string(p.Result.Output) {
			t.Errorf("output differs for %s", s.Path)
		}
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newRunner().Run(ctx, runner.Options{WorkingDir: dir}); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestProcessFile_NotFound(t *testing.T) {
	t.Parallel()

	p := runner.NewProcessor(engine.New(config.DefaultOptions()))
	_, err := p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.md"), runner.ProcessOptions{})
	if !errors.Is(err, runner.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		path   string
		base   string
		format config.OutputFormat
		want   string
	}{
		{name: "nested", path: "/src/docs/a.md", base: "/src", format: config.FormatHTML, want: "/out/docs/a.html"},
		{name: "outside base", path: "/elsewhere/b.markdown", base: "/src", format: config.FormatJSON, want: "/out/b.json"},
		{name: "no base", path: "/src/c.md", format: config.FormatMarkdown, want: "/out/c.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runner.OutputPath(filepath.FromSlash(tt.path), filepath.FromSlash(tt.base), filepath.FromSlash("/out"), tt.format)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileResult_Summary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		result runner.FileResult
		want   string
	}{
		{result: runner.FileResult{}, want: "ok"},
		{result: runner.FileResult{Changed: true}, want: "needs formatting"},
		{result: runner.FileResult{Changed: true, Written: true}, want: "written"},
		{result: runner.FileResult{Written: true, BackupCreated: true}, want: "written (backup created)"},
		{result: runner.FileResult{Skipped: true, SkipReason: "busy"}, want: "skipped: busy"},
	}

	for _, tt := range tests {
		if got := tt.result.Summary(); got != tt.want {
			t.Errorf("Summary() = %q, want %q", got, tt.want)
		}
	}
}

func TestResult_NilSafe(t *testing.T) {
	t.Parallel()

	var result *runner.Result
	if result.HasFailures() || result.HasChanges() {
		t.Error("nil result should report nothing")
	}
}
