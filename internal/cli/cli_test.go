package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yaklabco/mdlite/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test-version",
		Commit:  "test-commit",
		Date:    "test-date",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "mdlite" {
		t.Errorf("expected Use to be 'mdlite', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"render", "fmt", "rules", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}

		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		flags   []string
	}{
		{
			command: "render",
			flags: []string{
				"format", "out-dir", "watch", "debounce", "jobs", "ignore", "report", "verbose", "no-context",
				"max-heading-depth", "no-nested-links",
				"pedantic", "sanitize", "smartypants", "breaks", "mangle", "xhtml",
				"export-source-info", "detect-language", "header-prefix", "lang-prefix", "max-extract-count",
			},
		},
		{
			command: "fmt",
			flags:   []string{"write", "diff", "check", "backup", "jobs", "ignore", "report", "verbose"},
		},
		{
			command: "rules",
			flags:   []string{"format", "no-gfm", "pedantic"},
		},
		{
			command: "init",
			flags:   []string{"force", "full", "format", "output"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			subCmd, _, err := cmd.Find([]string{tt.command})
			if err != nil {
				t.Fatalf("%s command not found: %v", tt.command, err)
			}

			for _, name := range tt.flags {
				if subCmd.Flags().Lookup(name) == nil {
					t.Errorf("expected flag %q on %s", name, tt.command)
				}
			}
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"debug", "config", "no-config", "color"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag %q", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	for _, want := range []string{"mdlite", "test-version", "test-commit", "test-date"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected version output to contain %q, got %q", want, out.String())
		}
	}
}

func TestVersionCommand_Short(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--short"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version --short failed: %v", err)
	}
	if got := out.String(); got != "test-version\n" {
		t.Errorf("version --short = %q, want %q", got, "test-version\n")
	}
}

func TestHelpListsEnvironment(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	help := out.String()
	for _, want := range []string{"Environment:", "MDLITE_", "render", "fmt"} {
		if !strings.Contains(help, want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "failed files", err: cli.ErrFilesFailed, want: cli.ExitFailures},
		{name: "needs formatting", err: cli.ErrNeedsFormatting, want: cli.ExitFailures},
		{name: "wrapped usage", err: fmt.Errorf("%w: bad flag", cli.ErrUsage), want: cli.ExitInvalidUsage},
		{name: "config", err: fmt.Errorf("%w: bad key", cli.ErrConfig), want: cli.ExitConfigError},
		{name: "io", err: fmt.Errorf("%w: read stdin", cli.ErrIO), want: cli.ExitIOError},
		{name: "anything else", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsReported(t *testing.T) {
	t.Parallel()

	if !cli.IsReported(cli.ErrFilesFailed) || !cli.IsReported(cli.ErrNeedsFormatting) {
		t.Error("outcome errors should count as reported")
	}
	if cli.IsReported(cli.ErrUsage) {
		t.Error("usage errors are not reported by the reporter")
	}
}
