package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdlite/internal/configloader"
	"github.com/yaklabco/mdlite/internal/ui/pretty"
)

const helpTemplate = `{{with (or .Long .Short)}}{{trimRight .}}

{{end}}{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}{{end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}
{{- if .Aliases}}

{{heading "Aliases:"}}
  {{dim (join .Aliases ", ")}}{{end}}
{{- if .HasExample}}

{{heading "Examples:"}}
{{dim .Example}}{{end}}
{{- if .HasAvailableSubCommands}}

{{heading "Commands:"}}{{range .Commands}}{{if or .IsAvailableCommand (eq .Name "help")}}
  {{subcommand (pad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}{{end}}
{{- if not .HasParent}}

{{heading "Environment:"}}
{{env}}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{command (print .CommandPath " [command] --help")}}" for more information about a command.{{end}}
`

// helpStyles colors the parts of the help screen.
type helpStyles struct {
	heading    lipgloss.Style
	command    lipgloss.Style
	subcommand lipgloss.Style
	flag       lipgloss.Style
	dim        lipgloss.Style
}

func newHelpStyles(color bool) helpStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return helpStyles{plain, plain, plain, plain, plain}
	}
	return helpStyles{
		heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		command:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		subcommand: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders colored help and usage screens for the command
// tree. Color follows the --color flag of the command being described.
type HelpFormatter struct {
	colorMode string
}

// NewHelpFormatter creates a formatter. colorMode is the fallback used
// when the command has no --color flag.
func NewHelpFormatter(colorMode string) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode}
}

// ApplyToCommand installs the help and usage functions on cmd; its
// subcommands inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.render(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return h.render(c.OutOrStderr(), c)
	})
}

func (h *HelpFormatter) render(w io.Writer, cmd *cobra.Command) error {
	mode := h.colorMode
	if f := cmd.Flag("color"); f != nil {
		mode = f.Value.String()
	}
	styles := newHelpStyles(pretty.IsColorEnabled(mode, w))

	tmpl, err := template.New("help").Funcs(template.FuncMap{
		"heading":    styles.heading.Render,
		"command":    styles.command.Render,
		"subcommand": styles.subcommand.Render,
		"dim":        styles.dim.Render,
		"flags":      func(fs *pflag.FlagSet) string { return flagTable(fs, styles) },
		"env":        envVarsUsage,
		"join":       strings.Join,
		"trimRight":  trimTrailingWhitespace,
		"pad": func(s string, n int) string {
			return s + strings.Repeat(" ", max(0, n-len(s)))
		},
	}).Parse(helpTemplate)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	if err := tmpl.Execute(w, cmd); err != nil {
		return fmt.Errorf("render help: %w", err)
	}
	return nil
}

// flagTable lays out the visible flags of fs in two aligned columns.
func flagTable(fs *pflag.FlagSet, styles helpStyles) string {
	type row struct{ left, styled, usage string }

	var rows []row
	width := 0
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		typeName, usage := pflag.UnquoteUsage(f)

		left := "    --" + f.Name
		styled := "    " + styles.flag.Render("--"+f.Name)
		if f.Shorthand != "" {
			left = "-" + f.Shorthand + ", --" + f.Name
			styled = styles.flag.Render("-"+f.Shorthand) + ", " + styles.flag.Render("--"+f.Name)
		}
		if typeName != "" {
			left += " " + typeName
			styled += " " + styles.dim.Render(typeName)
		}
		if showDefault(f) {
			usage += styles.dim.Render(fmt.Sprintf(" (default %s)", f.DefValue))
		}

		rows = append(rows, row{left, styled, usage})
		width = max(width, len(left))
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, "  "+r.styled+strings.Repeat(" ", width-len(r.left)+3)+r.usage)
	}
	return strings.Join(lines, "\n")
}

func showDefault(f *pflag.Flag) bool {
	switch f.DefValue {
	case "", "false", "0", "[]":
		return false
	}
	return true
}

// envVarsUsage lists the MDLITE_* variables, several to a line.
func envVarsUsage() string {
	const perLine = 4

	names := configloader.EnvVarNames()
	var lines []string
	for len(names) > 0 {
		n := min(perLine, len(names))
		lines = append(lines, "  "+strings.Join(names[:n], "  "))
		names = names[n:]
	}
	return strings.Join(lines, "\n")
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
