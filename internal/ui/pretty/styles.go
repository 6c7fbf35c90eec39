// Package pretty renders run outcomes and engine errors for the terminal
// with Lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Levels
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Problem components
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Stage      lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Outcome components
	Changed lipgloss.Style
	Written lipgloss.Style
	Skipped lipgloss.Style

	// Diff styles
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableBorder    lipgloss.Style
	TableSeparator lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates the output styles. With color disabled every style
// renders its input unchanged, bold and italics included.
func NewStyles(colorEnabled bool) *Styles {
	const (
		red    = "9"
		green  = "10"
		yellow = "11"
		cyan   = "14"
		silver = "7"
		grey   = "8"
	)

	type attr uint8
	const (
		plain  attr = 0
		bold   attr = 1
		italic attr = 2
	)

	style := func(color string, attrs attr) lipgloss.Style {
		s := lipgloss.NewStyle()
		if !colorEnabled {
			return s
		}
		if color != "" {
			s = s.Foreground(lipgloss.Color(color))
		}
		return s.Bold(attrs&bold != 0).Italic(attrs&italic != 0)
	}

	return &Styles{
		Error:   style(red, bold),
		Warning: style(yellow, bold),

		FilePath:   style("", bold),
		Location:   style(grey, plain),
		Stage:      style(grey, plain),
		Message:    style("", plain),
		SourceLine: style(silver, plain),
		Caret:      style(red, plain),

		Changed: style(yellow, plain),
		Written: style(green, plain),
		Skipped: style(grey, italic),

		DiffHeader:  style("", bold),
		DiffHunk:    style(cyan, plain),
		DiffAdd:     style(green, plain),
		DiffRemove:  style(red, plain),
		DiffContext: style(grey, plain),

		SummaryTitle: style("", bold),
		SummaryValue: style("", plain),
		Success:      style(green, bold),
		Failure:      style(red, bold),

		TableHeader:    style(silver, bold),
		TableBorder:    style(grey, plain),
		TableSeparator: style(grey, plain),

		Dim:  style(grey, plain),
		Bold: style("", bold),
	}
}

// IsColorEnabled resolves a --color mode for output written to w.
// "always" and "never" are absolute; anything else means auto, which
// colors only terminals and honors NO_COLOR (https://no-color.org/).
func IsColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
