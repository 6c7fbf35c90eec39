package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdlite/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func files(n int) string {
	return fmt.Sprintf("%d %s", n, plural(n, "file", "files"))
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 of 12 files need formatting, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, mode runner.Mode) string {
	var parts []string

	switch {
	case mode == runner.ModeFormat && stats.FilesWritten > 0:
		parts = append(parts, s.Success.Render("Formatted "+files(stats.FilesWritten)))
	case mode == runner.ModeFormat && stats.FilesChanged > 0:
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d of %s %s formatting",
			stats.FilesChanged, files(stats.FilesProcessed), plural(stats.FilesChanged, "needs", "need"))))
	case mode == runner.ModeFormat:
		parts = append(parts, s.Success.Render("All formatted")+s.Dim.Render(" ("+files(stats.FilesProcessed)+" checked)"))
	case stats.FilesWritten > 0:
		parts = append(parts, s.Success.Render("Rendered "+files(stats.FilesProcessed))+
			s.Dim.Render(fmt.Sprintf(" (%d written)", stats.FilesWritten)))
	default:
		parts = append(parts, s.Success.Render("Rendered "+files(stats.FilesProcessed)))
	}

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Skipped.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats, mode runner.Mode) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files discovered", s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)))
	row("Files processed", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	row("Tokens", s.SummaryValue.Render(strconv.Itoa(stats.Tokens)))

	if mode == runner.ModeFormat && stats.FilesChanged > 0 {
		row("Files changed", s.Changed.Render(strconv.Itoa(stats.FilesChanged)))
	}
	if stats.FilesWritten > 0 {
		row("Files written", s.Written.Render(strconv.Itoa(stats.FilesWritten)))
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Skipped.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		row("Files failed", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Run failed"))
	case mode == runner.ModeFormat && stats.FilesChanged > stats.FilesWritten:
		builder.WriteString(s.Warning.Render("Some files need formatting"))
	default:
		builder.WriteString(s.Success.Render("Run succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}
