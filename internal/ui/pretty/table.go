package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdlite/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 4 // FILE, STATUS, TOKENS, DETAIL
	minFileWidth     = 20
	minStatusWidth   = 16
	minTokensWidth   = 6
	minDetailWidth   = 30
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// TableRow is one file outcome in the table.
type TableRow struct {
	File   string
	Status string
	Tokens string
	Detail string
	Failed bool
	// Pending marks a file that needs formatting but was not written.
	Pending bool
}

// OutcomeToTableRow converts a file outcome to a table row. display is the
// path shown in the FILE column.
func OutcomeToTableRow(display string, outcome runner.FileOutcome) TableRow {
	row := TableRow{File: display, Status: outcome.Status()}

	if outcome.Error != nil {
		row.Failed = true
		if problems := Problems(outcome.Path, outcome.Error); len(problems) > 0 {
			p := problems[0]
			row.Detail = p.Message
			if p.Line > 0 {
				row.Detail = "line " + strconv.Itoa(p.Line) + ": " + p.Message
			}
		}
		return row
	}

	fr := outcome.Result
	if fr == nil {
		return row
	}
	row.Tokens = strconv.Itoa(fr.Tokens)
	row.Pending = fr.Changed && !fr.Written

	switch {
	case fr.Skipped:
		row.Detail = fr.SkipReason
	case fr.OutputPath != "":
		row.Detail = fr.OutputPath
	case fr.Diff.HasChanges():
		row.Detail = fmt.Sprintf("+%d -%d", fr.Diff.Additions, fr.Diff.Deletions)
	}
	return row
}

type columnWidths struct {
	file   int
	status int
	tokens int
	detail int
}

// TableFormatter formats run outcomes as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatTable formats rows as a table. Failed rows are listed first,
// separated from the rest by a light rule.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	var failed, rest []TableRow
	for _, row := range rows {
		if row.Failed {
			failed = append(failed, row)
		} else {
			rest = append(rest, row)
		}
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	line := func(s string) {
		builder.WriteString(s)
		builder.WriteString("\n")
	}

	line(t.formatHeader(widths))
	line(t.formatSeparator(widths, heavySeparator))
	for _, row := range failed {
		line(t.formatRow(row, widths))
	}
	if len(failed) > 0 && len(rest) > 0 {
		line(t.formatSeparator(widths, lightSeparator))
	}
	for _, row := range rest {
		line(t.formatRow(row, widths))
	}
	line(t.formatSeparator(widths, heavySeparator))

	return builder.String()
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	parts := []string{
		fmt.Sprintf("%d files", stats.FilesProcessed+stats.FilesErrored),
		fmt.Sprintf("%d tokens", stats.Tokens),
	}

	if stats.FilesChanged > 0 {
		parts = append(parts, t.styles.Changed.Render(fmt.Sprintf("%d changed", stats.FilesChanged)))
	}
	if stats.FilesWritten > 0 {
		parts = append(parts, t.styles.Written.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, t.styles.Skipped.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		file:   minFileWidth,
		status: minStatusWidth,
		tokens: minTokensWidth,
		detail: minDetailWidth,
	}

	for _, row := range rows {
		widths.file = max(widths.file, len(row.File))
		widths.status = max(widths.status, len(row.Status))
		widths.tokens = max(widths.tokens, len(row.Tokens))
		widths.detail = max(widths.detail, len(row.Detail))
	}

	// Shrink detail first, then file, to fit the terminal.
	if excess := t.totalWidth(widths) - t.termWidth; excess > 0 {
		widths.detail = max(minDetailWidth, widths.detail-excess)
	}
	if excess := t.totalWidth(widths) - t.termWidth; excess > 0 {
		widths.file = max(minFileWidth, widths.file-excess)
	}

	return widths
}

func (t *TableFormatter) totalWidth(widths columnWidths) int {
	return widths.file + widths.status + widths.tokens + widths.detail + tablePadding*tableColumnCount
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %*s  %-*s ",
		widths.file, "FILE",
		widths.status, "STATUS",
		widths.tokens, "TOKENS",
		widths.detail, "DETAIL",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, t.totalWidth(widths)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := fmt.Sprintf(" %-*s  %-*s  %*s  %s",
		widths.file, truncateFilePath(row.File, widths.file),
		widths.status, row.Status,
		widths.tokens, row.Tokens,
		truncateString(row.Detail, widths.detail),
	)
	return t.rowStyle(row).Render(strings.TrimRight(content, " "))
}

func (t *TableFormatter) rowStyle(row TableRow) lipgloss.Style {
	switch {
	case row.Failed:
		return t.styles.Error
	case row.Pending:
		return t.styles.Changed
	case row.Status == "skipped" || strings.HasPrefix(row.Status, "skipped:"):
		return t.styles.Skipped
	default:
		return lipgloss.NewStyle()
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
