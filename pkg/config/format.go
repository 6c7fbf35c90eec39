package config

import "fmt"

// ParseOutputFormat converts a user-supplied name to an OutputFormat.
// "md" is accepted as an alias for markdown.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch name {
	case "", string(FormatHTML):
		return FormatHTML, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want html, json or markdown)", name)
	}
}

// Extension returns the file extension used for rendered output.
func (f OutputFormat) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatMarkdown:
		return ".md"
	default:
		return ".html"
	}
}

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatHTML, FormatJSON, FormatMarkdown:
		return true
	default:
		return false
	}
}

// ParseReportFormat converts a user-supplied name to a ReportFormat.
func ParseReportFormat(name string) (ReportFormat, error) {
	r := ReportFormat(name)
	if name == "" {
		r = ReportText
	}
	if !r.IsValid() {
		return "", fmt.Errorf("unknown report format %q (want text, table or json)", name)
	}
	return r, nil
}

// IsValid returns true if the report format is known.
func (r ReportFormat) IsValid() bool {
	switch r {
	case ReportText, ReportTable, ReportJSON:
		return true
	default:
		return false
	}
}
