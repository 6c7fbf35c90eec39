package pretty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/mdlite/pkg/engine"
	"github.com/yaklabco/mdlite/pkg/mdast"
	"github.com/yaklabco/mdlite/pkg/parser"
)

// Level ranks a problem.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Problem is one located failure taken from a processing error.
type Problem struct {
	File    string
	Line    int // 0 when the error carries no position
	EndLine int // last line of a multi-line offending span, else 0
	Level   Level
	Stage   string
	Message string
	// Excerpt is the first line of the offending source, if known.
	Excerpt string
}

// Location returns "file:line" or "file:start-end", or just the file
// when Line is unknown.
func (p Problem) Location() string {
	if p.Line <= 0 {
		return p.File
	}
	return p.File + ":" + p.span().String()
}

func (p Problem) span() mdast.LineSpan {
	return mdast.LineSpan{Start: p.Line, End: max(p.Line, p.EndLine)}
}

// sourceProblem builds a problem located at src.
func sourceProblem(path, stage, message string, src mdast.SourceInfo) Problem {
	lines := src.Lines()
	p := Problem{
		File:    fileOr(path, src.File),
		Line:    lines.Start,
		Level:   LevelError,
		Stage:   stage,
		Message: message,
		Excerpt: firstLine(src.Text),
	}
	if !lines.IsSingleLine() {
		p.EndLine = lines.End
	}
	return p
}

// Problems breaks err into located problems. Validation and extraction
// errors yield one problem per offending token; anything else yields a
// single problem for the file. path names the file in every problem; when
// empty, the file recorded in the error is used.
func Problems(path string, err error) []Problem {
	if err == nil {
		return nil
	}

	var stage string
	var stageErr *engine.StageError
	if errors.As(err, &stageErr) {
		stage = string(stageErr.Stage)
		path = fileOr(path, stageErr.File)
	}

	var valErr *engine.ValidationError
	if errors.As(err, &valErr) {
		out := make([]Problem, 0, len(valErr.Violations))
		for _, v := range valErr.Violations {
			out = append(out, sourceProblem(path, stage, v.Message+" ["+v.Validator+"]", v.Source))
		}
		return out
	}

	var extractErr *engine.ExtractError
	if errors.As(err, &extractErr) {
		out := make([]Problem, 0, len(extractErr.Remaining))
		msg := fmt.Sprintf("token still unresolved after %d passes", extractErr.Passes)
		for _, src := range extractErr.Remaining {
			out = append(out, sourceProblem(path, stage, msg, src))
		}
		return out
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return []Problem{{
			File:    fileOr(path, parseErr.File),
			Line:    parseErr.Line,
			Level:   LevelError,
			Stage:   stage,
			Message: parseErr.Message,
			Excerpt: firstLine(parseErr.Excerpt),
		}}
	}

	return []Problem{{File: path, Level: LevelError, Stage: stage, Message: err.Error()}}
}

// FormatProblem formats a single problem for terminal output.
func (s *Styles) FormatProblem(p Problem, showContext bool) string {
	var builder strings.Builder

	// Main line: location  level  message  (stage)
	builder.WriteString("  " + s.FilePath.Render(p.Location()) + "  " +
		s.FormatLevel(p.Level) + "  " + s.Message.Render(p.Message))
	if p.Stage != "" {
		builder.WriteString("  " + s.Stage.Render("("+p.Stage+")"))
	}
	builder.WriteString("\n")

	if showContext && p.Excerpt != "" {
		builder.WriteString(s.FormatSourceContext(p.Excerpt, 1))
	}

	return builder.String()
}

// FormatLevel returns a styled level string.
func (s *Styles) FormatLevel(level Level) string {
	switch level {
	case LevelError:
		return s.Error.Render("error")
	case LevelWarning:
		return s.Warning.Render("warning")
	default:
		return string(level)
	}
}

// FormatSourceContext formats the source line with a caret marker.
// A column of 0 omits the caret.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, problemCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case problemCount == 1:
		header += s.Dim.Render(" (1 problem)")
	case problemCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d problems)", problemCount))
	}
	return header
}

func fileOr(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, " \t")
}
