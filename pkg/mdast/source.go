package mdast

import (
	"strconv"
	"strings"
)

// SourceInfo describes a span of the original document: the raw text of the
// span, the file it came from and the 1-based line the span starts on.
//
// SourceInfo is a value. Copy and the tokenizer derive new values; nothing
// mutates one in place.
type SourceInfo struct {
	// Text is the raw text of the span.
	Text string

	// File is the originating file (may be empty for in-memory content).
	File string

	// LineNumber is the 1-based line on which Text starts.
	LineNumber int
}

// NewSourceInfo creates a SourceInfo for text starting at line in file.
func NewSourceInfo(text, file string, line int) SourceInfo {
	return SourceInfo{
		Text:       text,
		File:       file,
		LineNumber: line,
	}
}

// ValidLineCount returns the number of newline-delimited lines present in
// Text. A trailing newline terminates the last line rather than opening a
// new one, and empty text has no lines.
//
// The count is derived from Text on every call so it always reflects the
// current text.
func (s SourceInfo) ValidLineCount() int {
	if s.Text == "" {
		return 0
	}
	count := strings.Count(s.Text, "\n")
	if !strings.HasSuffix(s.Text, "\n") {
		count++
	}
	return count
}

// EndLineNumber returns the 1-based line on which the span ends.
func (s SourceInfo) EndLineNumber() int {
	count := s.ValidLineCount()
	if count == 0 {
		return s.LineNumber
	}
	return s.LineNumber + count - 1
}

// Copy returns a new SourceInfo carrying text, starting lineOffset lines
// after the receiver's start line.
func (s SourceInfo) Copy(text string, lineOffset int) SourceInfo {
	return SourceInfo{
		Text:       text,
		File:       s.File,
		LineNumber: s.LineNumber + lineOffset,
	}
}

// IsZero reports whether s carries no position information.
func (s SourceInfo) IsZero() bool {
	return s.LineNumber == 0 && s.Text == "" && s.File == ""
}

// Location formats the start position as "file:line" (or "line:N" without a file).
func (s SourceInfo) Location() string {
	if s.File == "" {
		return "line " + strconv.Itoa(s.LineNumber)
	}
	return s.File + ":" + strconv.Itoa(s.LineNumber)
}
