package mdast

import "strconv"

// LineSpan is an inclusive range of 1-based source lines.
type LineSpan struct {
	Start int
	End   int
}

// Lines returns the lines s covers.
func (s SourceInfo) Lines() LineSpan {
	return LineSpan{Start: s.LineNumber, End: s.EndLineNumber()}
}

// Span returns the lines covered by t's source text.
func Span(t Token) LineSpan {
	return t.Info().Source.Lines()
}

// IsValid reports whether l names at least one real line.
func (l LineSpan) IsValid() bool {
	return l.Start > 0 && l.End >= l.Start
}

// IsSingleLine reports whether l starts and ends on the same line.
func (l LineSpan) IsSingleLine() bool {
	return l.Start == l.End
}

// Contains reports whether line falls inside l.
func (l LineSpan) Contains(line int) bool {
	return line >= l.Start && line <= l.End
}

// String formats l as "3", or "3-5" for several lines. An invalid span
// formats as its start line alone.
func (l LineSpan) String() string {
	if !l.IsValid() || l.IsSingleLine() {
		return strconv.Itoa(l.Start)
	}
	return strconv.Itoa(l.Start) + "-" + strconv.Itoa(l.End)
}
