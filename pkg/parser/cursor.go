package parser

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/yaklabco/mdlite/pkg/mdast"
)

// Cursor is a read position over the text being tokenized. Offsets are in
// runes, matching regexp2. Every consumed span is reported as a SourceInfo
// whose line number is offset into the original document.
type Cursor struct {
	runes []rune
	pos   int
	lines *mdast.LineIndex
	base  mdast.SourceInfo

	// Top is set while tokenizing the document or a list item's parent
	// level; paragraphs, tables and link definitions need it.
	Top bool

	// InBlockquote is set while tokenizing blockquote content.
	InBlockquote bool
}

// NewCursor creates a cursor over src.Text. Lines are numbered from
// src.LineNumber.
func NewCursor(src mdast.SourceInfo) *Cursor {
	runes := []rune(src.Text)
	return &Cursor{
		runes: runes,
		lines: mdast.NewRuneLineIndex(runes),
		base:  src,
	}
}

// EOF reports whether all input has been consumed.
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.runes)
}

// Pos returns the current offset in runes.
func (c *Cursor) Pos() int {
	return c.pos
}

// Reset moves the cursor back to pos, which must not be past the current
// position.
func (c *Cursor) Reset(pos int) {
	if pos < 0 || pos > c.pos {
		panic(fmt.Sprintf("parser: reset to %d from %d", pos, c.pos))
	}
	c.pos = pos
}

// Remaining returns the unconsumed input. Callers must not modify it.
func (c *Cursor) Remaining() []rune {
	return c.runes[c.pos:]
}

// Line returns the document line number of the current position.
func (c *Cursor) Line() int {
	return c.base.LineNumber + c.lines.LineOffset(c.pos)
}

// File returns the file being tokenized.
func (c *Cursor) File() string {
	return c.base.File
}

// Base returns the source the cursor was created over.
func (c *Cursor) Base() mdast.SourceInfo {
	return c.base
}

// Consume advances past n runes and returns the consumed span.
func (c *Cursor) Consume(n int) mdast.SourceInfo {
	if n < 0 || c.pos+n > len(c.runes) {
		panic(fmt.Sprintf("parser: consume %d at %d of %d", n, c.pos, len(c.runes)))
	}
	start := c.pos
	c.pos += n
	return c.base.Copy(string(c.runes[start:c.pos]), c.lines.LineOffset(start))
}

// Match runs re against the remaining input and returns the match when it
// starts at the current position.
func (c *Cursor) Match(re *regexp2.Regexp) (*Match, error) {
	if re == nil || c.EOF() {
		return nil, nil
	}
	m, err := re.FindRunesMatch(c.runes[c.pos:])
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", re.String(), err)
	}
	if m == nil || m.Index != 0 {
		return nil, nil
	}
	return &Match{m: m, runes: c.runes[c.pos : c.pos+m.Length]}, nil
}

// ConsumeMatch advances past m and returns the consumed span.
func (c *Cursor) ConsumeMatch(m *Match) mdast.SourceInfo {
	return c.Consume(m.Len())
}

// Match is a successful pattern match at the cursor.
type Match struct {
	m     *regexp2.Match
	runes []rune
	rule  mdast.Rule
}

// Rule returns the rule that produced the match, if any.
func (m *Match) Rule() mdast.Rule {
	return m.rule
}

// Text returns the whole matched text.
func (m *Match) Text() string {
	return m.m.String()
}

// Len returns the match length in runes.
func (m *Match) Len() int {
	return m.m.Length
}

// Group returns the text of capture group i, or "" when the group did not
// participate in the match.
func (m *Match) Group(i int) string {
	g := m.m.GroupByNumber(i)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}

// HasGroup reports whether capture group i participated in the match.
func (m *Match) HasGroup(i int) bool {
	g := m.m.GroupByNumber(i)
	return g != nil && len(g.Captures) > 0
}

// GroupOffset returns the rune offset of group i within the match, or -1.
func (m *Match) GroupOffset(i int) int {
	g := m.m.GroupByNumber(i)
	if g == nil || len(g.Captures) == 0 {
		return -1
	}
	return g.Index - m.m.Index
}

// Source returns group i as a span of src, where src is the span the whole
// match was consumed as.
func (m *Match) Source(src mdast.SourceInfo, i int) mdast.SourceInfo {
	off := m.GroupOffset(i)
	if off < 0 {
		return src.Copy("", 0)
	}
	return src.Copy(m.Group(i), countNewlines(m.runes[:off]))
}

func countNewlines(runes []rune) int {
	n := 0
	for _, r := range runes {
		if r == '\n' {
			n++
		}
	}
	return n
}

// firstGroup returns the first of the given groups that participated.
func (m *Match) firstGroup(groups ...int) (string, int) {
	for _, i := range groups {
		if m.HasGroup(i) {
			return m.Group(i), i
		}
	}
	return "", 0
}
