package mdast

import "sort"

// LineIndex maps offsets in a text to line numbers. The newline offsets
// are computed once; lookups are binary searches. Offsets are byte offsets
// for NewLineIndex and rune offsets for NewRuneLineIndex.
type LineIndex struct {
	// newlines holds the offset of every '\n' in the indexed text.
	newlines []int
	size     int
}

// NewLineIndex builds the line index for text.
func NewLineIndex(text string) *LineIndex {
	idx := &LineIndex{size: len(text)}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx.newlines = append(idx.newlines, i)
		}
	}
	return idx
}

// NewRuneLineIndex builds the line index for text held as runes.
func NewRuneLineIndex(text []rune) *LineIndex {
	idx := &LineIndex{size: len(text)}
	for i, r := range text {
		if r == '\n' {
			idx.newlines = append(idx.newlines, i)
		}
	}
	return idx
}

// Len returns the length of the indexed text.
func (l *LineIndex) Len() int {
	return l.size
}

// LineOffset returns how many newlines precede offset, i.e. the 0-based
// line containing offset.
func (l *LineIndex) LineOffset(offset int) int {
	if offset <= 0 {
		return 0
	}
	// Number of newline offsets strictly below offset.
	return sort.Search(len(l.newlines), func(i int) bool {
		return l.newlines[i] >= offset
	})
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts offset units. Returns (0, 0) if offset is negative.
func (l *LineIndex) LineAt(offset int) (int, int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > l.size {
		offset = l.size
	}

	line := l.LineOffset(offset)
	lineStart := 0
	if line > 0 {
		lineStart = l.newlines[line-1] + 1
	}

	return line + 1, offset - lineStart + 1
}

// LineCount returns the number of lines in the indexed text, counting a
// final unterminated line.
func (l *LineIndex) LineCount() int {
	if l.size == 0 {
		return 0
	}
	count := len(l.newlines)
	if len(l.newlines) == 0 || l.newlines[len(l.newlines)-1] != l.size-1 {
		count++
	}
	return count
}
