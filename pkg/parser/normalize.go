package parser

import "strings"

//nolint:gochecknoglobals // Immutable replacer shared by all parses.
var normalizer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\t", "    ",
	"\u00a0", " ",
)

// Normalize prepares a document for tokenization. Line endings become
// "\n", tabs expand to four spaces, non-breaking spaces become spaces,
// lines holding only spaces are emptied and the text is terminated by a
// newline. The number of lines is preserved.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = normalizer.Replace(text)
	terminated := strings.HasSuffix(text, "\n")
	text = blankSpaceLines(text)
	if !terminated {
		text += "\n"
	}
	return text
}

// blankSpaceLines empties every line made only of spaces.
func blankSpaceLines(text string) string {
	if !strings.Contains(text, " \n") && !strings.HasSuffix(text, " ") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" && strings.TrimLeft(line, " ") == "" {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
