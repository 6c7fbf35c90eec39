package render

import "strings"

//nolint:gochecknoglobals // Read-only replacer.
var dashes = strings.NewReplacer(
	"---", "—",
	"--", "–",
	"...", "…",
)

// SmartyPants converts ASCII punctuation to typographic characters: em and
// en dashes, ellipses, and curly single and double quotes. A quote opens
// at the start of the text or after a space, an opening bracket, a dash or
// an opening quote, and closes everywhere else.
func SmartyPants(text string) string {
	text = dashes.Replace(text)
	if !strings.ContainsAny(text, `'"`) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	prev := rune(0)
	for _, c := range text {
		switch {
		case c == '\'' && opensQuote(prev):
			c = '‘'
		case c == '\'':
			c = '’'
		case c == '"' && opensQuote(prev):
			c = '“'
		case c == '"':
			c = '”'
		}
		b.WriteRune(c)
		prev = c
	}
	return b.String()
}

func opensQuote(prev rune) bool {
	switch prev {
	case 0, ' ', '\n', '(', '[', '{', '-', '–', '—', '‘', '“':
		return true
	default:
		return false
	}
}
