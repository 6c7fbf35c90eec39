// Package langdetect guesses the language of fenced code blocks that carry
// no info string, so the HTML renderer can still emit a language class.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Fallback is the fence tag reported when no language is recognized.
const Fallback = "text"

// classifierCandidates limits the enry classifier to languages that
// commonly appear in documentation.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// fenceTags maps enry language names to the tag written after a fence
// when it differs from the lowercase name.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fenceTags = map[string]string{
	"Shell": "bash",
	"C++":   "cpp",
}

// pattern is one cheap, highly indicative check tried before the
// classifier.
type pattern struct {
	lang  string
	match func(code string, trimmed []byte) bool
}

// patterns are tried in order of specificity.
//
//nolint:gochecknoglobals // Read-only rule table.
var patterns = []pattern{
	{lang: "go", match: func(_ string, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("package "))
	}},
	{lang: "python", match: isPython},
	{lang: "html", match: func(_ string, trimmed []byte) bool {
		lower := bytes.ToLower(trimmed)
		return bytes.Contains(lower, []byte("<!doctype html")) ||
			bytes.Contains(lower, []byte("<html")) ||
			bytes.Contains(lower, []byte("<head>")) ||
			bytes.Contains(lower, []byte("<body>"))
	}},
	{lang: "json", match: func(_ string, trimmed []byte) bool {
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`"`))
	}},
	{lang: "dockerfile", match: func(code string, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("FROM ")) ||
			(strings.Contains(code, "\nFROM ") && strings.Contains(code, "\nRUN ")) ||
			(strings.Contains(code, "WORKDIR ") && strings.Contains(code, "COPY "))
	}},
	{lang: "sql", match: func(code string, _ []byte) bool {
		upper := strings.TrimSpace(strings.ToUpper(code))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{lang: "rust", match: func(code string, _ []byte) bool {
		return strings.Contains(code, "fn main()") ||
			strings.Contains(code, "println!") ||
			strings.Contains(code, "let mut ")
	}},
	{lang: "javascript", match: func(code string, _ []byte) bool {
		return strings.Contains(code, "=>") ||
			strings.Contains(code, "const ") ||
			strings.Contains(code, "let ") ||
			strings.Contains(code, "console.log")
	}},
	{lang: "yaml", match: func(code string, _ []byte) bool {
		return yamlKeyCount(code) >= 2
	}},
}

// Detect returns the fence tag for code and whether it was recognized.
// Strategies, in order: shebang, indicative patterns, then the enry
// classifier when it is confident.
func Detect(code string) (string, bool) {
	if strings.TrimSpace(code) == "" {
		return Fallback, false
	}
	content := []byte(code)

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return FenceTag(lang), true
	}

	trimmed := bytes.TrimSpace(content)
	for _, p := range patterns {
		if p.match(code, trimmed) {
			return p.lang, true
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return FenceTag(lang), true
	}

	return Fallback, false
}

// FenceTag converts an enry language name to a fence tag.
func FenceTag(lang string) string {
	if tag, ok := fenceTags[lang]; ok {
		return tag
	}
	return strings.ToLower(lang)
}

func isPython(code string, _ []byte) bool {
	if strings.Contains(code, "def ") && strings.Contains(code, "):") {
		return true
	}
	// Python imports, but not Go's "import (".
	if strings.Contains(code, "import ") && !strings.Contains(code, "import (") {
		if strings.Contains(code, "from ") || strings.HasPrefix(strings.TrimSpace(code), "import ") {
			return true
		}
	}
	return strings.Contains(code, "__name__") || strings.Contains(code, "__main__")
}

// yamlKeyCount counts "key: value" lines and root list items.
func yamlKeyCount(code string) int {
	count := 0
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ": ") &&
			!strings.Contains(line, "(") &&
			!strings.Contains(line, "{") &&
			!strings.HasPrefix(line, `"`) {
			count++
		}
		if strings.HasPrefix(line, "- ") {
			count++
		}
	}
	return count
}
