package engine

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// defaultSlug is the id of a heading without any word characters.
const defaultSlug = "heading"

// Slug turns heading text into an id: accents are folded, letters are
// lowercased, each run of characters other than letters, digits and '_'
// becomes one '-', and leading or trailing dashes are dropped.
func Slug(text string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, text)
	if err != nil {
		folded = text
	}
	folded = cases.Lower(language.Und).String(folded)

	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range folded {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}

	if b.Len() == 0 {
		return defaultSlug
	}
	return b.String()
}

// idTable hands out unique heading ids for one document.
type idTable map[string]int

// unique returns id, or id with the lowest free "-N" suffix when it is
// taken.
func (t idTable) unique(id string) string {
	n, seen := t[id]
	if !seen {
		t[id] = 0
		return id
	}
	for {
		n++
		candidate := id + "-" + strconv.Itoa(n)
		if _, taken := t[candidate]; !taken {
			t[id] = n
			t[candidate] = 0
			return candidate
		}
	}
}
