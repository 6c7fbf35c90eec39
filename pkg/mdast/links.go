package mdast

import (
	"strings"

	"golang.org/x/text/cases"
)

// LinkDefinition is the target of a reference definition.
type LinkDefinition struct {
	Href  string
	Title string
}

// LinkTable maps normalized reference labels to their definitions. It is
// populated while block tokens are produced and read while inline tokens
// are produced; it belongs to a single parse.
type LinkTable map[string]LinkDefinition

// NormalizeLabel case-folds label and collapses runs of whitespace into a
// single space.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(cases.Fold().String(label)), " ")
}

// Define records a definition for label. A later definition of the same
// label replaces the earlier one.
func (l LinkTable) Define(label string, def LinkDefinition) {
	l[NormalizeLabel(label)] = def
}

// Lookup returns the definition for label.
func (l LinkTable) Lookup(label string) (LinkDefinition, bool) {
	def, ok := l[NormalizeLabel(label)]
	return def, ok
}
