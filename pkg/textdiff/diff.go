// Package textdiff produces unified diffs between two versions of a file.
package textdiff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

// Diff is a unified diff of one file.
type Diff struct {
	// Path names the file in the diff headers.
	Path string

	// Text is the unified diff body, starting at the "---" header.
	Text string

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// Generate diffs original against modified. It returns nil when the two
// are identical.
func Generate(path string, original, modified []byte) (*Diff, error) {
	if bytes.Equal(original, modified) {
		return nil, nil
	}

	a := difflib.SplitLines(string(original))
	b := difflib.SplitLines(string(modified))
	name := strings.TrimPrefix(path, "/")

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  ContextLines,
	})
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", path, err)
	}

	d := &Diff{Path: path, Text: text}
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'r':
			d.Deletions += op.I2 - op.I1
			d.Additions += op.J2 - op.J1
		case 'd':
			d.Deletions += op.I2 - op.I1
		case 'i':
			d.Additions += op.J2 - op.J1
		}
	}
	return d, nil
}

// HasChanges reports whether d holds any change.
func (d *Diff) HasChanges() bool {
	return d != nil && d.Text != ""
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff body.
func (d *Diff) String() string {
	if d == nil {
		return ""
	}
	return d.Text
}

// FullString returns the diff with its git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.Text
}
