package pretty_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlite/internal/ui/pretty"
	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/engine"
	"github.com/yaklabco/mdlite/pkg/parser"
)

func TestProblems_ParseError(t *testing.T) {
	opts := config.DefaultOptions()
	block := parser.NewBlockRules(opts)
	require.NoError(t, block.Remove(parser.RuleParagraph))
	require.NoError(t, block.Remove(parser.RuleText))

	_, err := engine.New(opts, engine.WithBlockRules(block)).Parse(context.Background(), "doc.md", "# ok\n\nabc\n")
	require.Error(t, err)

	problems := pretty.Problems("doc.md", err)
	require.Len(t, problems, 1)
	assert.Equal(t, "doc.md:3", problems[0].Location())
	assert.Equal(t, "tokenize", problems[0].Stage)
	assert.Equal(t, "abc", problems[0].Excerpt)
	assert.Equal(t, pretty.LevelError, problems[0].Level)
}

func TestProblems_Validation(t *testing.T) {
	e := engine.New(config.DefaultOptions(), engine.WithValidators(engine.HeadingDepth(1)))

	_, err := e.Parse(context.Background(), "doc.md", "## a\n\ntext\n\n### b\n")
	require.Error(t, err)

	problems := pretty.Problems("doc.md", err)
	require.Len(t, problems, 2)
	assert.Equal(t, 1, problems[0].Line)
	assert.Equal(t, 5, problems[1].Line)
	assert.Equal(t, "validate", problems[1].Stage)
	assert.Contains(t, problems[1].Message, "[heading-depth]")
}

func TestProblems_Generic(t *testing.T) {
	assert.Nil(t, pretty.Problems("a.md", nil))

	problems := pretty.Problems("a.md", errors.New("boom"))
	require.Len(t, problems, 1)
	assert.Equal(t, "a.md", problems[0].Location())
	assert.Equal(t, "boom", problems[0].Message)
}

func TestFormatProblem(t *testing.T) {
	styles := pretty.NewStyles(false)

	p := pretty.Problem{
		File:    "doc.md",
		Line:    3,
		Level:   pretty.LevelError,
		Stage:   "tokenize",
		Message: "no rule matched",
		Excerpt: "abc",
	}

	assert.Equal(t, "  doc.md:3  error  no rule matched  (tokenize)\n", styles.FormatProblem(p, false))
	assert.Equal(t,
		"  doc.md:3  error  no rule matched  (tokenize)\n        abc\n        ^\n",
		styles.FormatProblem(p, true))
}

func TestFormatFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "a.md", styles.FormatFileHeader("a.md", 0))
	assert.Equal(t, "a.md (1 problem)", styles.FormatFileHeader("a.md", 1))
	assert.Equal(t, "a.md (4 problems)", styles.FormatFileHeader("a.md", 4))
}

func TestFormatLevel(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "error", styles.FormatLevel(pretty.LevelError))
	assert.Equal(t, "warning", styles.FormatLevel(pretty.LevelWarning))
}

func TestProblem_Location(t *testing.T) {
	tests := []struct {
		problem pretty.Problem
		want    string
	}{
		{pretty.Problem{File: "a.md"}, "a.md"},
		{pretty.Problem{File: "a.md", Line: 3}, "a.md:3"},
		{pretty.Problem{File: "a.md", Line: 3, EndLine: 5}, "a.md:3-5"},
		{pretty.Problem{File: "a.md", Line: 3, EndLine: 1}, "a.md:3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.problem.Location())
	}
}
