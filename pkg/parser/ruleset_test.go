package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/mdast"
	"github.com/yaklabco/mdlite/pkg/parser"
)

func mustRule(t *testing.T, name string) parser.Rule {
	t.Helper()
	r, err := parser.NewRegexRule(name, `^x`, func(p *parser.Parser, c *parser.Cursor, m *parser.Match) (mdast.Token, error) {
		return &mdast.TextToken{TokenInfo: p.Info(m.Rule(), c.ConsumeMatch(m)), Text: "x"}, nil
	})
	require.NoError(t, err)
	return r
}

func TestNewBlockRules_Order(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts func(*config.Options)
		want []string
	}{
		{
			name: "defaults",
			opts: func(*config.Options) {},
			want: []string{
				"NewLine", "Code", "Fences", "Heading", "NpTable", "LHeading", "Hr",
				"Blockquote", "List", "Html", "Def", "Table", "Paragraph", "Text",
			},
		},
		{
			name: "no tables",
			opts: func(o *config.Options) { o.Tables = false },
			want: []string{
				"NewLine", "Code", "Fences", "Heading", "LHeading", "Hr",
				"Blockquote", "List", "Html", "Def", "Paragraph", "Text",
			},
		},
		{
			name: "no gfm",
			opts: func(o *config.Options) { o.Gfm = false },
			want: []string{
				"NewLine", "Code", "Heading", "LHeading", "Hr",
				"Blockquote", "List", "Html", "Def", "Paragraph", "Text",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := config.DefaultOptions()
			tt.opts(&opts)
			rules := parser.NewBlockRules(opts)
			assert.Equal(t, tt.want, rules.Names())
			assert.Equal(t, mdast.BlockContext, rules.Kind())
		})
	}
}

func TestNewInlineRules_Order(t *testing.T) {
	t.Parallel()

	rules := parser.NewInlineRules(config.DefaultOptions())
	assert.Equal(t, []string{
		"Escape", "AutoLink", "Url", "Tag", "Link", "RefLink", "NoLink",
		"Strong", "Em", "InlineCode", "Br", "Del", "Emoji", "InlineText",
	}, rules.Names())

	opts := config.DefaultOptions()
	opts.Gfm = false
	plain := parser.NewInlineRules(opts)
	assert.NotContains(t, plain.Names(), parser.RuleURL)
	assert.NotContains(t, plain.Names(), parser.RuleDel)
	assert.NotContains(t, plain.Names(), parser.RuleEmoji)
}

func TestRuleSet_Edits(t *testing.T) {
	t.Parallel()

	set := parser.NewRuleSet(mdast.InlineContext, mustRule(t, "A"), mustRule(t, "C"))

	require.NoError(t, set.InsertBefore("C", mustRule(t, "B")))
	require.NoError(t, set.InsertAfter("C", mustRule(t, "D")))
	require.NoError(t, set.Append(mustRule(t, "E")))
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, set.Names())

	require.NoError(t, set.Replace("D", mustRule(t, "D2")))
	require.NoError(t, set.Remove("A"))
	assert.Equal(t, []string{"B", "C", "D2", "E"}, set.Names())

	got, ok := set.Get("C")
	require.True(t, ok)
	assert.Equal(t, "C", got.Name())
	assert.Equal(t, 4, set.Len())
}

func TestRuleSet_Errors(t *testing.T) {
	t.Parallel()

	set := parser.NewRuleSet(mdast.InlineContext, mustRule(t, "A"), mustRule(t, "B"))

	assert.ErrorIs(t, set.InsertBefore("missing", mustRule(t, "X")), parser.ErrRuleNotFound)
	assert.ErrorIs(t, set.InsertAfter("missing", mustRule(t, "X")), parser.ErrRuleNotFound)
	assert.ErrorIs(t, set.Replace("missing", mustRule(t, "X")), parser.ErrRuleNotFound)
	assert.ErrorIs(t, set.Remove("missing"), parser.ErrRuleNotFound)

	assert.ErrorIs(t, set.Append(mustRule(t, "A")), parser.ErrDuplicateRule)
	assert.ErrorIs(t, set.Append(mustRule(t, "Y"), mustRule(t, "Y")), parser.ErrDuplicateRule)
	assert.ErrorIs(t, set.Replace("A", mustRule(t, "B")), parser.ErrDuplicateRule)
	assert.Equal(t, []string{"A", "B"}, set.Names())
}

func TestRuleSet_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	set := parser.NewRuleSet(mdast.BlockContext, mustRule(t, "A"))
	clone := set.Clone()
	require.NoError(t, clone.Append(mustRule(t, "B")))

	assert.Equal(t, []string{"A"}, set.Names())
	assert.Equal(t, []string{"A", "B"}, clone.Names())
}

func TestRuleSet_Context(t *testing.T) {
	t.Parallel()

	set := parser.NewRuleSet(mdast.InlineContext, mustRule(t, "A"), mustRule(t, "B"))
	ctx := set.Context()

	assert.Equal(t, mdast.InlineContext, ctx.Kind())
	require.Len(t, ctx.Rules(), 2)
	assert.Equal(t, "B", ctx.Rules()[1].Name())
}

func TestNewRegexRule_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := parser.NewRegexRule("Bad", `^(`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad")
}
