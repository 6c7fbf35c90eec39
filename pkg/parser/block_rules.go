package parser

import (
	"strings"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/mdast"
)

// Block rule names, in default priority order.
const (
	RuleNewLine    = "NewLine"
	RuleCode       = "Code"
	RuleFences     = "Fences"
	RuleHeading    = "Heading"
	RuleNpTable    = "NpTable"
	RuleLHeading   = "LHeading"
	RuleHr         = "Hr"
	RuleBlockquote = "Blockquote"
	RuleList       = "List"
	RuleHTML       = "Html"
	RuleDef        = "Def"
	RuleTable      = "Table"
	RuleParagraph  = "Paragraph"
	RuleText       = "Text"
)

// NewBlockRules returns the stock block rules enabled by opts.
func NewBlockRules(opts config.Options) *RuleSet {
	g := newBlockGrammar(opts)
	b := &blockRules{opts: opts, g: g}

	rules := []Rule{
		newRegexRule(RuleNewLine, g.newline, buildNewLine),
		newRegexRule(RuleCode, g.code, b.buildCode),
	}
	if g.fences != nil {
		rules = append(rules, newRegexRule(RuleFences, g.fences, buildFences))
	}
	rules = append(rules, newRegexRule(RuleHeading, g.heading, buildHeading))
	if g.npTable != nil {
		rules = append(rules, newRegexRule(RuleNpTable, g.npTable, buildNpTable).WithGuard(atTop))
	}
	rules = append(rules,
		newRegexRule(RuleLHeading, g.lHeading, buildLHeading),
		newRegexRule(RuleHr, g.hr, buildHr),
		newRegexRule(RuleBlockquote, g.blockquote, buildBlockquote),
		newRegexRule(RuleList, g.list, b.buildList),
		newRegexRule(RuleHTML, g.html, b.buildHTML),
		newRegexRule(RuleDef, g.def, buildDef).WithGuard(atTopOutsideBlockquote),
	)
	if g.table != nil {
		rules = append(rules, newRegexRule(RuleTable, g.table, buildTable).WithGuard(atTop))
	}
	rules = append(rules,
		newRegexRule(RuleParagraph, g.paragraph, buildParagraph).WithGuard(atTop),
		newRegexRule(RuleText, g.text, buildText),
	)

	return NewRuleSet(mdast.BlockContext, rules...)
}

// blockRules carries what option-dependent builders need.
type blockRules struct {
	opts config.Options
	g    *blockGrammar
}

func buildNewLine(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	return &mdast.NewLineToken{TokenInfo: p.Info(m.Rule(), src)}, nil
}

func (b *blockRules) buildCode(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	code := stripIndent(src.Text, 4)
	if !b.opts.Pedantic {
		code = strings.TrimRight(code, "\n")
	}
	return &mdast.CodeToken{TokenInfo: p.Info(m.Rule(), src), Code: code}, nil
}

func buildFences(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	return &mdast.CodeToken{
		TokenInfo: p.Info(m.Rule(), src),
		Lang:      m.Group(2),
		Code:      m.Group(3),
		Fenced:    true,
	}, nil
}

func buildHeading(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	return headingToken(p.Info(m.Rule(), src), len(m.Group(1)), m.Source(src, 2)), nil
}

func buildLHeading(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	depth := 2
	if m.Group(2) == "=" {
		depth = 1
	}
	return headingToken(p.Info(m.Rule(), src), depth, m.Source(src, 1)), nil
}

func headingToken(info mdast.TokenInfo, depth int, content mdast.SourceInfo) *mdast.TwoPhaseToken {
	return &mdast.TwoPhaseToken{
		TokenInfo: info,
		Extractor: func(p mdast.Parser, t *mdast.TwoPhaseToken) (mdast.Token, error) {
			inlines, err := p.TokenizeInline(content)
			if err != nil {
				return nil, err
			}
			return &mdast.HeadingToken{TokenInfo: t.TokenInfo, Depth: depth, Inlines: inlines}, nil
		},
	}
}

func buildHr(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	return &mdast.HrToken{TokenInfo: p.Info(m.Rule(), src)}, nil
}

func buildBlockquote(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	info := p.Info(m.Rule(), src)
	inner, err := p.TokenizeBlock(src.Copy(stripQuoteMarkers(src.Text), 0), c.Top, true)
	if err != nil {
		return nil, err
	}
	return &mdast.BlockquoteToken{TokenInfo: info, Tokens: inner}, nil
}

func (b *blockRules) buildHTML(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	info := p.Info(m.Rule(), src)

	if b.opts.Sanitize {
		return paragraphToken(info, src.Copy(strings.TrimRight(src.Text, "\n"), 0)), nil
	}

	tag := strings.ToLower(m.Group(1))
	pre := b.opts.Sanitizer == nil && (tag == "pre" || tag == "script" || tag == "style")
	if pre || b.opts.Pedantic {
		return &mdast.HTMLBlockToken{TokenInfo: info, Raw: src.Text, Pre: pre}, nil
	}

	return &mdast.TwoPhaseToken{
		TokenInfo: info,
		Extractor: func(p mdast.Parser, t *mdast.TwoPhaseToken) (mdast.Token, error) {
			inlines, err := p.TokenizeInline(src)
			if err != nil {
				return nil, err
			}
			return &mdast.HTMLBlockToken{TokenInfo: t.TokenInfo, Raw: src.Text, Inlines: inlines}, nil
		},
	}, nil
}

func buildDef(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	p.links.Define(m.Group(1), mdast.LinkDefinition{Href: m.Group(2), Title: m.Group(3)})
	return &mdast.IgnoreToken{TokenInfo: p.Info(m.Rule(), src)}, nil
}

func buildParagraph(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	content := m.Source(src, 1)
	content.Text = strings.TrimSuffix(content.Text, "\n")
	return paragraphToken(p.Info(m.Rule(), src), content), nil
}

// paragraphToken defers inline lexing of content until link definitions
// are known.
func paragraphToken(info mdast.TokenInfo, content mdast.SourceInfo) *mdast.TwoPhaseToken {
	return &mdast.TwoPhaseToken{
		TokenInfo: info,
		Extractor: func(p mdast.Parser, t *mdast.TwoPhaseToken) (mdast.Token, error) {
			inlines, err := p.TokenizeInline(content)
			if err != nil {
				return nil, err
			}
			return &mdast.ParagraphToken{TokenInfo: t.TokenInfo, Inlines: inlines}, nil
		},
	}
}

func buildText(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	return &mdast.BlockTextToken{TokenInfo: p.Info(m.Rule(), src), Text: src.Text}, nil
}

// stripIndent removes up to n leading spaces from every line.
func stripIndent(text string, n int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		k := 0
		for k < n && k < len(line) && line[k] == ' ' {
			k++
		}
		lines[i] = line[k:]
	}
	return strings.Join(lines, "\n")
}

// stripQuoteMarkers removes the leading "> " (or ">") of every quoted line.
func stripQuoteMarkers(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		rest := strings.TrimLeft(line, " ")
		if !strings.HasPrefix(rest, ">") {
			continue
		}
		rest = rest[1:]
		lines[i] = strings.TrimPrefix(rest, " ")
	}
	return strings.Join(lines, "\n")
}
