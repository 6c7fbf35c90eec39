package parser

import (
	"strings"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/emoji"
	"github.com/yaklabco/mdlite/pkg/mdast"
)

// Inline rule names, in default priority order.
const (
	RuleEscape     = "Escape"
	RuleAutoLink   = "AutoLink"
	RuleURL        = "Url"
	RuleTag        = "Tag"
	RuleLink       = "Link"
	RuleRefLink    = "RefLink"
	RuleNoLink     = "NoLink"
	RuleStrong     = "Strong"
	RuleEm         = "Em"
	RuleInlineCode = "InlineCode"
	RuleBr         = "Br"
	RuleDel        = "Del"
	RuleEmoji      = "Emoji"
	RuleInlineText = "InlineText"
)

// NewInlineRules returns the stock inline rules enabled by opts.
func NewInlineRules(opts config.Options) *RuleSet {
	g := newInlineGrammar(opts)

	rules := []Rule{
		newRegexRule(RuleEscape, g.escape, buildEscape),
		newRegexRule(RuleAutoLink, g.autolink, buildAutoLink),
	}
	if g.url != nil {
		rules = append(rules, newRegexRule(RuleURL, g.url, buildURL).WithGuard(outsideLink))
	}
	rules = append(rules,
		newRegexRule(RuleTag, g.tag, buildTag),
		newRegexRule(RuleLink, g.link, buildLink),
		newRegexRule(RuleRefLink, g.refLink, buildRefLink),
		newRegexRule(RuleNoLink, g.noLink, buildRefLink),
		newRegexRule(RuleStrong, g.strong, buildStrong),
		newRegexRule(RuleEm, g.em, buildEm),
		newRegexRule(RuleInlineCode, g.code, buildCodeSpan),
		newRegexRule(RuleBr, g.br, buildBr),
	)
	if g.del != nil {
		rules = append(rules, newRegexRule(RuleDel, g.del, buildDel))
	}
	if g.emoji != nil {
		rules = append(rules, newRegexRule(RuleEmoji, g.emoji, buildEmoji))
	}
	rules = append(rules, newRegexRule(RuleInlineText, g.text, buildInlineText))

	return NewRuleSet(mdast.InlineContext, rules...)
}

func buildEscape(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	return &mdast.EscapeToken{TokenInfo: p.Info(m.Rule(), src), Char: m.Group(1)}, nil
}

func buildAutoLink(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	info := p.Info(m.Rule(), src)

	text := m.Group(1)
	link := &mdast.LinkToken{TokenInfo: info, LinkType: mdast.LinkTypeAuto, Href: text}
	if m.Group(2) == "@" {
		if len(text) > len("mailto:") && strings.EqualFold(text[:len("mailto:")], "mailto:") {
			text = text[len("mailto:"):]
		}
		link.Href = "mailto:" + text
		link.Email = true
	}
	link.Inlines = []mdast.Token{&mdast.TextToken{TokenInfo: p.Info(m.Rule(), m.Source(src, 1)), Text: text}}
	return link, nil
}

func buildURL(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	info := p.Info(m.Rule(), src)
	return &mdast.LinkToken{
		TokenInfo: info,
		LinkType:  mdast.LinkTypeURL,
		Href:      src.Text,
		Inlines:   []mdast.Token{&mdast.TextToken{TokenInfo: info, Text: src.Text}},
	}, nil
}

// buildTag keeps raw HTML. An opening <a> tag puts the rest of the span in
// link context so bare URLs inside it are not linked again.
func buildTag(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	tok := &mdast.TagToken{TokenInfo: p.Info(m.Rule(), src), Raw: src.Text}

	lower := strings.ToLower(src.Text)
	inLink := p.ctx.BoolVariable(mdast.VarInLink)
	switch {
	case !inLink && strings.HasPrefix(lower, "<a "):
		p.SwitchContext(p.ctx.CreateContext(map[string]any{mdast.VarInLink: true}))
	case inLink && strings.HasPrefix(lower, "</a>"):
		p.SwitchContext(p.ctx.CreateContext(map[string]any{mdast.VarInLink: false}))
	}
	return tok, nil
}

func buildLink(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	def := mdast.LinkDefinition{Href: m.Group(2), Title: m.Group(3)}
	return outputLink(p, m, src, mdast.LinkTypeInline, def)
}

// buildRefLink resolves [text][label], [label][] and [label] against the
// document's link definitions. An unknown label yields its first
// character as text and the rest is lexed again.
func buildRefLink(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	label := m.Group(2)
	if label == "" {
		label = m.Group(1)
	}
	def, ok := p.links.Lookup(label)
	if !ok || def.Href == "" {
		src := c.Consume(1)
		return &mdast.TextToken{TokenInfo: p.Info(m.Rule(), src), Text: src.Text}, nil
	}
	src := c.ConsumeMatch(m)
	return outputLink(p, m, src, mdast.LinkTypeReference, def)
}

func outputLink(p *Parser, m *Match, src mdast.SourceInfo, typ mdast.LinkType, def mdast.LinkDefinition) (mdast.Token, error) {
	info := p.Info(m.Rule(), src)
	if strings.HasPrefix(src.Text, "!") {
		return &mdast.ImageToken{
			TokenInfo: info,
			LinkType:  typ,
			Href:      def.Href,
			Title:     def.Title,
			Alt:       m.Group(1),
		}, nil
	}

	inlines, err := p.tokenizeInlineWith(m.Source(src, 1), map[string]any{mdast.VarInLink: true})
	if err != nil {
		return nil, err
	}
	return &mdast.LinkToken{
		TokenInfo: info,
		LinkType:  typ,
		Href:      def.Href,
		Title:     def.Title,
		Inlines:   inlines,
	}, nil
}

func buildStrong(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	inlines, err := tokenizeGroup(p, m, src, 2, 1)
	if err != nil {
		return nil, err
	}
	return &mdast.StrongToken{TokenInfo: p.Info(m.Rule(), src), Inlines: inlines}, nil
}

func buildEm(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	inlines, err := tokenizeGroup(p, m, src, 2, 1)
	if err != nil {
		return nil, err
	}
	return &mdast.EmToken{TokenInfo: p.Info(m.Rule(), src), Inlines: inlines}, nil
}

func buildDel(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	inlines, err := tokenizeGroup(p, m, src, 1)
	if err != nil {
		return nil, err
	}
	return &mdast.DelToken{TokenInfo: p.Info(m.Rule(), src), Inlines: inlines}, nil
}

// tokenizeGroup lexes the first participating group of groups.
func tokenizeGroup(p *Parser, m *Match, src mdast.SourceInfo, groups ...int) ([]mdast.Token, error) {
	_, i := m.firstGroup(groups...)
	if i == 0 {
		return nil, nil
	}
	return p.TokenizeInline(m.Source(src, i))
}

func buildCodeSpan(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	return &mdast.CodeSpanToken{
		TokenInfo: p.Info(m.Rule(), src),
		Code:      strings.TrimSpace(m.Group(2)),
	}, nil
}

func buildBr(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	return &mdast.BrToken{TokenInfo: p.Info(m.Rule(), src)}, nil
}

// buildEmoji declines unknown shortcodes so they stay text.
func buildEmoji(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	code, ok := emoji.Lookup(m.Group(1))
	if !ok {
		return nil, nil
	}
	src := c.ConsumeMatch(m)
	return &mdast.ExtensionToken{
		TokenInfo: p.Info(m.Rule(), src),
		Name:      emoji.ExtensionName,
		Payload:   code,
	}, nil
}

func buildInlineText(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	return &mdast.TextToken{TokenInfo: p.Info(m.Rule(), src), Text: src.Text}, nil
}
