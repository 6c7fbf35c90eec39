// Package parser tokenizes Markdown into mdast tokens.
//
// Tokenization is an ordered rule match: the rules of the active context
// are tried in turn against the remaining input and the first one that
// matches consumes a prefix and yields one token. Block rules run over the
// whole document; inline rules run lazily over block content, mostly from
// the extractors of two-phase tokens once every link definition is known.
package parser

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/mdast"
)

// Parser holds the state of one parse: the rule contexts, the context in
// effect and the document's link definitions. A Parser must not be shared
// between goroutines; create one per document.
type Parser struct {
	opts      config.Options
	blockCtx  *mdast.Context
	inlineCtx *mdast.Context
	ctx       *mdast.Context
	links     mdast.LinkTable
}

// New creates a parser. Nil rule sets fall back to the stock rules for
// opts.
func New(opts config.Options, block, inline *RuleSet) *Parser {
	if block == nil {
		block = NewBlockRules(opts)
	}
	if inline == nil {
		inline = NewInlineRules(opts)
	}
	p := &Parser{
		opts:      opts,
		blockCtx:  block.Context(),
		inlineCtx: inline.Context(),
		links:     mdast.LinkTable{},
	}
	p.ctx = p.blockCtx
	return p
}

// Options returns the options the parser was created with.
func (p *Parser) Options() config.Options {
	return p.opts
}

// Links returns the link definitions collected so far.
func (p *Parser) Links() mdast.LinkTable {
	return p.links
}

// Context implements mdast.Parser.
func (p *Parser) Context() *mdast.Context {
	return p.ctx
}

// SwitchContext makes ctx the context in effect and returns the previous
// one.
func (p *Parser) SwitchContext(ctx *mdast.Context) *mdast.Context {
	prev := p.ctx
	p.ctx = ctx
	return prev
}

// Tokenize lexes a normalized document with the block rules at top level.
func (p *Parser) Tokenize(src mdast.SourceInfo) ([]mdast.Token, error) {
	return p.TokenizeBlock(src, true, false)
}

// TokenizeBlock lexes src with the block rules. top and inBlockquote
// select the rules that are only eligible at the top level or outside
// quotes.
func (p *Parser) TokenizeBlock(src mdast.SourceInfo, top, inBlockquote bool) ([]mdast.Token, error) {
	src.Text = blankSpaceLines(src.Text)

	prev := p.SwitchContext(p.blockCtx)
	defer p.SwitchContext(prev)

	c := NewCursor(src)
	c.Top = top
	c.InBlockquote = inBlockquote
	return p.run(c)
}

// TokenizeInline implements mdast.Parser. The inline context stays in
// effect for the whole span, so variables set by one token (such as an
// open <a> tag) are seen by the following ones.
func (p *Parser) TokenizeInline(src mdast.SourceInfo) ([]mdast.Token, error) {
	prev := p.ctx
	if prev.Kind() != mdast.InlineContext {
		p.ctx = p.inlineCtx
	}
	defer p.SwitchContext(prev)

	return p.run(NewCursor(src))
}

// tokenizeInlineWith lexes src in a context derived from the current one
// with vars overridden.
func (p *Parser) tokenizeInlineWith(src mdast.SourceInfo, vars map[string]any) ([]mdast.Token, error) {
	base := p.ctx
	if base.Kind() != mdast.InlineContext {
		base = p.inlineCtx
	}
	prev := p.SwitchContext(base.CreateContext(vars))
	defer p.SwitchContext(prev)

	return p.run(NewCursor(src))
}

// Info builds the provenance of a token produced by rule in the current
// context.
func (p *Parser) Info(rule mdast.Rule, src mdast.SourceInfo) mdast.TokenInfo {
	return mdast.NewInfo(rule, p.ctx, src)
}

func (p *Parser) run(c *Cursor) ([]mdast.Token, error) {
	var tokens []mdast.Token
	for !c.EOF() {
		tok, err := p.next(c)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func (p *Parser) next(c *Cursor) (mdast.Token, error) {
	start := c.Pos()
	for _, r := range p.ctx.Rules() {
		rule, ok := r.(Rule)
		if !ok {
			return nil, fmt.Errorf("rule %s: %T cannot match input", r.Name(), r)
		}
		tok, err := rule.TryMatch(p, c)
		if err != nil {
			return nil, err
		}
		if tok == nil {
			c.Reset(start)
			continue
		}
		if c.Pos() == start {
			return nil, newParseError(c, ErrEmptyMatch, "rule "+rule.Name()+" matched without consuming input")
		}
		return tok, nil
	}
	return nil, newParseError(c, ErrNoRuleMatched,
		fmt.Sprintf("cannot tokenize %s markdown, no rule of [%s] matched",
			p.ctx.Kind(), strings.Join(ruleNames(p.ctx), ", ")))
}

func ruleNames(ctx *mdast.Context) []string {
	rules := ctx.Rules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = mdast.RuleName(r)
	}
	return names
}
