package parser

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/yaklabco/mdlite/pkg/mdast"
)

// Rule is a tokenizer rule. TryMatch either declines by returning a nil
// token, or consumes a prefix of the cursor's input and returns the token
// it produced. The parser rewinds the cursor when a rule declines.
type Rule interface {
	mdast.Rule
	TryMatch(p *Parser, c *Cursor) (mdast.Token, error)
}

// GuardFunc decides whether a rule is eligible at the cursor.
type GuardFunc func(p *Parser, c *Cursor) bool

// BuildFunc turns a match at the cursor into a token. It must consume at
// least one rune, normally with c.ConsumeMatch(m). Returning a nil token
// declines the match.
type BuildFunc func(p *Parser, c *Cursor, m *Match) (mdast.Token, error)

// RegexRule is a rule driven by a pattern anchored at the cursor.
type RegexRule struct {
	name  string
	re    *regexp2.Regexp
	guard GuardFunc
	build BuildFunc
}

// NewRegexRule compiles pattern into a rule. Patterns use the regexp2
// syntax and should start with "^".
func NewRegexRule(name, pattern string, build BuildFunc) (*RegexRule, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile rule %s: %w", name, err)
	}
	return newRegexRule(name, re, build), nil
}

func newRegexRule(name string, re *regexp2.Regexp, build BuildFunc) *RegexRule {
	return &RegexRule{name: name, re: re, build: build}
}

// Name implements mdast.Rule.
func (r *RegexRule) Name() string {
	return r.name
}

// Pattern returns the compiled pattern source.
func (r *RegexRule) Pattern() string {
	return r.re.String()
}

// WithGuard returns a copy of r that only matches when guard holds.
func (r *RegexRule) WithGuard(guard GuardFunc) *RegexRule {
	clone := *r
	clone.guard = guard
	return &clone
}

// TryMatch implements Rule.
func (r *RegexRule) TryMatch(p *Parser, c *Cursor) (mdast.Token, error) {
	if r.guard != nil && !r.guard(p, c) {
		return nil, nil
	}
	m, err := c.Match(r.re)
	if err != nil || m == nil {
		return nil, err
	}
	m.rule = r
	return r.build(p, c, m)
}

// Guards shared by the stock rule tables.

func atTop(_ *Parser, c *Cursor) bool {
	return c.Top
}

func atTopOutsideBlockquote(_ *Parser, c *Cursor) bool {
	return c.Top && !c.InBlockquote
}

func outsideLink(p *Parser, _ *Cursor) bool {
	return !p.Context().BoolVariable(mdast.VarInLink)
}
