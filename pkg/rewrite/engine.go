// Package rewrite walks token trees and replaces tokens without mutating
// them.
//
// An Engine applies one TokenRewriter to every token of an array, then
// recurses into the children of composite tokens. Arrays are copied only
// when a slot changes, so untouched subtrees are shared between the input
// and the output. An Engine also owns a variable store and a post-process
// registry scoped to one logical pass over a document.
package rewrite

import (
	"fmt"
	"slices"

	"github.com/yaklabco/mdlite/pkg/mdast"
)

// PostProcessFunc is a deferred whole-document fixup run by Complete.
type PostProcessFunc func(e *Engine) error

type postProcess struct {
	name string
	fn   PostProcessFunc
}

// Engine runs a rewriter over token trees. It is not safe for concurrent
// use.
type Engine struct {
	parser      mdast.Parser
	rewriter    TokenRewriter
	parents     []mdast.Token
	vars        map[string]any
	post        []postProcess
	initialized bool
}

// New creates an engine. p is handed to rewriters that resolve two-phase
// tokens and may be nil otherwise. A nil rewriter means Null.
func New(p mdast.Parser, rewriter TokenRewriter) *Engine {
	if rewriter == nil {
		rewriter = Null()
	}
	return &Engine{
		parser:   p,
		rewriter: rewriter,
		vars:     map[string]any{},
	}
}

// Parser returns the parser the engine was created with.
func (e *Engine) Parser() mdast.Parser {
	return e.parser
}

// Rewrite returns tokens with every replacement applied. The input array
// is never modified; it is returned as is when nothing changed.
func (e *Engine) Rewrite(tokens []mdast.Token) ([]mdast.Token, error) {
	if !e.initialized {
		e.initialized = true
		if init, ok := e.rewriter.(Initializer); ok {
			if err := init.Initialize(e); err != nil {
				return nil, fmt.Errorf("initialize rewriter: %w", err)
			}
		}
	}
	return e.RewriteTokens(tokens)
}

// RewriteTokens implements mdast.ChildRewriter.
func (e *Engine) RewriteTokens(tokens []mdast.Token) ([]mdast.Token, error) {
	var out []mdast.Token
	for i, tok := range tokens {
		next, err := e.rewriteToken(tok)
		if err != nil {
			return nil, err
		}
		if next == tok {
			continue
		}
		if out == nil {
			out = slices.Clone(tokens)
		}
		out[i] = next
	}
	if out == nil {
		return tokens, nil
	}
	return out, nil
}

func (e *Engine) rewriteToken(tok mdast.Token) (mdast.Token, error) {
	if tok == nil {
		return nil, nil
	}
	replaced, err := e.rewriter.Rewrite(e, tok)
	if err != nil {
		return nil, err
	}
	if replaced != nil {
		tok = replaced
	}

	rw, ok := tok.(mdast.Rewritable)
	if !ok {
		return tok, nil
	}
	e.parents = append(e.parents, tok)
	defer func() { e.parents = e.parents[:len(e.parents)-1] }()
	return rw.RewriteChildren(e)
}

// Parents returns the ancestors of the token being rewritten, nearest
// first.
func (e *Engine) Parents() []mdast.Token {
	parents := slices.Clone(e.parents)
	slices.Reverse(parents)
	return parents
}

// HasVariable reports whether name is set.
func (e *Engine) HasVariable(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// Variable returns the value of name.
func (e *Engine) Variable(name string) (any, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// SetVariable sets name to value.
func (e *Engine) SetVariable(name string, value any) {
	e.vars[name] = value
}

// RemoveVariable deletes name.
func (e *Engine) RemoveVariable(name string) {
	delete(e.vars, name)
}

// SetPostProcess registers fn to run on Complete. Registering a name again
// replaces its callback and keeps its original position.
func (e *Engine) SetPostProcess(name string, fn PostProcessFunc) {
	for i := range e.post {
		if e.post[i].name == name {
			e.post[i].fn = fn
			return
		}
	}
	e.post = append(e.post, postProcess{name: name, fn: fn})
}

// Complete runs the registered post-process callbacks once each, in
// registration order, and clears the registry. It stops at the first
// error.
func (e *Engine) Complete() error {
	post := e.post
	e.post = nil
	for _, p := range post {
		if err := p.fn(e); err != nil {
			return fmt.Errorf("post-process %s: %w", p.name, err)
		}
	}
	return nil
}
