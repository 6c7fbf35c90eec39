package mdast

import "maps"

// ContextKind distinguishes block-level from inline-level lexing.
type ContextKind uint8

const (
	// BlockContext lexes block constructs.
	BlockContext ContextKind = iota

	// InlineContext lexes spans inside block content.
	InlineContext
)

// String returns the context kind name.
func (k ContextKind) String() string {
	switch k {
	case BlockContext:
		return "block"
	case InlineContext:
		return "inline"
	default:
		return "unknown"
	}
}

// Well-known context variable names.
const (
	// VarInLink is true while tokenizing the text of a link.
	VarInLink = "inLink"
)

// Context is an immutable lexing context: an ordered rule list plus named
// variables. Deriving a context never touches the parent.
type Context struct {
	kind  ContextKind
	rules []Rule
	vars  map[string]any
}

// NewContext creates a context of kind with the given rules.
func NewContext(kind ContextKind, rules []Rule) *Context {
	return &Context{
		kind:  kind,
		rules: append([]Rule(nil), rules...),
		vars:  map[string]any{},
	}
}

// Kind returns whether this is a block or inline context.
func (c *Context) Kind() ContextKind {
	if c == nil {
		return BlockContext
	}
	return c.kind
}

// Rules returns the ordered rule list. Callers must not modify it.
func (c *Context) Rules() []Rule {
	if c == nil {
		return nil
	}
	return c.rules
}

// Variable returns the named variable.
func (c *Context) Variable(name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.vars[name]
	return v, ok
}

// BoolVariable returns the named variable as a bool, false if unset.
func (c *Context) BoolVariable(name string) bool {
	v, ok := c.Variable(name)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Variables returns a copy of all variables.
func (c *Context) Variables() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	return maps.Clone(c.vars)
}

// CreateContext returns a sibling context with the same kind and rules
// whose variables are the receiver's overridden by vars.
func (c *Context) CreateContext(vars map[string]any) *Context {
	merged := c.Variables()
	maps.Copy(merged, vars)
	return &Context{
		kind:  c.Kind(),
		rules: c.Rules(),
		vars:  merged,
	}
}

// WithRules returns a sibling context with a different rule list.
func (c *Context) WithRules(rules []Rule) *Context {
	return &Context{
		kind:  c.Kind(),
		rules: append([]Rule(nil), rules...),
		vars:  c.Variables(),
	}
}
