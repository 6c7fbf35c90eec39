package mdast

// ChildRewriter rewrites an array of child tokens. The rewrite engine
// implements it; composite tokens call it for each child array they own.
type ChildRewriter interface {
	RewriteTokens(tokens []Token) ([]Token, error)
}

// Rewritable is implemented by composite tokens. RewriteChildren returns
// the receiver when no child array changed and a new token otherwise.
type Rewritable interface {
	Token
	RewriteChildren(r ChildRewriter) (Token, error)
}

// Container is implemented by tokens that own children. Tables return
// their header cells followed by every row's cells.
type Container interface {
	Token
	Children() []Token
}

// SameTokens reports whether a and b are the same array (same length and
// backing storage). The rewrite engine returns its input array unchanged
// when nothing was replaced, so this detects "no change" cheaply.
func SameTokens(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

func rewriteSlice(r ChildRewriter, tokens []Token) ([]Token, bool, error) {
	out, err := r.RewriteTokens(tokens)
	if err != nil {
		return nil, false, err
	}
	return out, !SameTokens(out, tokens), nil
}

// Children returns the children of t, or nil when t is not a container.
func Children(t Token) []Token {
	if c, ok := t.(Container); ok {
		return c.Children()
	}
	return nil
}
