package mdast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(t Token) error

// Walk performs a pre-order traversal of tokens and their descendants.
// If walkFunc returns a non-nil error, the walk stops immediately and
// returns that error.
func Walk(tokens []Token, walkFunc WalkFunc) error {
	for _, t := range tokens {
		if t == nil {
			continue
		}
		if err := walkFunc(t); err != nil {
			return err
		}
		if err := Walk(Children(t), walkFunc); err != nil {
			return err
		}
	}
	return nil
}

// WalkContextFunc is the function signature for WalkWithParents callbacks.
// parents lists the ancestors of t, nearest first.
type WalkContextFunc func(t Token, parents []Token) error

// WalkWithParents performs a pre-order traversal that also reports the
// ancestor chain of each token.
func WalkWithParents(tokens []Token, fn WalkContextFunc) error {
	var stack []Token
	var walk func(ts []Token) error
	walk = func(ts []Token) error {
		for _, t := range ts {
			if t == nil {
				continue
			}
			parents := make([]Token, len(stack))
			for i := range stack {
				parents[i] = stack[len(stack)-1-i]
			}
			if err := fn(t, parents); err != nil {
				return err
			}
			children := Children(t)
			if len(children) == 0 {
				continue
			}
			stack = append(stack, t)
			err := walk(children)
			stack = stack[:len(stack)-1]
			if err != nil {
				return err
			}
		}
		return nil
	}
	return walk(tokens)
}

// FindAll returns all tokens matching the predicate.
func FindAll(tokens []Token, predicate func(t Token) bool) []Token {
	var result []Token

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(tokens, func(t Token) error {
		if predicate(t) {
			result = append(result, t)
		}
		return nil
	})

	return result
}

// FindFirst returns the first token matching the predicate, or nil if none found.
func FindFirst(tokens []Token, predicate func(t Token) bool) Token {
	var found Token

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(tokens, func(t Token) error {
		if predicate(t) {
			found = t
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all tokens of the specified kind.
func FindByKind(tokens []Token, kind TokenKind) []Token {
	return FindAll(tokens, func(t Token) bool {
		return t.Kind() == kind
	})
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
