package rewrite

import (
	"errors"

	"github.com/yaklabco/mdlite/pkg/mdast"
)

// TokenRewriter replaces tokens. Rewrite returns nil to leave t unchanged.
type TokenRewriter interface {
	Rewrite(e *Engine, t mdast.Token) (mdast.Token, error)
}

// Initializer is implemented by rewriters that need the engine before the
// first token is visited, for example to seed a variable.
type Initializer interface {
	Initialize(e *Engine) error
}

// Null returns the identity rewriter.
func Null() TokenRewriter {
	return nullRewriter{}
}

type nullRewriter struct{}

func (nullRewriter) Rewrite(*Engine, mdast.Token) (mdast.Token, error) {
	return nil, nil
}

// Func returns a rewriter that calls fn for tokens whose concrete type is
// T and ignores every other token.
func Func[T mdast.Token](fn func(e *Engine, t T) (mdast.Token, error)) TokenRewriter {
	return funcRewriter[T]{fn: fn}
}

type funcRewriter[T mdast.Token] struct {
	fn func(e *Engine, t T) (mdast.Token, error)
}

func (f funcRewriter[T]) Rewrite(e *Engine, t mdast.Token) (mdast.Token, error) {
	typed, ok := t.(T)
	if !ok {
		return nil, nil
	}
	return f.fn(e, typed)
}

// Sequence tries rewriters in order; the first replacement wins.
func Sequence(rewriters ...TokenRewriter) TokenRewriter {
	return sequence(rewriters)
}

type sequence []TokenRewriter

func (s sequence) Rewrite(e *Engine, t mdast.Token) (mdast.Token, error) {
	for _, r := range s {
		out, err := r.Rewrite(e, t)
		if err != nil || out != nil {
			return out, err
		}
	}
	return nil, nil
}

func (s sequence) Initialize(e *Engine) error {
	return initializeAll(e, s...)
}

// Chain applies every rewriter in turn, each one seeing the previous
// replacement.
func Chain(rewriters ...TokenRewriter) TokenRewriter {
	return chain(rewriters)
}

type chain []TokenRewriter

func (c chain) Rewrite(e *Engine, t mdast.Token) (mdast.Token, error) {
	var result mdast.Token
	cur := t
	for _, r := range c {
		out, err := r.Rewrite(e, cur)
		if err != nil {
			return nil, err
		}
		if out != nil {
			result, cur = out, out
		}
	}
	return result, nil
}

func (c chain) Initialize(e *Engine) error {
	return initializeAll(e, c...)
}

// Loop applies inner to its own replacement until it declines or n
// applications have run.
func Loop(inner TokenRewriter, n int) TokenRewriter {
	return loop{inner: inner, n: n}
}

type loop struct {
	inner TokenRewriter
	n     int
}

func (l loop) Rewrite(e *Engine, t mdast.Token) (mdast.Token, error) {
	var result mdast.Token
	cur := t
	for range l.n {
		out, err := l.inner.Rewrite(e, cur)
		if err != nil {
			return nil, err
		}
		if out == nil {
			break
		}
		result, cur = out, out
	}
	return result, nil
}

func (l loop) Initialize(e *Engine) error {
	return initializeAll(e, l.inner)
}

func initializeAll(e *Engine, rewriters ...TokenRewriter) error {
	var errs []error
	for _, r := range rewriters {
		if init, ok := r.(Initializer); ok {
			errs = append(errs, init.Initialize(e))
		}
	}
	return errors.Join(errs...)
}
