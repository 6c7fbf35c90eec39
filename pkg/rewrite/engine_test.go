package rewrite_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlite/pkg/mdast"
	"github.com/yaklabco/mdlite/pkg/rewrite"
)

func text(s string) *mdast.TextToken {
	return &mdast.TextToken{Text: s}
}

func para(inlines ...mdast.Token) *mdast.ParagraphToken {
	return &mdast.ParagraphToken{Inlines: inlines}
}

// upper replaces text "a" with "A".
var upper = rewrite.Func(func(_ *rewrite.Engine, t *mdast.TextToken) (mdast.Token, error) {
	if t.Text != "a" {
		return nil, nil
	}
	return text("A"), nil
})

func TestEngine_NullKeepsArray(t *testing.T) {
	t.Parallel()

	tokens := []mdast.Token{para(text("a")), text("b")}
	out, err := rewrite.New(nil, nil).Rewrite(tokens)
	require.NoError(t, err)
	assert.True(t, mdast.SameTokens(tokens, out))
}

func TestEngine_CopyOnWrite(t *testing.T) {
	t.Parallel()

	untouched := para(text("x"))
	changed := para(text("a"))
	tokens := []mdast.Token{untouched, changed}

	out, err := rewrite.New(nil, upper).Rewrite(tokens)
	require.NoError(t, err)

	// The input is never modified.
	assert.Same(t, changed, tokens[1])
	assert.Equal(t, "a", changed.Inlines[0].(*mdast.TextToken).Text)

	// Untouched subtrees are shared; changed ones are new.
	assert.Same(t, untouched, out[0])
	assert.NotSame(t, changed, out[1])
	assert.Equal(t, "A", out[1].(*mdast.ParagraphToken).Inlines[0].(*mdast.TextToken).Text)
}

func TestEngine_Parents(t *testing.T) {
	t.Parallel()

	leaf := text("leaf")
	em := &mdast.EmToken{Inlines: []mdast.Token{leaf}}
	root := para(em)

	var got []mdast.Token
	probe := rewrite.Func(func(e *rewrite.Engine, t *mdast.TextToken) (mdast.Token, error) {
		got = e.Parents()
		return nil, nil
	})

	_, err := rewrite.New(nil, probe).Rewrite([]mdast.Token{root})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Same(t, em, got[0])
	assert.Same(t, root, got[1])
}

func TestEngine_RecursesIntoReplacement(t *testing.T) {
	t.Parallel()

	wrap := rewrite.Func(func(_ *rewrite.Engine, t *mdast.BlockTextToken) (mdast.Token, error) {
		return para(text(t.Text)), nil
	})
	out, err := rewrite.New(nil, rewrite.Sequence(wrap, upper)).Rewrite([]mdast.Token{
		&mdast.BlockTextToken{Text: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, "A", mdast.PlainText(out))
}

func TestEngine_ErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	failing := rewrite.Func(func(*rewrite.Engine, *mdast.TextToken) (mdast.Token, error) {
		return nil, boom
	})

	_, err := rewrite.New(nil, failing).Rewrite([]mdast.Token{para(text("x"))})
	assert.ErrorIs(t, err, boom)
}

func TestSequence_FirstReplacementWins(t *testing.T) {
	t.Parallel()

	first := rewrite.Func(func(*rewrite.Engine, *mdast.TextToken) (mdast.Token, error) {
		return text("first"), nil
	})
	second := rewrite.Func(func(*rewrite.Engine, *mdast.TextToken) (mdast.Token, error) {
		return text("second"), nil
	})

	out, err := rewrite.Sequence(rewrite.Null(), first, second).Rewrite(nil, text("x"))
	require.NoError(t, err)
	assert.Equal(t, "first", out.(*mdast.TextToken).Text)
}

func TestChain_AppliesAll(t *testing.T) {
	t.Parallel()

	appendB := rewrite.Func(func(_ *rewrite.Engine, t *mdast.TextToken) (mdast.Token, error) {
		return text(t.Text + "b"), nil
	})

	out, err := rewrite.Chain(appendB, rewrite.Null(), appendB).Rewrite(nil, text("a"))
	require.NoError(t, err)
	assert.Equal(t, "abb", out.(*mdast.TextToken).Text)
}

func TestLoop(t *testing.T) {
	t.Parallel()

	// Each application peels one level of emphasis.
	peel := rewrite.Func(func(_ *rewrite.Engine, t *mdast.EmToken) (mdast.Token, error) {
		return t.Inlines[0], nil
	})
	nested := &mdast.EmToken{Inlines: []mdast.Token{
		&mdast.EmToken{Inlines: []mdast.Token{
			&mdast.EmToken{Inlines: []mdast.Token{text("x")}},
		}},
	}}

	tests := []struct {
		name     string
		n        int
		wantKind mdast.TokenKind
	}{
		{name: "zero", n: 0, wantKind: mdast.KindInvalid},
		{name: "one", n: 1, wantKind: mdast.KindEm},
		{name: "until declined", n: 10, wantKind: mdast.KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := rewrite.Loop(peel, tt.n).Rewrite(nil, nested)
			require.NoError(t, err)
			if tt.wantKind == mdast.KindInvalid {
				assert.Nil(t, out)
				return
			}
			assert.Equal(t, tt.wantKind, out.Kind())
		})
	}
}

func TestEngine_Variables(t *testing.T) {
	t.Parallel()

	e := rewrite.New(nil, nil)
	assert.False(t, e.HasVariable("ids"))

	e.SetVariable("ids", 3)
	v, ok := e.Variable("ids")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	e.RemoveVariable("ids")
	assert.False(t, e.HasVariable("ids"))
}

func TestEngine_Complete(t *testing.T) {
	t.Parallel()

	e := rewrite.New(nil, nil)
	var order []string
	record := func(name string) rewrite.PostProcessFunc {
		return func(*rewrite.Engine) error {
			order = append(order, name)
			return nil
		}
	}

	e.SetPostProcess("a", record("a"))
	e.SetPostProcess("b", record("b"))
	e.SetPostProcess("a", record("a2"))

	require.NoError(t, e.Complete())
	assert.Equal(t, []string{"a2", "b"}, order)

	// The registry is cleared.
	require.NoError(t, e.Complete())
	assert.Len(t, order, 2)
}

func TestEngine_CompleteError(t *testing.T) {
	t.Parallel()

	e := rewrite.New(nil, nil)
	boom := errors.New("boom")
	e.SetPostProcess("fail", func(*rewrite.Engine) error { return boom })

	err := e.Complete()
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fail")
}

type seeding struct {
	rewrite.TokenRewriter
	calls int
}

func (s *seeding) Initialize(e *rewrite.Engine) error {
	s.calls++
	e.SetVariable("seeded", true)
	return nil
}

func TestEngine_InitializerRunsOnce(t *testing.T) {
	t.Parallel()

	s := &seeding{TokenRewriter: rewrite.Null()}
	e := rewrite.New(nil, rewrite.Sequence(s))

	_, err := e.Rewrite([]mdast.Token{text("x")})
	require.NoError(t, err)
	_, err = e.Rewrite([]mdast.Token{text("y")})
	require.NoError(t, err)

	assert.Equal(t, 1, s.calls)
	assert.True(t, e.HasVariable("seeded"))
}
