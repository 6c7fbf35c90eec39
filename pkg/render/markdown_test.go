package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/render"
)

func toMarkdown(t *testing.T, text string) string {
	t.Helper()

	opts := config.DefaultOptions()
	out, err := render.Render(render.NewMarkdownRenderer(opts), parse(t, opts, text))
	require.NoError(t, err)
	return out
}

func TestMarkdown_Normalizes(t *testing.T) {
	t.Parallel()

	in := "Title\n=====\n\nSome *em* and __strong__ text.\n\n* a\n* b\n\nBetween.\n\n" +
		"3. one\n4. two\n\n> quote\n\n```go\nx := 1\n```\n\n| a | b |\n|:-|-:|\n| 1 | 2 |\n\n***\n\n" +
		"[ref][r]\n\n[r]: http://x.com \"T\"\n"
	want := "# Title\n\nSome *em* and **strong** text.\n\n- a\n- b\n\nBetween.\n\n" +
		"3. one\n4. two\n\n> quote\n\n```go\nx := 1\n```\n\n| a | b |\n| :-- | --: |\n| 1 | 2 |\n\n***\n\n" +
		"[ref](http://x.com \"T\")\n"

	got := toMarkdown(t, in)
	assert.Equal(t, want, got)
	assert.Equal(t, want, toMarkdown(t, got))
}

func TestMarkdown_Idempotent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "nested list", in: "- a\n  - b\n- c\n", want: "- a\n  - b\n- c\n"},
		{name: "loose list", in: "- a\n\n- b\n", want: "- a\n\n- b\n"},
		{name: "adjacent lists", in: "- a\n* b\n", want: "- a\n\n* b\n"},
		{name: "empty document", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := toMarkdown(t, tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, toMarkdown(t, got))
		})
	}
}
