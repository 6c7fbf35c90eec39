package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdlite/pkg/parser"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "adds final newline", input: "a", want: "a\n"},
		{name: "crlf", input: "a\r\nb\r\n", want: "a\nb\n"},
		{name: "lone cr", input: "a\rb", want: "a\nb\n"},
		{name: "tabs", input: "\tx\ty\n", want: "    x    y\n"},
		{name: "nbsp", input: "a\u00a0b\n", want: "a b\n"},
		{name: "space only lines", input: "a\n   \nb\n  ", want: "a\n\nb\n\n"},
		{name: "tab only line", input: "a\n\t\nb\n", want: "a\n\nb\n"},
		{name: "untouched", input: "# T\n\ntext  \n", want: "# T\n\ntext  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parser.Normalize(tt.input))
		})
	}
}

func TestNormalize_PreservesLineCount(t *testing.T) {
	t.Parallel()

	// Five lines, the last one unterminated.
	got := parser.Normalize("a\r\n\tb\r\n   \r\nc\rd")
	assert.Equal(t, "a\n    b\n\nc\nd\n", got)
	assert.Equal(t, 5, strings.Count(got, "\n"))
}
