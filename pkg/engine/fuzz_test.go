package engine_test

import (
	"context"
	"testing"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/engine"
)

// FuzzParse checks that no input panics the engine and that a document
// that parses also renders.
func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"",
		"# Title\n\ntext *em* **strong** `code`\n",
		"- a\n- b\n\n  c\n\n1. d\n",
		"| a | b |\n|---|:-:|\n| 1 | 2 |\n",
		"```go\nx\n```\n",
		"[ref]\n\n[ref]: http://example.com \"t\"\n",
		"> quote\n> > nested\n",
		"<div>\n*x*\n</div>\n",
		"Setext\n===\n\n***\n",
		"~~del~~ :smile: https://example.com\n",
		"\r\n\t\x00 ",
	} {
		f.Add(seed)
	}

	eng := engine.New(config.DefaultOptions())
	f.Fuzz(func(t *testing.T, text string) {
		doc, err := eng.Parse(context.Background(), "fuzz.md", text)
		if err != nil {
			return
		}
		renderer, err := eng.Renderer(config.FormatHTML)
		if err != nil {
			t.Fatalf("Renderer: %v", err)
		}
		if _, err := eng.Render(doc, renderer); err != nil {
			t.Fatalf("Render after successful Parse: %v", err)
		}
	})
}
