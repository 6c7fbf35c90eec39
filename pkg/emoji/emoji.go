// Package emoji resolves GitHub emoji shortcodes such as :smile: and
// provides the extension token the tokenizer emits for them.
package emoji

import (
	"sync"

	"github.com/yuin/goldmark-emoji/definition"
)

// ExtensionName is the extension token name used for emoji.
const ExtensionName = "emoji"

// Shortcode is the payload of an emoji extension token.
type Shortcode struct {
	// Name is the shortcode without colons, e.g. "smile".
	Name string

	// Unicode is the emoji text.
	Unicode string
}

//nolint:gochecknoglobals // Lazily built read-only table.
var (
	tableOnce sync.Once
	table     definition.Emojis
)

func github() definition.Emojis {
	tableOnce.Do(func() {
		table = definition.Github()
	})
	return table
}

// Lookup returns the emoji for a shortcode name (without colons).
func Lookup(name string) (Shortcode, bool) {
	e, ok := github().Get(name)
	if !ok || e == nil {
		return Shortcode{}, false
	}
	return Shortcode{Name: name, Unicode: string(e.Unicode)}, true
}
