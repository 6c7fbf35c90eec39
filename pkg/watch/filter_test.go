package watch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestWatcher_Handle(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "site")
	w := &watcher{
		trees:      []string{filepath.Join(root, "docs")},
		files:      map[string]bool{filepath.Join(root, "README.txt"): true},
		extensions: []string{".md", ".markdown"},
		skip:       []string{filepath.Join(root, "docs", "out")},
	}

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"markdown write", "docs/a.md", fsnotify.Write, true},
		{"extension case folded", "docs/sub/B.MARKDOWN", fsnotify.Create, true},
		{"remove", "docs/a.md", fsnotify.Remove, true},
		{"other extension", "docs/a.html", fsnotify.Write, false},
		{"chmod only", "docs/a.md", fsnotify.Chmod, false},
		{"swap file", "docs/.a.md.swp", fsnotify.Write, false},
		{"skipped directory", "docs/out/a.md", fsnotify.Write, false},
		{"file root", "README.txt", fsnotify.Write, true},
		{"sibling of file root", "NOTES.md", fsnotify.Write, false},
		{"outside trees", "other/a.md", fsnotify.Write, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ev := fsnotify.Event{Name: filepath.Join(root, filepath.FromSlash(tt.path)), Op: tt.op}
			assert.Equal(t, tt.want, w.handle(context.Background(), ev))
		})
	}
}

func TestWithin(t *testing.T) {
	t.Parallel()

	dir := filepath.Join("a", "docs")
	assert.True(t, within(dir, dir))
	assert.True(t, within(filepath.Join(dir, "x.md"), dir))
	assert.False(t, within(filepath.Join("a", "docs2", "x.md"), dir))
}
