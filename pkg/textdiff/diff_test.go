package textdiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlite/pkg/textdiff"
)

func TestGenerate_Identical(t *testing.T) {
	t.Parallel()

	d, err := textdiff.Generate("doc.md", []byte("a\nb\n"), []byte("a\nb\n"))
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.False(t, d.HasChanges())
	assert.Empty(t, d.FullString())
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		original  string
		modified  string
		additions int
		deletions int
		contains  []string
	}{
		{
			name:      "replaced line",
			original:  "Title\n=====\n\ntext\n",
			modified:  "# Title\n\ntext\n",
			additions: 1,
			deletions: 2,
			contains:  []string{"--- a/doc.md\n", "+++ b/doc.md\n", "-Title\n", "-=====\n", "+# Title\n", " text\n"},
		},
		{
			name:      "appended line",
			original:  "a\n",
			modified:  "a\nb\n",
			additions: 1,
			contains:  []string{"+b\n"},
		},
		{
			name:      "removed line",
			original:  "a\nb\nc\n",
			modified:  "a\nc\n",
			deletions: 1,
			contains:  []string{"-b\n", "@@ -1,"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := textdiff.Generate("/doc.md", []byte(tt.original), []byte(tt.modified))
			require.NoError(t, err)
			require.True(t, d.HasChanges())

			assert.Equal(t, tt.additions, d.Additions)
			assert.Equal(t, tt.deletions, d.Deletions)
			for _, want := range tt.contains {
				assert.Contains(t, d.String(), want)
			}
			assert.Equal(t, "diff --git a/doc.md b/doc.md\n"+d.String(), d.FullString())
		})
	}
}
