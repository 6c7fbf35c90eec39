package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdlite/internal/ui/pretty"
	"github.com/yaklabco/mdlite/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		mode  runner.Mode
		want  string
	}{
		{
			name:  "render",
			stats: runner.Stats{FilesProcessed: 3},
			mode:  runner.ModeRender,
			want:  "Rendered 3 files\n",
		},
		{
			name:  "render to directory",
			stats: runner.Stats{FilesProcessed: 1, FilesWritten: 1},
			mode:  runner.ModeRender,
			want:  "Rendered 1 file (1 written)\n",
		},
		{
			name:  "render with failures",
			stats: runner.Stats{FilesProcessed: 2, FilesErrored: 1},
			mode:  runner.ModeRender,
			want:  "Rendered 2 files, 1 failed\n",
		},
		{
			name:  "all formatted",
			stats: runner.Stats{FilesProcessed: 5},
			mode:  runner.ModeFormat,
			want:  "All formatted (5 files checked)\n",
		},
		{
			name:  "needs formatting",
			stats: runner.Stats{FilesProcessed: 12, FilesChanged: 3},
			mode:  runner.ModeFormat,
			want:  "3 of 12 files need formatting\n",
		},
		{
			name:  "one needs formatting",
			stats: runner.Stats{FilesProcessed: 1, FilesChanged: 1},
			mode:  runner.ModeFormat,
			want:  "1 of 1 file needs formatting\n",
		},
		{
			name:  "written with skips",
			stats: runner.Stats{FilesProcessed: 4, FilesChanged: 3, FilesWritten: 2, FilesSkipped: 1},
			mode:  runner.ModeFormat,
			want:  "Formatted 2 files, 1 skipped\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats, tt.mode))
		})
	}
}

func TestFormatSummary_Render(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(runner.Stats{FilesDiscovered: 4, FilesProcessed: 4, Tokens: 40}, runner.ModeRender)

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files discovered:  4")
	assert.Contains(t, result, "Tokens:            40")
	assert.Contains(t, result, "Run succeeded")
	assert.NotContains(t, result, "Files failed")
}

func TestFormatSummary_Failures(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(runner.Stats{FilesDiscovered: 2, FilesProcessed: 1, FilesErrored: 1}, runner.ModeRender)

	assert.Contains(t, result, "Files failed:      1")
	assert.Contains(t, result, "Run failed")
}

func TestFormatSummary_NeedsFormatting(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(runner.Stats{FilesDiscovered: 3, FilesProcessed: 3, FilesChanged: 2}, runner.ModeFormat)

	assert.Contains(t, result, "Files changed:     2")
	assert.Contains(t, result, "Some files need formatting")
}
