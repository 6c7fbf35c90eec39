// Package config defines core configuration types for mdlite.
// These types are pure data structures with no dependency on the loader
// that fills them in.
package config

// Options holds the Markdown engine options. Every field except the
// function hooks can be set from a config file.
type Options struct {
	// Gfm enables GitHub-flavored rules: fences, strikethrough, bare URLs
	// and emoji shortcodes.
	Gfm bool `yaml:"gfm"`

	// Tables enables GFM tables. Requires Gfm.
	Tables bool `yaml:"tables"`

	// Pedantic follows the original markdown.pl quirks where they differ.
	Pedantic bool `yaml:"pedantic"`

	// Sanitize drops unsafe link schemes and filters raw HTML.
	Sanitize bool `yaml:"sanitize"`

	// SanitizeAllowTags lists the HTML tags kept in sanitize mode when no
	// Sanitizer is set. Empty means the built-in allow-list.
	SanitizeAllowTags []string `yaml:"sanitize_allow_tags,omitempty"`

	// SmartyPants converts quotes, dashes and ellipses to typographic
	// entities.
	SmartyPants bool `yaml:"smartypants"`

	// Breaks turns single newlines inside paragraphs into <br>.
	Breaks bool `yaml:"breaks"`

	// SmartLists starts a new list when the bullet character changes.
	SmartLists bool `yaml:"smart_lists"`

	// Mangle obfuscates email autolinks with character entities.
	Mangle bool `yaml:"mangle"`

	// XHTML emits self-closing void tags.
	XHTML bool `yaml:"xhtml"`

	// HeaderPrefix is prepended to every heading id.
	HeaderPrefix string `yaml:"header_prefix"`

	// LangPrefix is prepended to the language class of code blocks.
	LangPrefix string `yaml:"lang_prefix"`

	// ShouldExportSourceInfo adds source file and line attributes to
	// rendered block elements.
	ShouldExportSourceInfo bool `yaml:"export_source_info"`

	// MaxExtractCount bounds the passes spent resolving deferred tokens.
	MaxExtractCount int `yaml:"max_extract_count"`

	// DetectLanguage guesses the language of fenced code without an info
	// string.
	DetectLanguage bool `yaml:"detect_language"`

	// Highlight, when set, formats code blocks. A result that is empty or
	// equal to the input is treated as "not highlighted" and escaped.
	Highlight func(code, lang string) string `yaml:"-"`

	// Sanitizer, when set, replaces the built-in tag filter in sanitize
	// mode.
	Sanitizer func(html string) string `yaml:"-"`
}

// DefaultMaxExtractCount is the default bound on deferred-token passes.
const DefaultMaxExtractCount = 10

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Gfm:             true,
		Tables:          true,
		SmartLists:      true,
		LangPrefix:      "lang-",
		MaxExtractCount: DefaultMaxExtractCount,
	}
}

// Clone returns a copy of o that shares no slices with it.
func (o Options) Clone() Options {
	clone := o
	if o.SanitizeAllowTags != nil {
		clone.SanitizeAllowTags = append([]string(nil), o.SanitizeAllowTags...)
	}
	return clone
}

// OutputFormat specifies what documents are rendered to.
type OutputFormat string

const (
	FormatHTML     OutputFormat = "html"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
)

// ReportFormat specifies how per-file outcomes are reported.
type ReportFormat string

const (
	ReportText  ReportFormat = "text"
	ReportTable ReportFormat = "table"
	ReportJSON  ReportFormat = "json"
)

// Config is the root configuration structure for mdlite.
type Config struct {
	// Markdown holds the engine options.
	Markdown Options `yaml:"markdown"`

	// Format is the default output format of `mdlite render`.
	Format OutputFormat `yaml:"format"`

	// Extensions lists the file extensions picked up when a directory is
	// given.
	Extensions []string `yaml:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// OutDir receives rendered files; empty means stdout.
	OutDir string `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Report specifies the outcome report format.
	Report ReportFormat `yaml:"-"`

	// Write rewrites files in place (fmt).
	Write bool `yaml:"-"`

	// Diff prints a unified diff instead of the formatted output (fmt).
	Diff bool `yaml:"-"`

	// Check fails when a file is not already formatted (fmt).
	Check bool `yaml:"-"`

	// Backup keeps a sidecar copy of each file rewritten in place (fmt).
	Backup bool `yaml:"-"`
}

// DefaultExtensions are the Markdown file extensions discovered by default.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Markdown:   DefaultOptions(),
		Format:     FormatHTML,
		Extensions: DefaultExtensions(),
		Ignore:     nil,
		Report:     ReportText,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}
