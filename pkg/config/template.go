package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every option. If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// OptionInfo describes one engine option for template generation.
type OptionInfo struct {
	Key         string
	Description string
}

// optionInfos documents the markdown section, in template order.
//
//nolint:gochecknoglobals // Read-only documentation table.
var optionInfos = []OptionInfo{
	{Key: "gfm", Description: "Enable GitHub-flavored rules: fenced code, strikethrough, bare URLs and emoji shortcodes."},
	{Key: "tables", Description: "Enable GFM tables (requires gfm)."},
	{Key: "pedantic", Description: "Follow the original markdown.pl behavior where it differs."},
	{Key: "sanitize", Description: "Drop javascript: and vbscript: links and filter raw HTML through an allow-list."},
	{Key: "sanitize_allow_tags", Description: "Tags kept in sanitize mode. Empty uses the built-in allow-list."},
	{Key: "smartypants", Description: "Render typographic quotes, dashes and ellipses."},
	{Key: "breaks", Description: "Turn single newlines inside paragraphs into line breaks."},
	{Key: "smart_lists", Description: "Start a new list when the bullet character changes."},
	{Key: "mangle", Description: "Obfuscate email autolinks with character entities."},
	{Key: "xhtml", Description: "Emit self-closing void tags such as <br/>."},
	{Key: "header_prefix", Description: "Prefix added to every generated heading id."},
	{Key: "lang_prefix", Description: "Prefix added to the language class of code blocks."},
	{Key: "export_source_info", Description: "Add sourceFile and line attributes to rendered blocks."},
	{Key: "max_extract_count", Description: "Maximum passes spent resolving deferred tokens."},
	{Key: "detect_language", Description: "Guess the language of fenced code that has no info string."},
}

// OptionInfos returns the documented option table.
func OptionInfos() []OptionInfo {
	return append([]OptionInfo(nil), optionInfos...)
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate()
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Default output format for "mdlite render": html, json or markdown
format: html

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"

markdown:
  gfm: true
  tables: true
  smart_lists: true
  # sanitize: false
  # header_prefix: ""
  lang_prefix: lang-
  max_extract_count: 10
`)

	return buf.Bytes()
}

// generateFullTemplate documents every option with its default value.
func generateFullTemplate() ([]byte, error) {
	defaults := NewConfig()

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`
#
# This template lists every option with its default value.

# Default output format for "mdlite render": html, json or markdown
format: html

# File extensions picked up when a directory is given
extensions:
  - .md
  - .markdown

# File patterns to ignore (glob patterns)
ignore:
  - "vendor/**"
  - "node_modules/**"
  - ".git/**"

markdown:
`)

	values, err := optionValues(defaults.Markdown)
	if err != nil {
		return nil, err
	}

	for _, info := range optionInfos {
		buf.WriteString(fmt.Sprintf("\n  # %s\n", wrapComment(info.Description, commentWrapWidth)))
		buf.WriteString(fmt.Sprintf("  %s: %s\n", info.Key, values[info.Key]))
	}

	return buf.Bytes(), nil
}

// optionValues renders each option's value as a YAML scalar keyed by its
// YAML name.
func optionValues(opts Options) (map[string]string, error) {
	data, err := yaml.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}

	values := make(map[string]string, len(optionInfos))
	for _, info := range optionInfos {
		node, ok := raw[info.Key]
		switch {
		case !ok:
			values[info.Key] = "[]"
		case node.Value == "" && node.Kind == yaml.ScalarNode:
			values[info.Key] = `""`
		default:
			values[info.Key] = node.Value
		}
	}
	return values, nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// templateToJSON renders the default configuration as JSON. JSON has no
// comments, so both template flavors produce the same document.
func templateToJSON() ([]byte, error) {
	defaults := NewConfig()

	yamlBytes, err := defaults.ToYAML()
	if err != nil {
		return nil, err
	}

	var generic map[string]any
	if err := yaml.Unmarshal(yamlBytes, &generic); err != nil {
		return nil, fmt.Errorf("decode defaults: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdlite configuration
# See: https://github.com/yaklabco/mdlite`
}
