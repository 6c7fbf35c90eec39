package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/mdlite/pkg/config"
)

// envVarPrefix is the prefix for all mdlite environment variables.
const envVarPrefix = "MDLITE_"

// envVar binds one environment variable to a config field.
type envVar struct {
	suffix      string
	description string
	apply       func(cfg *config.Config, value string) error
}

func boolVar(suffix, description string, field func(*config.Config) *bool) envVar {
	return envVar{
		suffix:      suffix,
		description: description,
		apply: func(cfg *config.Config, value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVarPrefix+suffix, value)
			}
			*field(cfg) = b
			return nil
		},
	}
}

func intVar(suffix, description string, field func(*config.Config) *int) envVar {
	return envVar{
		suffix:      suffix,
		description: description,
		apply: func(cfg *config.Config, value string) error {
			i, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid integer for %s: %q", envVarPrefix+suffix, value)
			}
			*field(cfg) = i
			return nil
		},
	}
}

func stringVar(suffix, description string, field func(*config.Config) *string) envVar {
	return envVar{
		suffix:      suffix,
		description: description,
		apply: func(cfg *config.Config, value string) error {
			*field(cfg) = value
			return nil
		},
	}
}

func sliceVar(suffix, description string, field func(*config.Config) *[]string) envVar {
	return envVar{
		suffix:      suffix,
		description: description,
		apply: func(cfg *config.Config, value string) error {
			*field(cfg) = parseSliceValue(value)
			return nil
		},
	}
}

// envVars lists every supported environment variable.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	{
		suffix:      "FORMAT",
		description: "Output format: html, json or markdown",
		apply: func(cfg *config.Config, value string) error {
			format, err := config.ParseOutputFormat(value)
			if err != nil {
				return fmt.Errorf("%sFORMAT: %w", envVarPrefix, err)
			}
			cfg.Format = format
			return nil
		},
	},
	intVar("JOBS", "Number of parallel workers (0 = auto)", func(c *config.Config) *int { return &c.Jobs }),
	sliceVar("IGNORE", "Comma-separated list of ignore patterns", func(c *config.Config) *[]string { return &c.Ignore }),
	sliceVar("EXTENSIONS", "Comma-separated list of Markdown file extensions",
		func(c *config.Config) *[]string { return &c.Extensions }),
	boolVar("GFM", "Enable GitHub-flavored rules", func(c *config.Config) *bool { return &c.Markdown.Gfm }),
	boolVar("TABLES", "Enable GFM tables", func(c *config.Config) *bool { return &c.Markdown.Tables }),
	boolVar("PEDANTIC", "Follow markdown.pl quirks", func(c *config.Config) *bool { return &c.Markdown.Pedantic }),
	boolVar("SANITIZE", "Filter raw HTML and unsafe links", func(c *config.Config) *bool { return &c.Markdown.Sanitize }),
	boolVar("SMARTYPANTS", "Typographic punctuation", func(c *config.Config) *bool { return &c.Markdown.SmartyPants }),
	boolVar("BREAKS", "Render single newlines as <br>", func(c *config.Config) *bool { return &c.Markdown.Breaks }),
	boolVar("SMART_LISTS", "Split lists on bullet change", func(c *config.Config) *bool { return &c.Markdown.SmartLists }),
	boolVar("MANGLE", "Obfuscate email autolinks", func(c *config.Config) *bool { return &c.Markdown.Mangle }),
	boolVar("XHTML", "Emit self-closing void tags", func(c *config.Config) *bool { return &c.Markdown.XHTML }),
	stringVar("HEADER_PREFIX", "Heading id prefix", func(c *config.Config) *string { return &c.Markdown.HeaderPrefix }),
	stringVar("LANG_PREFIX", "Code block language class prefix",
		func(c *config.Config) *string { return &c.Markdown.LangPrefix }),
	boolVar("EXPORT_SOURCE_INFO", "Add source attributes to rendered blocks",
		func(c *config.Config) *bool { return &c.Markdown.ShouldExportSourceInfo }),
	intVar("MAX_EXTRACT_COUNT", "Maximum deferred-token passes",
		func(c *config.Config) *int { return &c.Markdown.MaxExtractCount }),
	boolVar("DETECT_LANGUAGE", "Guess the language of unlabeled fences",
		func(c *config.Config) *bool { return &c.Markdown.DetectLanguage }),
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDLITE_ (e.g., MDLITE_FORMAT).
// Unset and empty variables are skipped.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, v := range envVars {
		value := os.Getenv(envVarPrefix + v.suffix)
		if value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return err
		}
	}

	return nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns every supported environment variable with its
// description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for _, v := range envVars {
		out[envVarPrefix+v.suffix] = v.description
	}
	return out
}

// EnvVarNames returns the supported environment variable names, sorted.
func EnvVarNames() []string {
	names := make([]string, 0, len(envVars))
	for _, v := range envVars {
		names = append(names, envVarPrefix+v.suffix)
	}
	sort.Strings(names)
	return names
}
