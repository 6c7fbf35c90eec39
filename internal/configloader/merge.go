package configloader

import "github.com/yaklabco/mdlite/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans: only true in override is applied; false cannot unset base
//   - Slices: override replaces base entirely if override is non-nil
//
// merge serves CLI flags, where an unset flag is indistinguishable from its
// zero value. Config files are layered by decoding instead.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base
	result.Markdown = mergeOptions(base.Markdown, override.Markdown)

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Report != "" {
		result.Report = override.Report
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.OutDir != "" {
		result.OutDir = override.OutDir
	}
	if override.Write {
		result.Write = true
	}
	if override.Diff {
		result.Diff = true
	}
	if override.Check {
		result.Check = true
	}
	if override.Backup {
		result.Backup = true
	}

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// mergeOptions merges engine options. Function hooks in override replace
// those of base when set.
func mergeOptions(base, override config.Options) config.Options {
	result := base.Clone()

	flags := []struct {
		dst *bool
		src bool
	}{
		{&result.Gfm, override.Gfm},
		{&result.Tables, override.Tables},
		{&result.Pedantic, override.Pedantic},
		{&result.Sanitize, override.Sanitize},
		{&result.SmartyPants, override.SmartyPants},
		{&result.Breaks, override.Breaks},
		{&result.SmartLists, override.SmartLists},
		{&result.Mangle, override.Mangle},
		{&result.XHTML, override.XHTML},
		{&result.ShouldExportSourceInfo, override.ShouldExportSourceInfo},
		{&result.DetectLanguage, override.DetectLanguage},
	}
	for _, f := range flags {
		if f.src {
			*f.dst = true
		}
	}

	if override.HeaderPrefix != "" {
		result.HeaderPrefix = override.HeaderPrefix
	}
	if override.LangPrefix != "" {
		result.LangPrefix = override.LangPrefix
	}
	if override.MaxExtractCount != 0 {
		result.MaxExtractCount = override.MaxExtractCount
	}
	if override.SanitizeAllowTags != nil {
		result.SanitizeAllowTags = append([]string(nil), override.SanitizeAllowTags...)
	}
	if override.Highlight != nil {
		result.Highlight = override.Highlight
	}
	if override.Sanitizer != nil {
		result.Sanitizer = override.Sanitizer
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
