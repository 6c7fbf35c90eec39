package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds the Markdown files named by opts.Paths. Directories are
// walked recursively and hidden entries below them are skipped. Files
// named explicitly are kept even when hidden, but still honor the
// extension and glob filters. It returns sorted, de-duplicated absolute
// paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]struct{}),
		walked:     make(map[string]struct{}),
	}
	if d.exclude, err = compileGlobs(opts.ExcludeGlobs); err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if d.include, err = compileGlobs(opts.IncludeGlobs); err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}

	for _, p := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}
		if err := d.addPath(p); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// discoverer accumulates the files of one Discover call.
type discoverer struct {
	ctx        context.Context
	workDir    string
	extensions []string
	exclude    *globSet
	include    *globSet
	follow     bool

	seen   map[string]struct{}
	walked map[string]struct{}
	files  []string
}

func (d *discoverer) addPath(input string) error {
	abs := input
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(d.workDir, abs)
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat %s: %w", input, err)
	}
	if info.IsDir() {
		return d.walk(abs)
	}
	d.consider(abs)
	return nil
}

func (d *discoverer) walk(root string) error {
	if real, err := filepath.EvalSymlinks(root); err == nil {
		if _, ok := d.walked[real]; ok {
			return nil
		}
		d.walked[real] = struct{}{}
	}

	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := d.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		switch {
		case entry.IsDir():
			if hidden || (p != root && d.exclude.matchDir(d.rel(p))) {
				return filepath.SkipDir
			}
			return nil
		case hidden:
			return nil
		case entry.Type()&fs.ModeSymlink != 0:
			return d.symlink(p)
		default:
			d.consider(p)
			return nil
		}
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink handles a symlink met while walking. File links are treated as
// files; directory links are walked through their target when following
// is on. Broken links are skipped.
func (d *discoverer) symlink(p string) error {
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return nil //nolint:nilerr // broken links are skipped
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable targets are skipped
	}
	if !info.IsDir() {
		d.consider(p)
		return nil
	}
	if !d.follow {
		return nil
	}
	// Walking the target, not the link, keeps WalkDir from stopping at
	// the link itself.
	return d.walk(target)
}

// consider adds the file at abs when it passes the filters.
func (d *discoverer) consider(abs string) {
	if !hasMatchingExtension(abs, d.extensions) {
		return
	}
	rel := d.rel(abs)
	if d.exclude.match(rel) {
		return
	}
	if !d.include.empty() && !d.include.match(rel) {
		return
	}
	if _, ok := d.seen[abs]; ok {
		return
	}
	d.seen[abs] = struct{}{}
	d.files = append(d.files, abs)
}

// rel returns p relative to the working directory in slash form, or p
// itself when it lies elsewhere.
func (d *discoverer) rel(p string) string {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		rel = p
	}
	return filepath.ToSlash(rel)
}

func hasMatchingExtension(p string, extensions []string) bool {
	ext := filepath.Ext(p)
	return slices.ContainsFunc(extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// globSet is a compiled list of path patterns. Patterns containing a
// slash match the whole path relative to the working directory, where
// "*" stays within one segment and "**" spans any number of them. A
// leading "**/" also matches at the top level. Patterns without a slash
// match the base name.
type globSet struct {
	full []glob.Glob
	base []glob.Glob
}

func compileGlobs(patterns []string) (*globSet, error) {
	set := &globSet{}
	for _, raw := range patterns {
		pattern := strings.TrimPrefix(filepath.ToSlash(raw), "./")
		if pattern == "" {
			continue
		}

		variants := []string{pattern}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			variants = append(variants, rest)
		}

		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", raw, err)
			}
			if strings.Contains(pattern, "/") {
				set.full = append(set.full, g)
			} else {
				set.base = append(set.base, g)
			}
		}
	}
	return set, nil
}

func (s *globSet) empty() bool {
	return len(s.full) == 0 && len(s.base) == 0
}

// match reports whether the slash-separated relative path rel matches.
func (s *globSet) match(rel string) bool {
	for _, g := range s.full {
		if g.Match(rel) {
			return true
		}
	}
	name := path.Base(rel)
	for _, g := range s.base {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// matchDir is match for a directory, which "dir/**" also covers.
func (s *globSet) matchDir(rel string) bool {
	return s.match(rel) || s.match(rel+"/")
}
