package manifest

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/cargo-neat/pkg/errors"
)

// hasWildcard reports whether pattern contains glob metacharacters.
func hasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// resolveMembers expands member patterns relative to dir and removes excluded
// directories. It returns the manifest paths of the resulting members, sorted.
//
// A literal pattern that does not name a crate directory is a GLOB_ERROR. In
// strict mode the first such error is returned; otherwise they are collected
// in warnings and resolution continues. Wildcard patterns may match nothing,
// and matches without a Cargo.toml are skipped.
func resolveMembers(dir string, patterns, excludes []string, strict bool) (members []string, warnings []error, err error) {
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, gerr := expandPattern(dir, pattern)
		if gerr != nil {
			if strict {
				return nil, nil, gerr
			}
			warnings = append(warnings, gerr)
			continue
		}
		for _, m := range matches {
			if isExcluded(dir, m, excludes) {
				continue
			}
			manifestPath := filepath.Join(m, FileName)
			if _, statErr := os.Stat(manifestPath); statErr != nil {
				if hasWildcard(pattern) {
					continue
				}
				gerr := errors.New(errors.ErrCodeGlob,
					"workspace member %q in %s has no %s", pattern, filepath.Join(dir, FileName), FileName).
					WithPath(filepath.Join(dir, FileName))
				if strict {
					return nil, nil, gerr
				}
				warnings = append(warnings, gerr)
				continue
			}
			if !seen[manifestPath] {
				seen[manifestPath] = true
				members = append(members, manifestPath)
			}
		}
	}
	slices.Sort(members)
	return members, warnings, nil
}

// expandPattern returns the directories pattern names, relative to dir.
func expandPattern(dir, pattern string) ([]string, error) {
	manifestPath := filepath.Join(dir, FileName)
	clean := path.Clean(filepath.ToSlash(pattern))

	if !hasWildcard(clean) {
		target := filepath.Join(dir, filepath.FromSlash(clean))
		if info, err := os.Stat(target); err != nil || !info.IsDir() {
			return nil, errors.New(errors.ErrCodeGlob,
				"workspace member %q in %s matched no directory", pattern, manifestPath).WithPath(manifestPath)
		}
		return []string{target}, nil
	}

	if !doublestar.ValidatePattern(clean) {
		return nil, errors.New(errors.ErrCodeGlob,
			"workspace member %q in %s is not a valid glob", pattern, manifestPath).WithPath(manifestPath)
	}

	// SplitPattern keeps leading "../" segments out of the fs.FS pattern.
	base, rest := doublestar.SplitPattern(clean)
	root := filepath.Join(dir, filepath.FromSlash(base))
	matches, err := doublestar.Glob(os.DirFS(root), rest)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGlob, err,
			"expand workspace member %q in %s", pattern, manifestPath).WithPath(manifestPath)
	}

	var dirs []string
	for _, m := range matches {
		full := filepath.Join(root, filepath.FromSlash(m))
		if info, err := os.Stat(full); err == nil && info.IsDir() && !skipDir(filepath.Base(full)) {
			dirs = append(dirs, full)
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}

// isExcluded reports whether member (absolute) is removed by one of the
// workspace exclude entries. An entry excludes the directory it names and
// everything beneath it; entries may also be globs.
func isExcluded(dir, member string, excludes []string) bool {
	rel, err := filepath.Rel(dir, member)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, ex := range excludes {
		ex = path.Clean(filepath.ToSlash(ex))
		if rel == ex || strings.HasPrefix(rel, ex+"/") {
			return true
		}
		if hasWildcard(ex) {
			if ok, _ := doublestar.Match(ex, rel); ok {
				return true
			}
		}
	}
	return false
}
