// Package scan extracts the identifiers a crate's sources reference.
//
// The scan is textual: every identifier-shaped token in every source file
// counts, whether it appears in a use path, an attribute, a macro invocation
// or a string literal. Macro-generated and cfg-gated uses are therefore never
// missed, at the cost of the occasional token that coincidentally matches a
// dependency name.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/cargo-neat/pkg/errors"
)

// SourceDirs are the conventional source roots of a crate, relative to its
// directory.
var SourceDirs = []string{"src", "examples", "tests", "benches"}

// Extension is the suffix of files that are scanned.
const Extension = ".rs"

// Result is the outcome of scanning one crate.
type Result struct {
	Identifiers IdentifierSet
	Files       []string // files read successfully, sorted
	Errors      []error  // IO_ERROR per unreadable file or directory
}

// Scan reads every source file of the crate in dir: all .rs files under
// [SourceDirs] plus extra, which holds the build script and any explicit
// target paths (relative to dir, missing files are ignored). An extra file
// outside dir itself and outside [SourceDirs] also brings in every .rs file
// beneath its directory, where `mod` declarations find their files. Nested
// crates (subdirectories with their own Cargo.toml) and target/ are skipped.
//
// Unreadable files do not fail the scan; they are recorded in Result.Errors
// and the identifier set is built from what could be read. Only context
// cancellation returns an error.
func Scan(ctx context.Context, dir string, extra ...string) (*Result, error) {
	res := &Result{Identifiers: make(IdentifierSet)}

	files := make(map[string]bool)
	scanned := make(map[string]bool)
	for _, sub := range SourceDirs {
		if err := collect(ctx, filepath.Join(dir, sub), files, res); err != nil {
			return nil, err
		}
	}
	for _, rel := range extra {
		if rel == "" {
			continue
		}
		p := rel
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, rel)
		}
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		files[p] = true

		// A target outside the conventional roots pulls in its module tree.
		parent := filepath.Dir(p)
		if parent == filepath.Clean(dir) || scanned[parent] || inSourceDir(dir, parent) {
			continue
		}
		scanned[parent] = true
		if err := collect(ctx, parent, files, res); err != nil {
			return nil, err
		}
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			res.Errors = append(res.Errors, errors.Wrap(errors.ErrCodeIO, err, "read %s", p).WithPath(p))
			continue
		}
		Tokenize(data, res.Identifiers)
		res.Files = append(res.Files, p)
	}
	return res, nil
}

// inSourceDir reports whether path lies in one of the [SourceDirs] of dir.
func inSourceDir(dir, path string) bool {
	for _, sub := range SourceDirs {
		rel, err := filepath.Rel(filepath.Join(dir, sub), path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// collect adds the .rs files beneath root to files.
func collect(ctx context.Context, root string, files map[string]bool, res *Result) error {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			res.Errors = append(res.Errors, errors.Wrap(errors.ErrCodeIO, err, "walk %s", path).WithPath(path))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if d.Name() == "target" || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if _, err := os.Stat(filepath.Join(path, "Cargo.toml")); err == nil {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), Extension) {
			files[path] = true
		}
		return nil
	})
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}
