package manifest

import (
	"cmp"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/cargo-neat/pkg/errors"
)

// LocateOptions configures manifest discovery.
type LocateOptions struct {
	// LenientGlobs downgrades unmatched literal member patterns from a fatal
	// GLOB_ERROR to a warning in Layout.Issues.
	LenientGlobs bool
	// MembersOnly drops crates that no workspace claims.
	MembersOnly bool
}

// CrateRef points at a crate manifest and the workspace that owns it.
type CrateRef struct {
	Path      string     // absolute manifest path
	Workspace *Workspace // nil for standalone crates
}

// Layout is the result of discovery.
type Layout struct {
	Root       string       // absolute directory discovery started from
	Workspaces []*Workspace // parsed workspace roots, sorted by path
	Crates     []CrateRef   // crates to analyze, sorted by path
	Issues     []error      // non-fatal problems (unparsable manifests, lenient glob misses)
}

// probe is the subset of a manifest discovery needs.
type probe struct {
	path  string
	cargo *cargoFile
}

// Locate discovers every manifest under root and groups crates by workspace.
//
// It fails with NOT_FOUND when root does not exist or holds no Cargo.toml,
// and with GLOB_ERROR when a literal member pattern resolves to nothing
// (unless opts.LenientGlobs is set). Manifests that fail to parse are reported
// in Layout.Issues and left out; if none parse at all, the PARSE_ERROR of the
// first one is returned.
func Locate(ctx context.Context, root string, opts LocateOptions) (*Layout, error) {
	if err := errors.ValidateRoot(root); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", root)
	}

	paths, err := findManifests(ctx, abs)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no %s found under %s", FileName, abs).WithPath(abs)
	}

	layout := &Layout{Root: abs}
	probes := make(map[string]*probe, len(paths))
	var firstErr error
	load := func(path string) *probe {
		if p, ok := probes[path]; ok {
			return p
		}
		cargo, err := readCargoFile(path)
		if err != nil {
			layout.Issues = append(layout.Issues, err)
			if firstErr == nil {
				firstErr = err
			}
			probes[path] = nil
			return nil
		}
		p := &probe{path: path, cargo: cargo}
		probes[path] = p
		return p
	}
	for _, path := range paths {
		load(path)
	}

	owner := make(map[string]*Workspace)
	for _, p := range workspaceProbes(probes) {
		ws, err := workspaceFrom(p.path, p.cargo)
		if err != nil {
			layout.Issues = append(layout.Issues, err)
			continue
		}
		members, warnings, err := resolveMembers(ws.Dir, ws.MemberPatterns, ws.Excludes, !opts.LenientGlobs)
		if err != nil {
			return nil, err
		}
		layout.Issues = append(layout.Issues, warnings...)
		if ws.HasPackage && !slices.Contains(members, ws.Path) {
			members = append(members, ws.Path)
			slices.Sort(members)
		}
		ws.Members = members
		layout.Workspaces = append(layout.Workspaces, ws)

		for _, m := range members {
			if _, claimed := owner[m]; claimed {
				continue
			}
			// Members may live outside root (path = "../shared").
			if load(m) != nil {
				owner[m] = ws
			}
		}
	}
	slices.SortFunc(layout.Workspaces, func(a, b *Workspace) int { return cmp.Compare(a.Path, b.Path) })

	for path, p := range probes {
		if p == nil || p.cargo.Package == nil {
			continue
		}
		ws := owner[path]
		if ws == nil && opts.MembersOnly {
			continue
		}
		layout.Crates = append(layout.Crates, CrateRef{Path: path, Workspace: ws})
	}
	slices.SortFunc(layout.Crates, func(a, b CrateRef) int { return cmp.Compare(a.Path, b.Path) })
	slices.SortFunc(layout.Issues, func(a, b error) int {
		return cmp.Or(cmp.Compare(errors.GetPath(a), errors.GetPath(b)), cmp.Compare(a.Error(), b.Error()))
	})

	if len(layout.Workspaces) == 0 && len(layout.Crates) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return layout, nil
}

// workspaceProbes returns the probes declaring [workspace], shallowest first,
// so an outer workspace claims its members before a nested one.
func workspaceProbes(probes map[string]*probe) []*probe {
	var out []*probe
	for _, p := range probes {
		if p != nil && p.cargo.Workspace != nil {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b *probe) int {
		return cmp.Or(
			cmp.Compare(strings.Count(a.path, string(filepath.Separator)), strings.Count(b.path, string(filepath.Separator))),
			cmp.Compare(a.path, b.path),
		)
	})
	return out
}

// findManifests walks root and returns every Cargo.toml outside skipped
// directories, sorted.
func findManifests(ctx context.Context, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable subdirectories are skipped like target/.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == FileName {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "walk %s", root).WithPath(root)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "walk %s", root).WithPath(root)
	}
	slices.Sort(paths)
	return paths, nil
}

// skipDir reports whether a directory never holds analyzable manifests:
// build output and dot-directories such as .git.
func skipDir(name string) bool {
	return name == "target" || strings.HasPrefix(name, ".")
}
