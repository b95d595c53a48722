package manifest

import (
	"cmp"
	"slices"
)

// FileName is the manifest file name cargo looks for in every crate directory.
const FileName = "Cargo.toml"

// Scope identifies which dependency table an entry was declared in.
type Scope string

const (
	ScopeNormal Scope = "normal"
	ScopeDev    Scope = "dev"
	ScopeBuild  Scope = "build"
)

func (s Scope) rank() int {
	switch s {
	case ScopeDev:
		return 1
	case ScopeBuild:
		return 2
	default:
		return 0
	}
}

// Source identifies where a dependency is fetched from.
type Source string

const (
	SourceRegistry Source = "registry"
	SourcePath     Source = "path"
	SourceGit      Source = "git"
)

// DependencySpec is one declared dependency.
type DependencySpec struct {
	Name              string   `json:"name"`                // manifest key
	PackageRename     string   `json:"package,omitempty"`   // real crate name when it differs from Name
	InheritsWorkspace bool     `json:"workspace,omitempty"` // declared with `workspace = true`
	VersionOrPath     string   `json:"version,omitempty"`   // requirement, "path:<p>" or "git:<url>[#ref]"
	Source            Source   `json:"source"`
	Scope             Scope    `json:"scope"`
	Target            string   `json:"target,omitempty"` // cfg expression or triple for [target.*] tables
	Features          []string `json:"features,omitempty"`
}

// CrateName returns the name of the crate the entry resolves to.
func (d DependencySpec) CrateName() string {
	if d.PackageRename != "" {
		return d.PackageRename
	}
	return d.Name
}

// CompareDependencies orders dependencies by name, then target, then scope.
func CompareDependencies(a, b DependencySpec) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Target, b.Target); c != 0 {
		return c
	}
	return cmp.Compare(a.Scope.rank(), b.Scope.rank())
}

// SortDependencies sorts deps in place with [CompareDependencies].
func SortDependencies(deps []DependencySpec) {
	slices.SortFunc(deps, CompareDependencies)
}

// Workspace is the parsed content of a workspace root manifest.
type Workspace struct {
	Path               string                    // absolute manifest path
	Dir                string                    // directory holding the manifest
	SharedDependencies map[string]DependencySpec // [workspace.dependencies]
	MemberPatterns     []string                  // [workspace] members, as written
	Excludes           []string                  // [workspace] exclude, as written
	Members            []string                  // resolved member manifest paths, sorted
	Ignored            []string                  // [workspace.metadata.cargo-neat] ignored
	HasPackage         bool                      // the root also declares [package]
}

// SharedNames returns the shared dependency keys in sorted order.
func (w *Workspace) SharedNames() []string {
	names := make([]string, 0, len(w.SharedDependencies))
	for name := range w.SharedDependencies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TargetTables holds the dependency tables of one [target.<cfg>] section.
type TargetTables struct {
	Dependencies      map[string]DependencySpec
	DevDependencies   map[string]DependencySpec
	BuildDependencies map[string]DependencySpec
}

// CrateManifest is the parsed content of a crate manifest.
type CrateManifest struct {
	Path               string                    // absolute manifest path
	Dir                string                    // crate directory
	Name               string                    // [package] name
	Dependencies       map[string]DependencySpec // [dependencies]
	DevDependencies    map[string]DependencySpec // [dev-dependencies]
	BuildDependencies  map[string]DependencySpec // [build-dependencies]
	TargetDependencies map[string]TargetTables   // [target.<cfg>.*]
	Build              string                    // build script, relative to Dir; empty if none
	TargetPaths        []string                  // explicit lib/bin/example/test/bench paths, relative to Dir
	Ignored            []string                  // [package.metadata.cargo-neat] ignored
	Workspace          string                    // owning workspace manifest, empty when standalone
	Warnings           []error                   // non-fatal problems found while parsing
}

// AllDependencies returns every declared entry across all scopes and targets,
// sorted with [CompareDependencies].
func (c *CrateManifest) AllDependencies() []DependencySpec {
	var out []DependencySpec
	add := func(m map[string]DependencySpec) {
		for _, d := range m {
			out = append(out, d)
		}
	}
	add(c.Dependencies)
	add(c.DevDependencies)
	add(c.BuildDependencies)
	for _, t := range c.TargetDependencies {
		add(t.Dependencies)
		add(t.DevDependencies)
		add(t.BuildDependencies)
	}
	SortDependencies(out)
	return out
}
