package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cargo-neat/pkg/errors"
)

// metadataKey is the table under [package.metadata] and [workspace.metadata]
// that configures this tool.
const metadataKey = "cargo-neat"

type cargoFile struct {
	Package           *packageTable          `toml:"package"`
	Workspace         *workspaceTable        `toml:"workspace"`
	Dependencies      map[string]any         `toml:"dependencies"`
	DevDependencies   map[string]any         `toml:"dev-dependencies"`
	DevDependencies2  map[string]any         `toml:"dev_dependencies"`
	BuildDependencies map[string]any         `toml:"build-dependencies"`
	BuildDeps2        map[string]any         `toml:"build_dependencies"`
	Target            map[string]targetTable `toml:"target"`
	Lib               *targetPath            `toml:"lib"`
	Bin               []targetPath           `toml:"bin"`
	Example           []targetPath           `toml:"example"`
	Test              []targetPath           `toml:"test"`
	Bench             []targetPath           `toml:"bench"`
}

type packageTable struct {
	Name     string         `toml:"name"`
	Build    any            `toml:"build"`
	Metadata map[string]any `toml:"metadata"`
}

type workspaceTable struct {
	Members      []string       `toml:"members"`
	Exclude      []string       `toml:"exclude"`
	Dependencies map[string]any `toml:"dependencies"`
	Metadata     map[string]any `toml:"metadata"`
}

type targetTable struct {
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	DevDependencies2  map[string]any `toml:"dev_dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
	BuildDeps2        map[string]any `toml:"build_dependencies"`
}

type targetPath struct {
	Path string `toml:"path"`
}

// readCargoFile decodes the manifest at path.
func readCargoFile(path string) (*cargoFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path).WithPath(path)
	}
	var cargo cargoFile
	if _, err := toml.Decode(string(data), &cargo); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", path).WithPath(path)
	}
	return &cargo, nil
}

// ParseWorkspace reads the workspace root manifest at path. It fails with a
// PARSE_ERROR when the file is malformed and INVALID_MANIFEST when it has no
// [workspace] table. Members are left unresolved; [Locate] fills them in.
func ParseWorkspace(path string) (*Workspace, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	cargo, err := readCargoFile(path)
	if err != nil {
		return nil, err
	}
	return workspaceFrom(path, cargo)
}

func workspaceFrom(path string, cargo *cargoFile) (*Workspace, error) {
	if cargo.Workspace == nil {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "%s has no [workspace] table", path).WithPath(path)
	}
	ws := &Workspace{
		Path:               path,
		Dir:                filepath.Dir(path),
		SharedDependencies: make(map[string]DependencySpec, len(cargo.Workspace.Dependencies)),
		MemberPatterns:     cargo.Workspace.Members,
		Excludes:           cargo.Workspace.Exclude,
		Ignored:            ignoredNames(cargo.Workspace.Metadata),
		HasPackage:         cargo.Package != nil,
	}
	for _, name := range sortedKeys(cargo.Workspace.Dependencies) {
		dep, err := decodeDependency(name, cargo.Workspace.Dependencies[name], ScopeNormal, "")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", path).WithPath(path)
		}
		if dep.InheritsWorkspace {
			return nil, errors.New(errors.ErrCodeParse,
				"parse %s: workspace.dependencies.%s cannot inherit from itself", path, name).WithPath(path)
		}
		ws.SharedDependencies[name] = dep
	}
	return ws, nil
}

// ParseCrate reads the crate manifest at path. When ws is non-nil, entries
// marked `workspace = true` take their version, source and package rename
// from ws.SharedDependencies. Problems that cargo would reject but that do not
// prevent analysis (an inherited entry missing from the shared table, an
// invalid dependency key) are collected in CrateManifest.Warnings.
func ParseCrate(path string, ws *Workspace) (*CrateManifest, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	cargo, err := readCargoFile(path)
	if err != nil {
		return nil, err
	}
	if cargo.Package == nil {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "%s has no [package] table", path).WithPath(path)
	}

	c := &CrateManifest{
		Path:               path,
		Dir:                filepath.Dir(path),
		Name:               cargo.Package.Name,
		TargetDependencies: make(map[string]TargetTables),
		Ignored:            ignoredNames(cargo.Package.Metadata),
	}
	if ws != nil {
		c.Workspace = ws.Path
	}

	p := &crateParser{crate: c, ws: ws}
	c.Dependencies = p.table(ScopeNormal, "", cargo.Dependencies)
	c.DevDependencies = p.table(ScopeDev, "", merge(cargo.DevDependencies, cargo.DevDependencies2))
	c.BuildDependencies = p.table(ScopeBuild, "", merge(cargo.BuildDependencies, cargo.BuildDeps2))
	for _, cfg := range sortedKeys(cargo.Target) {
		t := cargo.Target[cfg]
		c.TargetDependencies[cfg] = TargetTables{
			Dependencies:      p.table(ScopeNormal, cfg, t.Dependencies),
			DevDependencies:   p.table(ScopeDev, cfg, merge(t.DevDependencies, t.DevDependencies2)),
			BuildDependencies: p.table(ScopeBuild, cfg, merge(t.BuildDependencies, t.BuildDeps2)),
		}
	}
	if p.fatal != nil {
		return nil, p.fatal
	}

	c.Build = buildScript(cargo.Package.Build)
	c.TargetPaths = targetPaths(cargo)
	return c, nil
}

type crateParser struct {
	crate *CrateManifest
	ws    *Workspace
	fatal error
}

func (p *crateParser) warn(format string, args ...any) {
	p.crate.Warnings = append(p.crate.Warnings,
		errors.New(errors.ErrCodeInvalidManifest, format, args...).WithPath(p.crate.Path))
}

func (p *crateParser) table(scope Scope, target string, raw map[string]any) map[string]DependencySpec {
	out := make(map[string]DependencySpec, len(raw))
	for _, name := range sortedKeys(raw) {
		dep, err := decodeDependency(name, raw[name], scope, target)
		if err != nil {
			if p.fatal == nil {
				p.fatal = errors.Wrap(errors.ErrCodeParse, err, "parse %s", p.crate.Path).WithPath(p.crate.Path)
			}
			continue
		}
		if err := errors.ValidateCrateName(dep.CrateName()); err != nil {
			p.warn("%s: %s", tableName(scope, target), errors.UserMessage(err))
		}
		if dep.InheritsWorkspace {
			dep = p.inherit(dep)
		}
		out[name] = dep
	}
	return out
}

// inherit fills dep from the shared workspace entry of the same name.
func (p *crateParser) inherit(dep DependencySpec) DependencySpec {
	if p.ws == nil {
		p.warn("%s.%s sets workspace = true outside of a workspace", tableName(dep.Scope, dep.Target), dep.Name)
		return dep
	}
	shared, ok := p.ws.SharedDependencies[dep.Name]
	if !ok {
		p.warn("%s.%s sets workspace = true but %s has no workspace.dependencies.%s",
			tableName(dep.Scope, dep.Target), dep.Name, p.ws.Path, dep.Name)
		return dep
	}
	dep.PackageRename = shared.PackageRename
	dep.VersionOrPath = shared.VersionOrPath
	dep.Source = shared.Source
	dep.Features = unionFeatures(shared.Features, dep.Features)
	return dep
}

// decodeDependency interprets one entry of a dependency table: either a bare
// version string or an inline/full table.
func decodeDependency(name string, raw any, scope Scope, target string) (DependencySpec, error) {
	dep := DependencySpec{Name: name, Scope: scope, Target: target, Source: SourceRegistry}

	switch v := raw.(type) {
	case string:
		dep.VersionOrPath = v
		return dep, nil
	case map[string]any:
		if inherits, ok := v["workspace"].(bool); ok && inherits {
			dep.InheritsWorkspace = true
		}
		if pkg, ok := v["package"].(string); ok && pkg != name {
			dep.PackageRename = pkg
		}
		dep.Features = stringList(v["features"])
		switch {
		case v["path"] != nil:
			dep.Source = SourcePath
			dep.VersionOrPath = fmt.Sprintf("path:%v", v["path"])
		case v["git"] != nil:
			dep.Source = SourceGit
			dep.VersionOrPath = fmt.Sprintf("git:%v", v["git"])
			for _, ref := range []string{"rev", "tag", "branch"} {
				if r, ok := v[ref].(string); ok {
					dep.VersionOrPath += "#" + r
					break
				}
			}
		default:
			if ver, ok := v["version"].(string); ok {
				dep.VersionOrPath = ver
			}
		}
		return dep, nil
	default:
		return dep, fmt.Errorf("%s.%s: expected a version string or a table, found %T", tableName(scope, target), name, raw)
	}
}

func tableName(scope Scope, target string) string {
	name := "dependencies"
	switch scope {
	case ScopeDev:
		name = "dev-dependencies"
	case ScopeBuild:
		name = "build-dependencies"
	}
	if target != "" {
		return fmt.Sprintf("target.%s.%s", target, name)
	}
	return name
}

// buildScript returns the build script path: the `build` key when it is a
// string, nothing when it is false, build.rs otherwise.
func buildScript(raw any) string {
	switch v := raw.(type) {
	case string:
		return filepath.FromSlash(v)
	case bool:
		if !v {
			return ""
		}
	}
	return "build.rs"
}

func targetPaths(cargo *cargoFile) []string {
	var out []string
	add := func(t targetPath) {
		if t.Path != "" {
			out = append(out, filepath.FromSlash(t.Path))
		}
	}
	if cargo.Lib != nil {
		add(*cargo.Lib)
	}
	for _, group := range [][]targetPath{cargo.Bin, cargo.Example, cargo.Test, cargo.Bench} {
		for _, t := range group {
			add(t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ignoredNames reads metadata.cargo-neat.ignored.
func ignoredNames(metadata map[string]any) []string {
	table, ok := metadata[metadataKey].(map[string]any)
	if !ok {
		return nil
	}
	names := stringList(table["ignored"])
	slices.Sort(names)
	return names
}

func stringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func unionFeatures(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := append(slices.Clone(a), b...)
	slices.Sort(out)
	return slices.Compact(out)
}

func merge(a, b map[string]any) map[string]any {
	if len(b) == 0 {
		return a
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range a {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
