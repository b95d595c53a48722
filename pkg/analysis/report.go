package analysis

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/cargo-neat/pkg/errors"
	"github.com/matzehuels/cargo-neat/pkg/manifest"
	"github.com/matzehuels/cargo-neat/pkg/scan"
)

// ManifestDeps groups dependencies under the manifest that declares them.
type ManifestDeps struct {
	Manifest     string                    `json:"manifest"`
	Dependencies []manifest.DependencySpec `json:"dependencies"`
}

// Names returns the dependency keys in report order.
func (m ManifestDeps) Names() []string {
	names := make([]string, len(m.Dependencies))
	for i, d := range m.Dependencies {
		names[i] = d.Name
	}
	return names
}

// Issue is a non-fatal problem met during a run. The manifest or file it
// refers to was skipped (or, for IO_ERROR, left out of the crate's
// identifier set), so findings near it may be incomplete.
type Issue struct {
	Path    string      `json:"path,omitempty"`
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// issueFrom converts an error into an Issue.
func issueFrom(err error) Issue {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return Issue{Path: errors.GetPath(err), Code: code, Message: errors.UserMessage(err)}
}

func compareIssues(a, b Issue) int {
	return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Code, b.Code), cmp.Compare(a.Message, b.Message))
}

// Report is the result of a run. Every list is sorted by manifest path and
// every dependency list with [manifest.CompareDependencies], so two runs over
// an unchanged tree produce identical reports.
type Report struct {
	Root                        string         `json:"root"`
	Policy                      bool           `json:"policy"`
	Rule                        PolicyRule     `json:"rule,omitempty"`
	Crates                      int            `json:"crates"`
	UnusedWorkspaceDependencies []ManifestDeps `json:"unused_workspace_dependencies"`
	Unused                      []ManifestDeps `json:"unused_dependencies"`
	NonWorkspace                []ManifestDeps `json:"non_workspace_dependencies"`
	Issues                      []Issue        `json:"issues"`
}

// HasUnused reports whether any unused dependency was found, at workspace or
// crate level.
func (r *Report) HasUnused() bool {
	return len(r.UnusedWorkspaceDependencies) > 0 || len(r.Unused) > 0
}

// HasFindings reports whether the run found anything to act on: unused
// dependencies or policy violations.
func (r *Report) HasFindings() bool {
	return r.HasUnused() || len(r.NonWorkspace) > 0
}

// crateResult is the outcome of analyzing one crate.
type crateResult struct {
	path       string
	workspace  *manifest.Workspace
	usage      UsageResult
	violations []manifest.DependencySpec
	issues     []Issue
	err        error // manifest error when the crate could not be parsed
	ok         bool
}

// buildReport merges per-crate results. results must already be in manifest
// path order.
func buildReport(root string, opts Options, workspaces []*manifest.Workspace, results []*crateResult, issues []Issue) *Report {
	r := &Report{
		Root:                        root,
		Policy:                      opts.Policy,
		UnusedWorkspaceDependencies: []ManifestDeps{},
		Unused:                      []ManifestDeps{},
		NonWorkspace:                []ManifestDeps{},
		Issues:                      issues,
	}
	if opts.Policy {
		r.Rule = opts.Rule
	}

	for _, res := range results {
		r.Issues = append(r.Issues, res.issues...)
		if !res.ok {
			continue
		}
		r.Crates++
		if len(res.usage.Unused) > 0 {
			r.Unused = append(r.Unused, ManifestDeps{Manifest: res.path, Dependencies: res.usage.Unused})
		}
		if opts.Policy && len(res.violations) > 0 {
			r.NonWorkspace = append(r.NonWorkspace, ManifestDeps{Manifest: res.path, Dependencies: res.violations})
		}
	}

	for _, ws := range workspaces {
		if broken := brokenMember(ws, results); broken != "" {
			r.Issues = append(r.Issues, Issue{
				Path:    ws.Path,
				Code:    errors.ErrCodeParse,
				Message: fmt.Sprintf("skipped unused check of workspace.dependencies: member %s could not be parsed", broken),
			})
			continue
		}
		if unused := unusedShared(ws, results); len(unused) > 0 {
			r.UnusedWorkspaceDependencies = append(r.UnusedWorkspaceDependencies,
				ManifestDeps{Manifest: ws.Path, Dependencies: unused})
		}
	}

	slices.SortFunc(r.Issues, compareIssues)
	if r.Issues == nil {
		r.Issues = []Issue{}
	}
	return r
}

// brokenMember returns the manifest path of the first member of ws that
// could not be parsed. Its sources may use any shared entry, so none can be
// reported as unused.
func brokenMember(ws *manifest.Workspace, results []*crateResult) string {
	for _, res := range results {
		if !res.ok && res.workspace == ws {
			return res.path
		}
	}
	return ""
}

// unusedShared returns the shared dependencies of ws that no member crate
// references in source. A member counts whether it inherits the entry or
// declares the same crate locally.
func unusedShared(ws *manifest.Workspace, results []*crateResult) []manifest.DependencySpec {
	used := make(scan.IdentifierSet)
	for _, res := range results {
		if !res.ok || res.workspace != ws {
			continue
		}
		for _, dep := range res.usage.Used {
			used.Add(SearchIdentifier(dep))
		}
	}

	ignored := make(scan.IdentifierSet)
	for _, name := range ws.Ignored {
		ignored.Add(name)
	}

	var out []manifest.DependencySpec
	for _, name := range ws.SharedNames() {
		dep := ws.SharedDependencies[name]
		if used.Contains(SearchIdentifier(dep)) || ignored.Contains(name) || ignored.Contains(dep.CrateName()) {
			continue
		}
		out = append(out, dep)
	}
	return out
}
