package analysis

import (
	"github.com/matzehuels/cargo-neat/pkg/manifest"
	"github.com/matzehuels/cargo-neat/pkg/scan"
)

// UsageResult splits a crate's declared dependencies by whether its sources
// reference them. Both slices are sorted with [manifest.CompareDependencies].
type UsageResult struct {
	Used   []manifest.DependencySpec
	Unused []manifest.DependencySpec
}

// SearchIdentifier returns the canonical token whose presence in source
// marks dep as used.
func SearchIdentifier(dep manifest.DependencySpec) string {
	return scan.Canonical(dep.CrateName())
}

// ResolveUsage checks every dependency of crate against ids. Dependencies
// named in ignored (by manifest key or crate name, in either spelling) count
// as used.
//
// Crates that only enable features on another dependency, or that are only
// linked, have no source reference and are reported unused.
func ResolveUsage(crate *manifest.CrateManifest, ids scan.IdentifierSet, ignored ...[]string) UsageResult {
	skip := make(scan.IdentifierSet)
	for _, list := range ignored {
		for _, name := range list {
			skip.Add(name)
		}
	}

	var res UsageResult
	for _, dep := range crate.AllDependencies() {
		if ids.Contains(SearchIdentifier(dep)) || skip.Contains(dep.Name) || skip.Contains(dep.CrateName()) {
			res.Used = append(res.Used, dep)
			continue
		}
		res.Unused = append(res.Unused, dep)
	}
	return res
}
