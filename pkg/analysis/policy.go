package analysis

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/cargo-neat/pkg/manifest"
)

// CheckPolicy returns the dependencies of crate that bypass the shared table
// of ws under rule, sorted with [manifest.CompareDependencies]. Standalone
// crates (ws == nil) have nothing to inherit from and never violate.
func CheckPolicy(crate *manifest.CrateManifest, ws *manifest.Workspace, rule PolicyRule) []manifest.DependencySpec {
	if ws == nil {
		return nil
	}

	var out []manifest.DependencySpec
	for _, dep := range crate.AllDependencies() {
		if dep.InheritsWorkspace {
			continue
		}
		shared, ok := ws.SharedDependencies[dep.Name]
		switch rule {
		case PolicyRegistry:
			if dep.Source != manifest.SourceRegistry {
				continue
			}
		case PolicyVersion:
			if !ok || !SameRequirement(dep.VersionOrPath, shared.VersionOrPath) {
				continue
			}
		default:
			if !ok {
				continue
			}
		}
		out = append(out, dep)
	}
	return out
}

// SameRequirement reports whether two version requirements, or two path/git
// sources, are the same. Requirements are compared comparator by comparator
// after cargo's implicit caret is made explicit and each version is parsed,
// so "1.2" equals "^1.2" and "^1" equals "^1.0.0". Anything semver cannot
// parse falls back to an exact string comparison.
func SameRequirement(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == b {
		return true
	}
	ca, okA := canonicalRequirement(a)
	cb, okB := canonicalRequirement(b)
	return okA && okB && ca == cb
}

var operators = []string{">=", "<=", "^", "~", "=", ">", "<"}

func canonicalRequirement(req string) (string, bool) {
	if req == "" || strings.Contains(req, ":") {
		return "", false
	}
	if _, err := semver.NewConstraint(req); err != nil {
		return "", false
	}

	parts := strings.Split(req, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		op := "^"
		for _, candidate := range operators {
			if strings.HasPrefix(part, candidate) {
				op = candidate
				part = strings.TrimSpace(strings.TrimPrefix(part, candidate))
				break
			}
		}
		if strings.ContainsAny(part, "*xX") {
			parts[i] = op + part
			continue
		}
		v, err := semver.NewVersion(part)
		if err != nil {
			return "", false
		}
		precision := strings.Count(part, ".") + 1
		// Extra trailing components stop mattering once the range is pinned:
		// ^1 equals ^1.0.0, ^0.3 equals ^0.3.0 and ~1.2 equals ~1.2.0, but
		// ^0.0 and ~1 do not.
		switch op {
		case "^":
			if nz := firstNonZero(v); nz > 0 && precision >= nz {
				precision = 3
			}
		case "~":
			if precision >= 2 {
				precision = 3
			}
		}
		parts[i] = op + v.String() + "/" + strconv.Itoa(precision)
	}
	return strings.Join(parts, ","), true
}

// firstNonZero returns the 1-based index of the first non-zero component of
// v, or 0 when all are zero.
func firstNonZero(v *semver.Version) int {
	switch {
	case v.Major() > 0:
		return 1
	case v.Minor() > 0:
		return 2
	case v.Patch() > 0:
		return 3
	}
	return 0
}
