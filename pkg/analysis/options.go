package analysis

import (
	"fmt"
	"runtime"
	"strings"
)

// PolicyRule selects which crate dependencies the workspace policy flags.
type PolicyRule string

const (
	// PolicyName flags a dependency whose key exists in the shared table
	// and that does not inherit it, whatever its version.
	PolicyName PolicyRule = "name"
	// PolicyVersion flags only duplicates whose version requirement equals
	// the shared one.
	PolicyVersion PolicyRule = "version"
	// PolicyRegistry flags every registry dependency of a workspace member
	// that does not inherit, whether or not a shared entry exists.
	PolicyRegistry PolicyRule = "registry"
)

// PolicyRules lists the accepted rules in display order.
var PolicyRules = []PolicyRule{PolicyName, PolicyVersion, PolicyRegistry}

// ParsePolicyRule converts a flag value into a PolicyRule.
func ParsePolicyRule(s string) (PolicyRule, error) {
	for _, r := range PolicyRules {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	names := make([]string, len(PolicyRules))
	for i, r := range PolicyRules {
		names[i] = string(r)
	}
	return "", fmt.Errorf("unknown policy rule %q (available: %s)", s, strings.Join(names, ", "))
}

// Options configures an analysis run.
type Options struct {
	Policy       bool       // enforce workspace-only dependencies
	Rule         PolicyRule // which duplicates the policy flags (default: PolicyName)
	LenientGlobs bool       // warn instead of failing on unmatched literal member patterns
	MembersOnly  bool       // skip crates outside any workspace
	Workers      int        // crates analyzed in parallel (default: GOMAXPROCS)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Rule == "" {
		opts.Rule = PolicyName
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return opts
}
