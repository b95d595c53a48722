package analysis

import (
	"slices"
	"testing"

	"github.com/matzehuels/cargo-neat/pkg/manifest"
	"github.com/matzehuels/cargo-neat/pkg/scan"
)

func idents(names ...string) scan.IdentifierSet {
	s := make(scan.IdentifierSet)
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func depNames(deps []manifest.DependencySpec) []string {
	out := make([]string, len(deps))
	for i, d := range deps {
		out[i] = d.Name
	}
	return out
}

func TestSearchIdentifier(t *testing.T) {
	tests := []struct {
		dep  manifest.DependencySpec
		want string
	}{
		{manifest.DependencySpec{Name: "anyhow"}, "anyhow"},
		{manifest.DependencySpec{Name: "futures-lite"}, "futures_lite"},
		{manifest.DependencySpec{Name: "foo", PackageRename: "real-foo"}, "real_foo"},
		{manifest.DependencySpec{Name: "Serde"}, "serde"},
	}

	for _, tt := range tests {
		if got := SearchIdentifier(tt.dep); got != tt.want {
			t.Errorf("SearchIdentifier(%+v) = %q, want %q", tt.dep, got, tt.want)
		}
	}
}

func TestResolveUsage(t *testing.T) {
	crate := &manifest.CrateManifest{
		Dependencies: map[string]manifest.DependencySpec{
			"anyhow":       {Name: "anyhow", Scope: manifest.ScopeNormal},
			"futures-lite": {Name: "futures-lite", Scope: manifest.ScopeNormal},
			"foo":          {Name: "foo", PackageRename: "real-foo", Scope: manifest.ScopeNormal},
			"argh":         {Name: "argh", Scope: manifest.ScopeNormal},
			"openssl-sys":  {Name: "openssl-sys", Scope: manifest.ScopeNormal},
		},
		DevDependencies: map[string]manifest.DependencySpec{
			"anyhow":   {Name: "anyhow", Scope: manifest.ScopeDev},
			"proptest": {Name: "proptest", Scope: manifest.ScopeDev},
		},
		TargetDependencies: map[string]manifest.TargetTables{
			"cfg(unix)": {Dependencies: map[string]manifest.DependencySpec{
				"libc": {Name: "libc", Target: "cfg(unix)", Scope: manifest.ScopeNormal},
			}},
		},
	}

	ids := idents("anyhow", "futures_lite", "real-foo", "foo_unrelated", "libc")
	res := ResolveUsage(crate, ids, []string{"openssl_sys"})

	if got, want := depNames(res.Used), []string{"anyhow", "anyhow", "foo", "futures-lite", "libc", "openssl-sys"}; !slices.Equal(got, want) {
		t.Errorf("Used = %v, want %v", got, want)
	}
	if got, want := depNames(res.Unused), []string{"argh", "proptest"}; !slices.Equal(got, want) {
		t.Errorf("Unused = %v, want %v", got, want)
	}
	if res.Used[0].Scope != manifest.ScopeNormal || res.Used[1].Scope != manifest.ScopeDev {
		t.Errorf("same-name entries should be ordered normal before dev, got %v, %v", res.Used[0].Scope, res.Used[1].Scope)
	}
}

func TestResolveUsageRenameIgnoresKey(t *testing.T) {
	crate := &manifest.CrateManifest{
		Dependencies: map[string]manifest.DependencySpec{
			"foo": {Name: "foo", PackageRename: "real-foo"},
		},
	}

	// Only the manifest key appears in source; the crate itself is never named.
	res := ResolveUsage(crate, idents("foo"))
	if got := depNames(res.Unused); !slices.Equal(got, []string{"foo"}) {
		t.Errorf("Unused = %v, want [foo]", got)
	}
}

func TestResolveUsageEmpty(t *testing.T) {
	res := ResolveUsage(&manifest.CrateManifest{}, idents("anyhow"))
	if len(res.Used) != 0 || len(res.Unused) != 0 {
		t.Errorf("ResolveUsage() = %+v, want empty", res)
	}
}
