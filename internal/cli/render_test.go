package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cargo-neat/pkg/analysis"
	"github.com/matzehuels/cargo-neat/pkg/manifest"
)

func TestDepLabel(t *testing.T) {
	tests := []struct {
		dep  manifest.DependencySpec
		want string
	}{
		{manifest.DependencySpec{Name: "anyhow", Scope: manifest.ScopeNormal}, "anyhow"},
		{manifest.DependencySpec{Name: "proptest", Scope: manifest.ScopeDev}, "proptest (dev)"},
		{manifest.DependencySpec{Name: "cc", Scope: manifest.ScopeBuild}, "cc (build)"},
		{manifest.DependencySpec{Name: "libc", Scope: manifest.ScopeNormal, Target: "cfg(unix)"}, "libc (cfg(unix))"},
		{manifest.DependencySpec{Name: "nix", Scope: manifest.ScopeDev, Target: "cfg(unix)"}, "nix (dev, cfg(unix))"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := depLabel(tt.dep); got != tt.want {
				t.Errorf("depLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayPath(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	inside := filepath.Join(wd, "crates", "a", "Cargo.toml")
	if got, want := displayPath(inside), filepath.Join("crates", "a", "Cargo.toml"); got != want {
		t.Errorf("displayPath(%q) = %q, want %q", inside, got, want)
	}

	outside := filepath.Join(filepath.Dir(wd), "elsewhere", "Cargo.toml")
	if got := displayPath(outside); got != outside {
		t.Errorf("displayPath(%q) = %q, want it unchanged", outside, got)
	}
}

func TestRenderReport(t *testing.T) {
	ws := "/outside/ws/Cargo.toml"
	crate := "/outside/ws/crate1/Cargo.toml"
	report := &analysis.Report{
		Root:   "/outside/ws",
		Policy: true,
		Rule:   analysis.PolicyName,
		UnusedWorkspaceDependencies: []analysis.ManifestDeps{{
			Manifest: ws,
			Dependencies: []manifest.DependencySpec{
				{Name: "anyhow", Scope: manifest.ScopeNormal},
				{Name: "clappen", Scope: manifest.ScopeNormal},
			},
		}},
		Unused: []analysis.ManifestDeps{},
		NonWorkspace: []analysis.ManifestDeps{{
			Manifest: crate,
			Dependencies: []manifest.DependencySpec{
				{Name: "argh", Scope: manifest.ScopeNormal},
				{Name: "futures-lite", Scope: manifest.ScopeNormal},
			},
		}},
	}

	var buf bytes.Buffer
	renderReport(&buf, report)
	out := buf.String()

	want := []string{
		"Unused workspace dependencies :",
		"└── " + ws,
		"    ├── anyhow",
		"    └── clappen",
		"",
		"Non workspace dependencies :",
		"└── " + crate,
		"    ├── argh",
		"    └── futures-lite",
	}
	got := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), out)
	}
	for i := range want {
		if strings.TrimRight(got[i], " ") != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderReportClean(t *testing.T) {
	tests := []struct {
		name   string
		policy bool
		want   []string
		absent []string
	}{
		{"policy disabled", false, []string{msgNoUnused}, []string{msgNoNonWorkspace}},
		{"policy enabled", true, []string{msgNoUnused, msgNoNonWorkspace}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			renderReport(&buf, &analysis.Report{Policy: tt.policy})
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out, a) {
					t.Errorf("output should not contain %q:\n%s", a, out)
				}
			}
		})
	}
}

func TestRenderReportMixed(t *testing.T) {
	report := &analysis.Report{
		Policy: true,
		Unused: []analysis.ManifestDeps{{
			Manifest:     "/outside/app/Cargo.toml",
			Dependencies: []manifest.DependencySpec{{Name: "rand", Scope: manifest.ScopeDev}},
		}},
	}

	var buf bytes.Buffer
	renderReport(&buf, report)
	out := buf.String()

	if !strings.Contains(out, "Unused dependencies :") || !strings.Contains(out, "    └── rand (dev)") {
		t.Errorf("unused section missing:\n%s", out)
	}
	if strings.Contains(out, msgNoUnused) {
		t.Errorf("unused findings should suppress %q:\n%s", msgNoUnused, out)
	}
	if !strings.Contains(out, "\n\n") || !strings.Contains(out, msgNoNonWorkspace) {
		t.Errorf("clean policy line should follow the tree after a blank line:\n%s", out)
	}
}
