package manifest

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/cargo-neat/pkg/errors"
)

func cratePaths(root string, l *Layout) []string {
	var out []string
	for _, c := range l.Crates {
		rel, _ := filepath.Rel(root, c.Path)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestLocateWorkspace(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Cargo.toml": `[workspace]
members = ["crates/*", "tools/cli"]
exclude = ["crates/old"]

[workspace.dependencies]
anyhow = "1"
`,
		"crates/core/Cargo.toml":  "[package]\nname = \"core\"\n",
		"crates/util/Cargo.toml":  "[package]\nname = \"util\"\n",
		"crates/old/Cargo.toml":   "[package]\nname = \"old\"\n",
		"crates/docs/README.md":   "not a crate",
		"tools/cli/Cargo.toml":    "[package]\nname = \"cli\"\n",
		"target/debug/Cargo.toml": "[package]\nname = \"build-output\"\n",
		".git/Cargo.toml":         "[package]\nname = \"hidden\"\n",
	})

	layout, err := Locate(context.Background(), root, LocateOptions{})
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}

	if len(layout.Workspaces) != 1 {
		t.Fatalf("Workspaces = %d, want 1", len(layout.Workspaces))
	}
	ws := layout.Workspaces[0]
	wantMembers := []string{
		filepath.Join(root, "crates", "core", "Cargo.toml"),
		filepath.Join(root, "crates", "util", "Cargo.toml"),
		filepath.Join(root, "tools", "cli", "Cargo.toml"),
	}
	if !slices.Equal(ws.Members, wantMembers) {
		t.Errorf("Members = %v, want %v", ws.Members, wantMembers)
	}

	want := []string{"crates/core/Cargo.toml", "crates/old/Cargo.toml", "crates/util/Cargo.toml", "tools/cli/Cargo.toml"}
	if got := cratePaths(root, layout); !slices.Equal(got, want) {
		t.Errorf("crates = %v, want %v", got, want)
	}
	for _, c := range layout.Crates {
		excluded := filepath.Base(filepath.Dir(c.Path)) == "old"
		if excluded && c.Workspace != nil {
			t.Errorf("%s is excluded but owned by %s", c.Path, c.Workspace.Path)
		}
		if !excluded && c.Workspace != ws {
			t.Errorf("%s should belong to the root workspace", c.Path)
		}
	}
	if len(layout.Issues) != 0 {
		t.Errorf("Issues = %v, want none", layout.Issues)
	}
}

func TestLocateMembersOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"ws/Cargo.toml":         "[workspace]\nmembers = [\"a\"]\n",
		"ws/a/Cargo.toml":       "[package]\nname = \"a\"\n",
		"standalone/Cargo.toml": "[package]\nname = \"standalone\"\n",
	})

	all, err := Locate(context.Background(), root, LocateOptions{})
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got := cratePaths(root, all); !slices.Equal(got, []string{"standalone/Cargo.toml", "ws/a/Cargo.toml"}) {
		t.Errorf("crates = %v", got)
	}

	members, err := Locate(context.Background(), root, LocateOptions{MembersOnly: true})
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got := cratePaths(root, members); !slices.Equal(got, []string{"ws/a/Cargo.toml"}) {
		t.Errorf("crates with MembersOnly = %v", got)
	}
}

func TestLocateRootPackage(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Cargo.toml":     "[package]\nname = \"app\"\n\n[workspace]\nmembers = [\"sub\"]\n",
		"sub/Cargo.toml": "[package]\nname = \"sub\"\n",
	})

	layout, err := Locate(context.Background(), root, LocateOptions{})
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got := cratePaths(root, layout); !slices.Equal(got, []string{"Cargo.toml", "sub/Cargo.toml"}) {
		t.Fatalf("crates = %v", got)
	}
	for _, c := range layout.Crates {
		if c.Workspace == nil {
			t.Errorf("%s should be a workspace member", c.Path)
		}
	}
}

func TestLocateGlobErrors(t *testing.T) {
	files := map[string]string{
		"Cargo.toml":          "[workspace]\nmembers = [\"crates/a\", \"crates/missing\", \"crates/empty\"]\n",
		"crates/a/Cargo.toml": "[package]\nname = \"a\"\n",
		"crates/empty/.keep":  "",
	}

	t.Run("strict", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, files)
		_, err := Locate(context.Background(), root, LocateOptions{})
		if !errors.Is(err, errors.ErrCodeGlob) {
			t.Fatalf("Locate() error = %v, want GLOB_ERROR", err)
		}
		if got := errors.GetPath(err); got != filepath.Join(root, "Cargo.toml") {
			t.Errorf("error path = %q", got)
		}
	})

	t.Run("lenient", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, files)
		layout, err := Locate(context.Background(), root, LocateOptions{LenientGlobs: true})
		if err != nil {
			t.Fatalf("Locate failed: %v", err)
		}
		if got := cratePaths(root, layout); !slices.Equal(got, []string{"crates/a/Cargo.toml"}) {
			t.Errorf("crates = %v", got)
		}
		if len(layout.Issues) != 2 {
			t.Fatalf("Issues = %v, want 2", layout.Issues)
		}
		for _, issue := range layout.Issues {
			if !errors.Is(issue, errors.ErrCodeGlob) {
				t.Errorf("issue %v, want GLOB_ERROR", issue)
			}
		}
	})
}

func TestLocateWildcardWithoutMatches(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Cargo.toml":           "[workspace]\nmembers = [\"plugins/*\", \"crates/*\"]\n",
		"crates/a/Cargo.toml":  "[package]\nname = \"a\"\n",
		"crates/notes/todo.md": "",
	})

	layout, err := Locate(context.Background(), root, LocateOptions{})
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got := cratePaths(root, layout); !slices.Equal(got, []string{"crates/a/Cargo.toml"}) {
		t.Errorf("crates = %v", got)
	}
}

func TestLocateParseFailures(t *testing.T) {
	t.Run("isolated", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"good/Cargo.toml": "[package]\nname = \"good\"\n",
			"bad/Cargo.toml":  "[package\nname =",
		})
		layout, err := Locate(context.Background(), root, LocateOptions{})
		if err != nil {
			t.Fatalf("Locate failed: %v", err)
		}
		if got := cratePaths(root, layout); !slices.Equal(got, []string{"good/Cargo.toml"}) {
			t.Errorf("crates = %v", got)
		}
		if len(layout.Issues) != 1 || !errors.Is(layout.Issues[0], errors.ErrCodeParse) {
			t.Errorf("Issues = %v, want one PARSE_ERROR", layout.Issues)
		}
	})

	t.Run("all broken", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"Cargo.toml": "[package\nname ="})
		_, err := Locate(context.Background(), root, LocateOptions{})
		if !errors.Is(err, errors.ErrCodeParse) {
			t.Errorf("Locate() error = %v, want PARSE_ERROR", err)
		}
	})
}

func TestLocateNotFound(t *testing.T) {
	tests := []struct {
		name string
		root func(t *testing.T) string
	}{
		{"missing root", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") }},
		{"no manifests", func(t *testing.T) string {
			root := t.TempDir()
			writeTree(t, root, map[string]string{"src/main.rs": "fn main() {}"})
			return root
		}},
		{"only build output", func(t *testing.T) string {
			root := t.TempDir()
			writeTree(t, root, map[string]string{"target/Cargo.toml": "[package]\nname = \"x\"\n"})
			return root
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Locate(context.Background(), tt.root(t), LocateOptions{})
			if !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Locate() error = %v, want NOT_FOUND", err)
			}
		})
	}
}

func TestLocateCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"Cargo.toml": "[package]\nname = \"a\"\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Locate(ctx, root, LocateOptions{}); err != context.Canceled {
		t.Errorf("Locate() error = %v, want context.Canceled", err)
	}
}

func TestIsExcluded(t *testing.T) {
	dir := filepath.FromSlash("/ws")
	tests := []struct {
		member   string
		excludes []string
		want     bool
	}{
		{"/ws/crates/old", []string{"crates/old"}, true},
		{"/ws/crates/old/inner", []string{"crates/old"}, true},
		{"/ws/crates/older", []string{"crates/old"}, false},
		{"/ws/crates/exp-1", []string{"crates/exp-*"}, true},
		{"/ws/crates/core", []string{"./crates/exp-*"}, false},
		{"/ws/crates/core", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			if got := isExcluded(dir, filepath.FromSlash(tt.member), tt.excludes); got != tt.want {
				t.Errorf("isExcluded(%q, %v) = %v, want %v", tt.member, tt.excludes, got, tt.want)
			}
		})
	}
}
