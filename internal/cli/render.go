package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/cargo-neat/pkg/analysis"
	"github.com/matzehuels/cargo-neat/pkg/manifest"
)

// Section headings and clean-run messages of the text report.
const (
	headingUnusedWorkspace = "Unused workspace dependencies :"
	headingUnused          = "Unused dependencies :"
	headingNonWorkspace    = "Non workspace dependencies :"

	msgNoUnused       = "No unused workspace dependencies"
	msgNoNonWorkspace = "No non workspace dependencies"
)

// renderReport writes the report as one tree per non-empty section:
//
//	Unused workspace dependencies :
//	└── Cargo.toml
//	    ├── anyhow
//	    └── clappen
//
// Sections without findings collapse into a single success line.
func renderReport(w io.Writer, r *analysis.Report) {
	var blocks []string
	if len(r.UnusedWorkspaceDependencies) > 0 {
		blocks = append(blocks, depTree(headingUnusedWorkspace, r.UnusedWorkspaceDependencies).String())
	}
	if len(r.Unused) > 0 {
		blocks = append(blocks, depTree(headingUnused, r.Unused).String())
	}
	if r.Policy && len(r.NonWorkspace) > 0 {
		blocks = append(blocks, depTree(headingNonWorkspace, r.NonWorkspace).String())
	}

	for i, b := range blocks {
		if i > 0 {
			printNewline(w)
		}
		fmt.Fprintln(w, b)
	}

	clean := !r.HasUnused() || (r.Policy && len(r.NonWorkspace) == 0)
	if clean && len(blocks) > 0 {
		printNewline(w)
	}
	if !r.HasUnused() {
		printSuccess(w, msgNoUnused)
	}
	if r.Policy && len(r.NonWorkspace) == 0 {
		printSuccess(w, msgNoNonWorkspace)
	}
}

// depTree builds a heading → manifest → dependency tree.
func depTree(heading string, groups []analysis.ManifestDeps) *tree.Tree {
	t := tree.Root(StyleTitle.Render(heading)).EnumeratorStyle(styleBranch)
	for _, g := range groups {
		child := tree.Root(StyleValue.Render(displayPath(g.Manifest)))
		for _, d := range g.Dependencies {
			child.Child(depLabel(d))
		}
		t.Child(child)
	}
	return t
}

// depLabel renders a dependency name with its scope and target, when not a
// plain [dependencies] entry.
func depLabel(d manifest.DependencySpec) string {
	label := StyleWarning.Render(d.Name)
	var notes []string
	if d.Scope != "" && d.Scope != manifest.ScopeNormal {
		notes = append(notes, string(d.Scope))
	}
	if d.Target != "" {
		notes = append(notes, d.Target)
	}
	if len(notes) > 0 {
		label += " " + StyleDim.Render("("+strings.Join(notes, ", ")+")")
	}
	return label
}

// displayPath shortens p relative to the working directory when p lies
// beneath it.
func displayPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}
