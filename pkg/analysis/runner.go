package analysis

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cargo-neat/pkg/errors"
	"github.com/matzehuels/cargo-neat/pkg/manifest"
	"github.com/matzehuels/cargo-neat/pkg/observability"
	"github.com/matzehuels/cargo-neat/pkg/scan"
)

// Runner executes analysis runs.
//
// The Runner holds no per-run state, so multiple goroutines can safely use
// the same Runner with different roots and options.
type Runner struct {
	Logger *log.Logger
	Hooks  observability.AnalysisHooks
}

// NewRunner creates a runner. If logger is nil, log.Default() is used; hooks
// default to the registered [observability.Analysis] hooks.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger, Hooks: observability.Analysis()}
}

// Run analyzes the manifest tree under root.
//
// It returns an error only when the tree cannot be analyzed at all: root is
// missing or holds no manifest (NOT_FOUND), a literal member pattern matched
// nothing in strict mode (GLOB_ERROR), every manifest failed to parse, or ctx
// was cancelled. Everything else is reported in Report.Issues.
func (r *Runner) Run(ctx context.Context, root string, opts Options) (*Report, error) {
	opts = opts.WithDefaults()
	start := time.Now()

	layout, err := manifest.Locate(ctx, root, manifest.LocateOptions{
		LenientGlobs: opts.LenientGlobs,
		MembersOnly:  opts.MembersOnly,
	})
	if err != nil {
		r.Hooks.OnLocateComplete(ctx, root, observability.LocateStats{Duration: time.Since(start)}, err)
		r.Hooks.OnRunComplete(ctx, root, observability.RunStats{Duration: time.Since(start)}, err)
		return nil, err
	}
	r.Hooks.OnLocateComplete(ctx, layout.Root, observability.LocateStats{
		Workspaces: len(layout.Workspaces),
		Crates:     len(layout.Crates),
		Issues:     len(layout.Issues),
		Duration:   time.Since(start),
	}, nil)
	r.Logger.Debug("located manifests",
		"root", layout.Root,
		"workspaces", len(layout.Workspaces),
		"crates", len(layout.Crates))

	issues := make([]Issue, 0, len(layout.Issues))
	for _, e := range layout.Issues {
		issues = append(issues, issueFrom(e))
	}

	results := make([]*crateResult, len(layout.Crates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, ref := range layout.Crates {
		g.Go(func() error {
			res, err := r.analyzeCrate(gctx, ref, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.Hooks.OnRunComplete(ctx, layout.Root, observability.RunStats{Duration: time.Since(start)}, err)
		return nil, err
	}

	report := buildReport(layout.Root, opts, layout.Workspaces, results, issues)
	if err := noCrateParsed(report, layout, results); err != nil {
		r.Hooks.OnRunComplete(ctx, layout.Root, observability.RunStats{Duration: time.Since(start)}, err)
		return nil, err
	}
	stats := observability.RunStats{
		Crates:          report.Crates,
		UnusedWorkspace: countDeps(report.UnusedWorkspaceDependencies),
		Unused:          countDeps(report.Unused),
		NonWorkspace:    countDeps(report.NonWorkspace),
		Issues:          len(report.Issues),
		Duration:        time.Since(start),
	}
	r.Hooks.OnRunComplete(ctx, layout.Root, stats, nil)
	r.Logger.Debug("analysis complete",
		"crates", stats.Crates,
		"unused", stats.Unused,
		"unused_workspace", stats.UnusedWorkspace,
		"non_workspace", stats.NonWorkspace,
		"issues", stats.Issues,
		"duration", stats.Duration)
	return report, nil
}

// analyzeCrate parses, scans and checks one crate. Problems with the crate
// are recorded in the result; the returned error is a context error or one
// that [errors.IsFatal] reports, so one broken crate never cancels its
// siblings.
func (r *Runner) analyzeCrate(ctx context.Context, ref manifest.CrateRef, opts Options) (*crateResult, error) {
	start := time.Now()
	res := &crateResult{path: ref.Path, workspace: ref.Workspace}

	crate, err := manifest.ParseCrate(ref.Path, ref.Workspace)
	if err != nil {
		if errors.IsFatal(err) {
			return nil, err
		}
		res.err = err
		res.issues = append(res.issues, issueFrom(err))
		r.Hooks.OnCrateComplete(ctx, ref.Path, observability.CrateStats{Duration: time.Since(start)}, err)
		return res, nil
	}
	for _, w := range crate.Warnings {
		res.issues = append(res.issues, issueFrom(w))
	}

	extra := append([]string{crate.Build}, crate.TargetPaths...)
	scanned, err := scan.Scan(ctx, crate.Dir, extra...)
	if err != nil {
		return nil, err
	}
	for _, e := range scanned.Errors {
		res.issues = append(res.issues, issueFrom(e))
	}

	var wsIgnored []string
	if ref.Workspace != nil {
		wsIgnored = ref.Workspace.Ignored
	}
	res.usage = ResolveUsage(crate, scanned.Identifiers, crate.Ignored, wsIgnored)
	if opts.Policy {
		res.violations = CheckPolicy(crate, ref.Workspace, opts.Rule)
	}
	res.ok = true

	r.Hooks.OnCrateComplete(ctx, ref.Path, observability.CrateStats{
		Files:        len(scanned.Files),
		Identifiers:  scanned.Identifiers.Len(),
		Dependencies: len(res.usage.Used) + len(res.usage.Unused),
		Unused:       len(res.usage.Unused),
		Violations:   len(res.violations),
		Duration:     time.Since(start),
	}, nil)
	return res, nil
}

// noCrateParsed returns the parse error of the first crate when the tree
// held crates but none of them, and no workspace root, could be read.
func noCrateParsed(report *Report, layout *manifest.Layout, results []*crateResult) error {
	if report.Crates > 0 || len(layout.Workspaces) > 0 {
		return nil
	}
	for _, res := range results {
		if res.err != nil {
			return res.err
		}
	}
	return nil
}

func countDeps(groups []ManifestDeps) int {
	n := 0
	for _, g := range groups {
		n += len(g.Dependencies)
	}
	return n
}
