// Package observability provides hooks for instrumenting an analysis run.
//
// The analysis engine reports what it does through [AnalysisHooks] without
// depending on any particular backend. The default implementation is a no-op;
// a front end registers its own at startup (the CLI installs one that logs at
// debug level when --verbose is set).
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAnalysisHooks(&myHooks{})
//	    // ... run analysis
//	}
//
// The engine calls hooks to emit events, possibly from several goroutines at
// once, so implementations must be safe for concurrent use:
//
//	observability.Analysis().OnCrateComplete(ctx, manifestPath, stats, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Analysis Hooks
// =============================================================================

// LocateStats summarizes manifest discovery.
type LocateStats struct {
	Workspaces int
	Crates     int
	Issues     int
	Duration   time.Duration
}

// CrateStats summarizes the analysis of one crate.
type CrateStats struct {
	Files        int // source files read
	Identifiers  int // distinct identifiers found
	Dependencies int // declared entries across all scopes
	Unused       int
	Violations   int
	Duration     time.Duration
}

// RunStats summarizes a whole run.
type RunStats struct {
	Crates          int
	UnusedWorkspace int
	Unused          int
	NonWorkspace    int
	Issues          int
	Duration        time.Duration
}

// AnalysisHooks receives events from the analysis engine.
type AnalysisHooks interface {
	// OnLocateComplete is called once discovery has finished.
	OnLocateComplete(ctx context.Context, root string, stats LocateStats, err error)

	// OnCrateComplete is called after each crate has been parsed, scanned
	// and checked. It may be called concurrently.
	OnCrateComplete(ctx context.Context, manifestPath string, stats CrateStats, err error)

	// OnRunComplete is called once the report has been assembled.
	OnRunComplete(ctx context.Context, root string, stats RunStats, err error)
}

// =============================================================================
// No-op Implementation
// =============================================================================

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnLocateComplete(context.Context, string, LocateStats, error) {}
func (NoopAnalysisHooks) OnCrateComplete(context.Context, string, CrateStats, error)   {}
func (NoopAnalysisHooks) OnRunComplete(context.Context, string, RunStats, error)       {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analysisHooks AnalysisHooks = NoopAnalysisHooks{}
	hooksMu       sync.RWMutex
)

// SetAnalysisHooks registers custom analysis hooks.
// This should be called once at application startup before any analysis runs.
func SetAnalysisHooks(h AnalysisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analysisHooks = h
	}
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analysisHooks
}

// Reset restores the hooks to their no-op default.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	analysisHooks = NoopAnalysisHooks{}
}
