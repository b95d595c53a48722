// Package pkg provides the core libraries for cargo-neat dependency analysis.
//
// # Overview
//
// cargo-neat finds dependencies that a Cargo workspace declares but never
// uses, and with the policy check enabled, dependencies that a member crate
// declares itself although the workspace shares them. The pkg directory is
// organized into these packages:
//
//  1. [manifest] - Cargo.toml discovery and parsing (workspaces, members, crates)
//  2. [scan] - Rust source walking and identifier extraction
//  3. [analysis] - Usage resolution, the workspace policy and report assembly
//  4. [io] - JSON report export
//  5. [errors] - Coded errors shared by all packages
//  6. [observability] - Hooks for progress and per-crate stats
//  7. [buildinfo] - Version information injected at build time
//
// # Architecture
//
// The data flow of one run:
//
//	Root directory
//	     ↓
//	[manifest] package (locate workspaces and crates, parse manifests)
//	     ↓
//	[scan] package (collect identifiers from each crate's sources)
//	     ↓
//	[analysis] package (unused, unused shared, policy violations)
//	     ↓
//	Text tree or JSON report
//
// # Quick Start
//
//	report, err := analysis.NewRunner(logger).Run(ctx, ".", analysis.Options{
//	    Policy: true,
//	    Rule:   analysis.PolicyName,
//	})
//	if err != nil {
//	    return err
//	}
//	if report.HasFindings() {
//	    // print report.Unused, report.UnusedWorkspaceDependencies, report.NonWorkspace
//	}
//
// [manifest]: github.com/matzehuels/cargo-neat/pkg/manifest
// [scan]: github.com/matzehuels/cargo-neat/pkg/scan
// [analysis]: github.com/matzehuels/cargo-neat/pkg/analysis
// [io]: github.com/matzehuels/cargo-neat/pkg/io
// [errors]: github.com/matzehuels/cargo-neat/pkg/errors
// [observability]: github.com/matzehuels/cargo-neat/pkg/observability
// [buildinfo]: github.com/matzehuels/cargo-neat/pkg/buildinfo
package pkg
