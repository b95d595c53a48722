// Package analysis finds unused and non-workspace dependencies in a Cargo
// manifest tree.
//
// # Pipeline
//
// A [Runner] locates manifests, then analyzes every crate concurrently:
//
//  1. parse the crate manifest, resolving `workspace = true` entries
//  2. scan its sources into a set of canonical identifiers
//  3. [ResolveUsage]: a dependency is used iff the canonical form of its
//     crate name (the `package` rename when present, else the manifest key)
//     is in that set
//  4. [CheckPolicy], when enabled: flag entries that duplicate a shared
//     [workspace.dependencies] entry instead of inheriting it
//
// Results are merged into a [Report] sorted by manifest path, so the output
// does not depend on scheduling. A shared workspace dependency is reported as
// unused only when no member crate references the crate it resolves to.
//
// # Failure Isolation
//
// Only the inability to locate any manifest aborts a run. A manifest that
// fails to parse, or a source file that cannot be read, becomes an [Issue] in
// the report and analysis of every other crate continues.
package analysis
