// Package manifest discovers and parses Cargo manifests.
//
// # Overview
//
// Discovery starts at a directory and walks it (skipping target/ and
// dot-directories), classifying every Cargo.toml it finds:
//
//   - a manifest with a [workspace] table is a workspace root; its members
//     and exclude globs are resolved against the filesystem
//   - a manifest with a [package] table is a crate, owned by the workspace
//     whose member list claims its directory, or standalone otherwise
//
// A workspace root that also declares [package] is a member of itself.
//
// # Parsing
//
// [ParseWorkspace] reads the shared [workspace.dependencies] table.
// [ParseCrate] reads a crate's dependency tables (normal, dev, build and
// per-target variants) and resolves `workspace = true` entries against the
// owning workspace, so every [DependencySpec] carries the version, source and
// package rename it will actually build with.
//
//	layout, _ := manifest.Locate(ctx, "/src/my-workspace", manifest.LocateOptions{})
//	for _, ref := range layout.Crates {
//	    crate, err := manifest.ParseCrate(ref.Path, ref.Workspace)
//	    ...
//	}
package manifest
