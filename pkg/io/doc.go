// Package io provides JSON export for analysis reports.
//
// # JSON Format
//
//	{
//	  "root": "/src/ws",
//	  "policy": true,
//	  "rule": "name",
//	  "crates": 2,
//	  "unused_workspace_dependencies": [
//	    {
//	      "manifest": "/src/ws/Cargo.toml",
//	      "dependencies": [{"name": "clappen", "version": "0.1", "source": "registry", "scope": "normal"}]
//	    }
//	  ],
//	  "unused_dependencies": [],
//	  "non_workspace_dependencies": [],
//	  "issues": [
//	    {"path": "/src/ws/broken/Cargo.toml", "code": "PARSE_ERROR", "message": "..."}
//	  ]
//	}
//
// Dependency objects carry the manifest key (name), the package rename
// (package), whether the entry inherits from the workspace (workspace), the
// version requirement or "path:"/"git:" source (version), the source kind,
// the scope (normal, dev or build) and, for [target.*] tables, the target.
//
// "rule" is only present when the workspace policy was enforced.
package io
