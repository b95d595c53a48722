package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cargo-neat/pkg/analysis"
)

// WriteReport encodes a report as indented JSON and writes it to w.
// Empty sections are written as empty arrays rather than null, so consumers
// can iterate without nil checks.
func WriteReport(r *analysis.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportReport writes a report to a JSON file at path.
// This is a convenience wrapper around [WriteReport] for file-based output.
func ExportReport(r *analysis.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteReport(r, f)
}
