package errors

import (
	"os"
	"regexp"
	"strings"
	"unicode"
)

// crateNameRegex matches names cargo accepts as dependency keys and
// package renames.
var crateNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateCrateName validates a dependency key or package rename target.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 64 characters (the crates.io limit)
//   - ASCII letter first, then letters, digits, '-' or '_'
func ValidateCrateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidManifest, "crate name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidManifest, "crate name too long (max 64 characters): %q", name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidManifest, "crate name contains invalid control characters")
		}
	}

	if !crateNameRegex.MatchString(name) {
		return New(ErrCodeInvalidManifest, "invalid crate name: %q", name)
	}

	return nil
}

// ValidateRoot validates the directory an analysis starts from.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Path must exist and be a directory
func ValidateRoot(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Wrap(ErrCodeNotFound, err, "%s does not exist", path).WithPath(path)
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "stat %s", path).WithPath(path)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "%s is not a directory", path).WithPath(path)
	}

	return nil
}
