package scan

import "strings"

// Canonical maps a crate name or source token to the form used for every
// membership test: lowercase, with '-' folded to '_'. Cargo exposes a crate
// named "futures-lite" to source as futures_lite, so both spellings must
// compare equal.
func Canonical(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}

// IdentifierSet is the set of canonical identifiers found in a crate's
// sources.
type IdentifierSet map[string]struct{}

// Add inserts the canonical form of name.
func (s IdentifierSet) Add(name string) {
	if name == "" {
		return
	}
	s[Canonical(name)] = struct{}{}
}

// Contains reports whether name, canonicalized, is in the set.
func (s IdentifierSet) Contains(name string) bool {
	_, ok := s[Canonical(name)]
	return ok
}

// Len returns the number of distinct identifiers.
func (s IdentifierSet) Len() int { return len(s) }
