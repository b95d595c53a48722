package scan

import "bytes"

func isIdentByte(b byte) bool {
	return b == '_' || b == '-' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// Tokenize adds every identifier-shaped run in src to set.
//
// A run is a maximal sequence of ASCII letters, digits, '_' and '-'. The whole
// run is added, and so is each piece between hyphens, so `real-foo` in a
// string literal yields real_foo, real and foo, while `a-b` in an expression
// still yields a and b. Runs made only of digits or punctuation are dropped.
func Tokenize(src []byte, set IdentifierSet) {
	for i := 0; i < len(src); {
		if !isIdentByte(src[i]) {
			i++
			continue
		}
		j := i
		for j < len(src) && isIdentByte(src[j]) {
			j++
		}
		addRun(src[i:j], set)
		i = j
	}
}

func addRun(run []byte, set IdentifierSet) {
	run = bytes.Trim(run, "-")
	if !hasLetter(run) {
		return
	}
	set.Add(string(run))
	if bytes.IndexByte(run, '-') < 0 {
		return
	}
	for _, piece := range bytes.Split(run, []byte{'-'}) {
		if hasLetter(piece) {
			set.Add(string(piece))
		}
	}
}

func hasLetter(b []byte) bool {
	for _, c := range b {
		if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			return true
		}
	}
	return false
}
