// Package lex provides the non-allocating tokenising helpers USF
// document parsing is built on. Go strings already behave as immutable
// windows into a shared backing array (slicing a string never copies),
// so every helper here takes and returns plain strings sliced from the
// caller's document buffer rather than a separate byte-slice type.
package lex

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Strip trims ASCII whitespace from both ends of s.
func Strip(s string) string {
	return strings.Trim(s, " \t\r\n")
}

// StripBOM removes a leading byte order mark from s, if present. USF
// documents are plain text; a leading BOM would otherwise land inside
// the first line and hide the magic prefix from every scanner in this
// package. Decode failures leave s untouched.
func StripBOM(s string) string {
	out, _, err := transform.String(unicode.BOMOverride(transform.Nop), s)
	if err != nil {
		return s
	}
	return out
}

// SplitOnChar splits s at the first occurrence of sep, returning the text
// before it and the text after it. If sep does not occur, before is all
// of s and ok is false.
func SplitOnChar(s string, sep byte) (before, after string, ok bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// SplitOnToken splits s at the first occurrence of the literal token tok,
// returning the text before it and the text after it (not including the
// token itself). If tok does not occur, before is all of s and ok is
// false.
func SplitOnToken(s, tok string) (before, after string, ok bool) {
	i := strings.Index(s, tok)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(tok):], true
}

// EatPrefix reports whether s begins with prefix. If so it returns the
// remainder of s with the prefix removed and ok=true; otherwise it
// returns s unchanged and ok=false.
func EatPrefix(s, prefix string) (rest string, ok bool) {
	if !strings.HasPrefix(s, prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// EatSuffix reports whether s ends with suffix. If so it returns the
// remainder of s with the suffix removed and ok=true; otherwise it
// returns s unchanged and ok=false.
func EatSuffix(s, suffix string) (rest string, ok bool) {
	if !strings.HasSuffix(s, suffix) {
		return s, false
	}
	return s[:len(s)-len(suffix)], true
}

// GetLine splits s at the first newline, returning the line (without the
// newline) and the remainder of s after it. If s contains no newline,
// line is all of s and rest is empty.
func GetLine(s string) (line, rest string) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

// StartsWith reports whether s begins with prefix.
func StartsWith(s, prefix string) bool {
	return strings.HasPrefix(s, prefix)
}

// Equals reports whether a and b hold identical bytes.
func Equals(a, b string) bool {
	return a == b
}

// Fields splits s around runs of whitespace as strings.Fields defines
// it (Unicode white space, which includes the ASCII separators),
// discarding empty tokens.
func Fields(s string) []string {
	return strings.Fields(s)
}
