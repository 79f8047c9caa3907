// Package handle validates and canonicalizes X handles.
package handle

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// pattern accepts a trimmed handle with at most one leading "@". Inputs such
// as "@@ab" or "@ ab" are rejected even though Normalize would clean them up.
var pattern = regexp.MustCompile(`^@?[A-Za-z0-9_]{1,15}$`)

// Normalize trims whitespace, strips the leading "@" and lowercases. Sigils
// and whitespace are peeled until neither remains, so Normalize is idempotent.
// For every input Validate accepts this equals stripping a single "@".
func Normalize(input string) string {
	h := strings.TrimSpace(input)
	for strings.HasPrefix(h, "@") {
		h = strings.TrimSpace(h[1:])
	}
	return strings.ToLower(h)
}

// Validate reports whether input is a well-formed handle: after trimming, an
// optional single "@" followed by 1-15 letters, digits or underscores.
func Validate(input string) bool {
	return pattern.MatchString(strings.TrimSpace(input))
}

// Capitalize upper-cases the first character; used as a display name when
// nothing better is known.
func Capitalize(h string) string {
	r, size := utf8.DecodeRuneInString(h)
	if r == utf8.RuneError {
		return h
	}
	return string(unicode.ToUpper(r)) + h[size:]
}
