// Package stringutil shortens untrusted strings for logs and terminal output.
package stringutil

import (
	"strings"
	"unicode"
)

// Ellipsis flattens s to one line and cuts it to at most maxRunes runes,
// ending in "..." when something was cut. With maxRunes <= 3 there is no
// room for the marker and the text is cut bare.
func Ellipsis(s string, maxRunes int) string {
	s = SingleLine(s)
	if maxRunes <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// SingleLine trims s, turns newlines and tabs into spaces and drops other
// control characters, so client input cannot forge extra log lines.
func SingleLine(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, s)
	return strings.TrimSpace(s)
}
