package format

import (
	"strings"
	"unicode"
)

// Sanitize normalises line endings to \n, turns tabs into spaces and drops
// every other control character, C1 included.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			sb.WriteRune(r)
		case r == '\r':
			sb.WriteByte('\n')
		case r == '\t':
			sb.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func needsSanitize(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return r != '\n' && unicode.IsControl(r)
	}) >= 0
}
