package selector

import (
	"strconv"
	"strings"
)

// Escape serialises an identifier for use in a CSS selector, following the
// CSSOM CSS.escape() rules.
func Escape(ident string) string {
	runes := []rune(ident)
	var sb strings.Builder
	for i, r := range runes {
		switch {
		case r == 0:
			sb.WriteRune('�')
		case (r >= 0x01 && r <= 0x1F) || r == 0x7F,
			i == 0 && isDigit(r),
			i == 1 && isDigit(r) && runes[0] == '-':
			sb.WriteByte('\\')
			sb.WriteString(strconv.FormatInt(int64(r), 16))
			sb.WriteByte(' ')
		case i == 0 && r == '-' && len(runes) == 1:
			sb.WriteString(`\-`)
		case r >= 0x80 || r == '-' || r == '_' || isDigit(r) ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
