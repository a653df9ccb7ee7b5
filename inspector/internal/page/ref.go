package page

import (
	"errors"
	"strconv"
	"strings"
)

// ErrBadRef is returned for a malformed element reference.
var ErrBadRef = errors.New("page: malformed element reference")

// ParseRef decodes an element reference of the form "/1/0/2" into a
// child-index path from the document element. "/" is the document
// element itself.
func ParseRef(ref string) ([]int, error) {
	if !strings.HasPrefix(ref, "/") {
		return nil, ErrBadRef
	}
	rest := strings.Trim(ref, "/")
	if rest == "" {
		return []int{}, nil
	}
	steps := strings.Split(rest, "/")
	path := make([]int, len(steps))
	for i, s := range steps {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, ErrBadRef
		}
		path[i] = n
	}
	return path, nil
}

// FormatRef encodes a child-index path.
func FormatRef(path []int) string {
	var b strings.Builder
	b.WriteByte('/')
	for i, n := range path {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
