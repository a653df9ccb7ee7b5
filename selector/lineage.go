package selector

import (
	"strings"

	"github.com/hazyhaar/elinspect/dom"
)

// Part is one entry of an element's lineage: tag, id and page classes.
type Part struct {
	Tag     string   `json:"tag"`
	ID      string   `json:"id,omitempty"`
	Classes []string `json:"classes,omitempty"`
}

// String renders the part as tag#id.class1.class2.
func (p Part) String() string { return p.Format(nil) }

// Format renders the part with each class passed through fn. A nil fn
// leaves classes as they are.
func (p Part) Format(fn func(string) string) string {
	var sb strings.Builder
	sb.WriteString(p.Tag)
	if p.ID != "" {
		sb.WriteByte('#')
		sb.WriteString(p.ID)
	}
	for _, c := range p.Classes {
		sb.WriteByte('.')
		if fn != nil {
			c = fn(c)
		}
		sb.WriteString(c)
	}
	return sb.String()
}

// Lineage returns every element from the top of the tree down to el,
// excluding body and anything above it. Unlike Resolve it does not stop at
// identified ancestors.
func Lineage(el *dom.Element) []Part {
	var rev []Part
	for cur := el; cur != nil && !cur.IsBody(); cur = cur.Parent() {
		rev = append(rev, Part{Tag: cur.Tag(), ID: cur.ID(), Classes: pageClasses(cur)})
	}
	out := make([]Part, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return out
}

// Chain joins parts with the child combinator, formatting classes with fn.
func Chain(parts []Part, fn func(string) string) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = p.Format(fn)
	}
	return strings.Join(s, " > ")
}
