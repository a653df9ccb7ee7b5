// Package selector derives addressable paths for elements of a dom.Document.
//
// Resolve produces the executable encoding (a querySelector call), the bare
// selector inside it, and an unescaped display form. Lineage produces the
// compact tag#id.class chain used in prompts. Neither ever fails: an element
// with nothing distinguishing yields a bare tag segment.
package selector

import (
	"strconv"
	"strings"

	"github.com/hazyhaar/elinspect/dom"
)

// OwnPrefix marks ids, classes and attributes injected by the inspector
// itself (overlay, tooltip, notification).
const OwnPrefix = "__element-inspector"

// Root is the sentinel returned for the document body or a nil element.
var Root = Path{
	Executable: "document.body",
	Selector:   "body",
	Display:    "body",
}

// Path is a resolved element address in its three encodings.
type Path struct {
	// Executable re-selects the element when evaluated in the page.
	Executable string `json:"executable"`
	// Selector is the escaped CSS selector without the call wrapper.
	Selector string `json:"selector"`
	// Display is the selector with identifiers left unescaped.
	Display string `json:"display"`
}

// IsOwnClass reports whether a class or id belongs to the inspector.
func IsOwnClass(name string) bool { return strings.HasPrefix(name, OwnPrefix) }

// IsOwn reports whether el is one of the inspector's injected elements.
func IsOwn(el *dom.Element) bool {
	if el == nil {
		return false
	}
	if IsOwnClass(el.ID()) {
		return true
	}
	for _, c := range el.Classes() {
		if IsOwnClass(c) {
			return true
		}
	}
	return false
}

// pageClasses returns the classes of el minus the inspector's own.
func pageClasses(el *dom.Element) []string {
	var out []string
	for _, c := range el.Classes() {
		if !IsOwnClass(c) {
			out = append(out, c)
		}
	}
	return out
}

type segment struct {
	tag     string
	id      string
	classes []string
	nth     int
}

func (s segment) render(esc func(string) string) string {
	var sb strings.Builder
	if s.id != "" {
		sb.WriteByte('#')
		sb.WriteString(esc(s.id))
		return sb.String()
	}
	sb.WriteString(s.tag)
	for _, c := range s.classes {
		sb.WriteByte('.')
		sb.WriteString(esc(c))
	}
	if s.nth > 0 {
		sb.WriteString(":nth-child(")
		sb.WriteString(strconv.Itoa(s.nth))
		sb.WriteByte(')')
	}
	return sb.String()
}

// Resolve returns the path of el.
//
// An element with an id is addressed by that id alone. Otherwise segments
// are built from el up to body, stopping early at the first ancestor with an
// id. A segment gets an :nth-child ordinal when its parent holds more than
// one child with the same tag and, if the element has a class attribute, the
// same raw class string. The ordinal counts all element children of the
// parent.
func Resolve(el *dom.Element) Path {
	if el == nil || el.IsBody() {
		return Root
	}
	if id := el.ID(); id != "" {
		seg := segment{id: id}
		return build([]segment{seg})
	}

	var rev []segment
	for cur := el; cur != nil && !cur.IsBody(); cur = cur.Parent() {
		if id := cur.ID(); id != "" {
			rev = append(rev, segment{id: id})
			break
		}
		seg := segment{tag: cur.Tag(), classes: pageClasses(cur)}
		if ambiguous(cur) {
			seg.nth = cur.Index()
		}
		rev = append(rev, seg)
	}

	segs := make([]segment, len(rev))
	for i, s := range rev {
		segs[len(rev)-1-i] = s
	}
	return build(segs)
}

func build(segs []segment) Path {
	sel := make([]string, len(segs))
	disp := make([]string, len(segs))
	for i, s := range segs {
		sel[i] = s.render(Escape)
		disp[i] = s.render(func(v string) string { return v })
	}
	selector := strings.Join(sel, " > ")
	return Path{
		Executable: "document.querySelector('" + jsQuote(selector) + "')",
		Selector:   selector,
		Display:    strings.Join(disp, " > "),
	}
}

// ambiguous reports whether el shares its parent with another element of
// the same tag and, when el has a class attribute, the same raw class string.
func ambiguous(el *dom.Element) bool {
	parent := el.Parent()
	if parent == nil {
		return false
	}
	tag, class := el.Tag(), el.ClassName()
	n := 0
	for _, sib := range parent.Children() {
		if sib.Tag() != tag {
			continue
		}
		if class != "" && sib.ClassName() != class {
			continue
		}
		n++
	}
	return n > 1
}

// jsQuote escapes s for a single-quoted JavaScript string literal.
func jsQuote(s string) string {
	if !strings.ContainsAny(s, `\'`) {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if r == '\\' || r == '\'' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
