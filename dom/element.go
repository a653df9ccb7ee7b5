package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a handle on one element node of a Document. Handles are cheap
// and compare by node identity through Same.
type Element struct {
	n   *html.Node
	doc *Document
}

// Node returns the underlying html node.
func (e *Element) Node() *html.Node { return e.n }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Same reports whether both handles address the same node.
func (e *Element) Same(o *Element) bool {
	if e == nil || o == nil {
		return e == nil && o == nil
	}
	return e.n == o.n
}

// Tag returns the lower-cased tag name.
func (e *Element) Tag() string { return strings.ToLower(e.n.Data) }

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if attrName(a) == name {
			return a.Val, true
		}
	}
	return "", false
}

// ID returns the id attribute, or "" when absent.
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// ClassName returns the raw class attribute.
func (e *Element) ClassName() string {
	v, _ := e.Attr("class")
	return v
}

// Classes returns the whitespace-separated class names in order.
func (e *Element) Classes() []string { return strings.Fields(e.ClassName()) }

// Attrs returns every attribute in document order.
func (e *Element) Attrs() []Attr {
	out := make([]Attr, 0, len(e.n.Attr))
	for _, a := range e.n.Attr {
		out = append(out, Attr{Name: attrName(a), Value: a.Val})
	}
	return out
}

func attrName(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() *Element { return e.doc.Wrap(e.n.Parent) }

// Children returns the element children in order. Text and comment nodes
// are not included.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Element{n: c, doc: e.doc})
		}
	}
	return out
}

// Index returns the 1-based position of e among its parent's element
// children, or 0 when e has no parent element.
func (e *Element) Index() int {
	if e.n.Parent == nil || e.n.Parent.Type != html.ElementNode {
		return 0
	}
	i := 0
	for c := e.n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		i++
		if c == e.n {
			return i
		}
	}
	return 0
}

// Path returns the child-index path from the document element to e, the
// inverse of Document.ElementAt.
func (e *Element) Path() []int {
	var rev []int
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur.Parent() == nil {
			break
		}
		rev = append(rev, cur.Index()-1)
	}
	out := make([]int, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}

// IsBody reports whether e is the document body.
func (e *Element) IsBody() bool {
	if e.n.DataAtom != atom.Body {
		return false
	}
	b := e.doc.Body()
	return b != nil && b.n == e.n
}

func (e *Element) layout() *Layout { return e.doc.layout[e.n] }

// Rect returns the host-measured bounding box, zero when unmeasured.
func (e *Element) Rect() Rect {
	if l := e.layout(); l != nil {
		return l.Rect
	}
	return Rect{}
}

// Scroll returns the viewport scroll offset recorded with Rect.
func (e *Element) Scroll() Scroll {
	if l := e.layout(); l != nil {
		return l.Scroll
	}
	return Scroll{}
}

// Props returns the host-internal properties attached to e.
func (e *Element) Props() []Prop {
	if l := e.layout(); l != nil {
		return l.Props
	}
	return nil
}

// OuterHTML returns the markup of e and its subtree. Markup recorded by the
// host wins; otherwise the tree is serialised the way outerHTML does it.
func (e *Element) OuterHTML() string {
	if l := e.layout(); l != nil && l.Markup != "" {
		return l.Markup
	}
	var sb strings.Builder
	writeNode(&sb, e.n)
	return sb.String()
}

// OpenTag serialises the start tag of e with its attributes.
func (e *Element) OpenTag() string {
	var sb strings.Builder
	writeOpenTag(&sb, e.n)
	return sb.String()
}

// TextContent concatenates every descendant text node, like the DOM
// textContent property.
func (e *Element) TextContent() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				sb.WriteString(c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(e.n)
	return sb.String()
}

// DirectText joins the text nodes that are immediate children of e and
// collapses whitespace runs, which is how the text renders on one line.
func (e *Element) DirectText() string {
	var parts []string
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			parts = append(parts, c.Data)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, "")), " ")
}
