// Package dom is the document model the inspector works against: an
// x/net/html tree plus a side table of host facts (geometry, resolved
// presentation, instrumentation properties) that only a rendering host can
// supply.
//
// A Document built by Parse carries no host facts. Geometry reads as zero and
// presentation falls back to inline style declarations. A Document rebuilt
// from a live page snapshot carries the host's facts for the nodes it
// measured.
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNotFound is returned when a selector or child-index path does not
// address any element.
var ErrNotFound = errors.New("dom: element not found")

// Rect is a bounding box in viewport coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the lower edge of the box.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Scroll is the viewport scroll offset at the time a Rect was read.
type Scroll struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Prop is one host-internal property attached to a node (the equivalent of
// an expando key on a live DOM element). Order is host order.
type Prop struct {
	Key   string
	Value any
}

// Layout holds the host facts for one element. Style maps CSS property names
// (background-color, font-size) to resolved values. Markup is the host's own
// outerHTML for the element, empty when the host did not report it.
type Layout struct {
	Rect   Rect
	Scroll Scroll
	Style  map[string]string
	Props  []Prop
	Markup string
}

// Attr is one attribute in document order.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Document owns an html tree and the host facts recorded against it.
type Document struct {
	root   *html.Node
	layout map[*html.Node]*Layout
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return NewDocument(root), nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// NewDocument wraps an existing tree. root is normally an html.DocumentNode.
func NewDocument(root *html.Node) *Document {
	return &Document{
		root:   root,
		layout: make(map[*html.Node]*Layout),
	}
}

// Root returns the underlying tree root.
func (d *Document) Root() *html.Node { return d.root }

// Wrap returns the Element for n, or nil when n is not an element.
func (d *Document) Wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return &Element{n: n, doc: d}
}

// DocumentElement returns the top-level <html> element.
func (d *Document) DocumentElement() *Element {
	if d.root.Type == html.ElementNode {
		return d.Wrap(d.root)
	}
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.Wrap(c)
		}
	}
	return nil
}

// Body returns the <body> element, or nil for fragments without one.
func (d *Document) Body() *Element {
	de := d.DocumentElement()
	if de == nil {
		return nil
	}
	for c := de.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Body {
			return d.Wrap(c)
		}
	}
	return nil
}

// SetLayout records host facts for el. A later call replaces earlier facts.
func (d *Document) SetLayout(el *Element, l Layout) {
	if el == nil || el.doc != d {
		return
	}
	d.layout[el.n] = &l
}

// ElementAt follows a child-index path from the document element. Each
// index is 0-based and counts element children only. An empty path
// addresses the document element itself.
func (d *Document) ElementAt(path []int) (*Element, error) {
	cur := d.DocumentElement()
	if cur == nil {
		return nil, ErrNotFound
	}
	for depth, idx := range path {
		kids := cur.Children()
		if idx < 0 || idx >= len(kids) {
			return nil, fmt.Errorf("dom: path step %d index %d of %d: %w", depth, idx, len(kids), ErrNotFound)
		}
		cur = kids[idx]
	}
	return cur, nil
}
