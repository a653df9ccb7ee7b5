package page

import (
	"context"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/elinspect/describe"
	"github.com/hazyhaar/elinspect/dom"
	"github.com/hazyhaar/elinspect/inspect"
)

// node is one serialised DOM node. Text nodes have an empty Tag.
type node struct {
	Tag      string     `json:"tag"`
	Text     string     `json:"text"`
	Attrs    []dom.Attr `json:"attrs"`
	Children []node     `json:"children"`
}

type fiberEntry struct {
	Kind        describe.TypeKind `json:"kind"`
	Name        string            `json:"name"`
	DisplayName string            `json:"displayName"`
}

type fiberChain struct {
	Key   string       `json:"key"`
	Chain []fiberEntry `json:"chain"`
}

type targetFacts struct {
	Rect   dom.Rect          `json:"rect"`
	Scroll dom.Scroll        `json:"scroll"`
	Style  map[string]string `json:"style"`
	HTML   string            `json:"html"`
	Fiber  *fiberChain       `json:"fiber"`
}

// snapshot is the live tree plus the host facts of one element.
type snapshot struct {
	Tree   *node        `json:"tree"`
	Found  bool         `json:"found"`
	Target *targetFacts `json:"target"`
}

type snapshotRequest struct {
	Ref    string `json:"ref"`
	Labels bool   `json:"labels"`
}

// Resolver implements inspect.Resolver by snapshotting the live document
// at call time.
type Resolver struct {
	script *Script
	labels bool
}

// NewResolver creates a Resolver. labels enables component fiber capture.
func NewResolver(s *Script, labels bool) *Resolver {
	return &Resolver{script: s, labels: labels}
}

// Resolve implements inspect.Resolver.
func (r *Resolver) Resolve(ctx context.Context, t inspect.Target) (*dom.Element, error) {
	path, err := ParseRef(t.Ref)
	if err != nil {
		return nil, err
	}
	var snap snapshot
	if err := r.script.call(ctx, "snapshot", snapshotRequest{Ref: t.Ref, Labels: r.labels}, &snap); err != nil {
		return nil, err
	}
	return snap.element(path)
}

type located struct {
	Ref   string `json:"ref"`
	Error string `json:"error"`
}

// Locate returns the reference of the first element matching sel in the
// live document.
func (r *Resolver) Locate(ctx context.Context, sel string) (string, error) {
	var l located
	if err := r.script.call(ctx, "locate", sel, &l); err != nil {
		return "", err
	}
	if l.Error != "" {
		return "", fmt.Errorf("page: selector %q: %s", sel, l.Error)
	}
	if l.Ref == "" {
		return "", fmt.Errorf("page: selector %q: %w", sel, dom.ErrNotFound)
	}
	return l.Ref, nil
}

// element rebuilds the document and returns the element at path with the
// host facts attached.
func (s *snapshot) element(path []int) (*dom.Element, error) {
	if s.Tree == nil || !s.Found || s.Target == nil {
		return nil, dom.ErrNotFound
	}
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(buildNode(s.Tree))
	doc := dom.NewDocument(root)

	el, err := doc.ElementAt(path)
	if err != nil {
		return nil, err
	}
	layout := dom.Layout{
		Rect:   s.Target.Rect,
		Scroll: s.Target.Scroll,
		Style:  s.Target.Style,
		Markup: s.Target.HTML,
	}
	if f := s.Target.Fiber; f != nil && len(f.Chain) > 0 {
		layout.Props = []dom.Prop{{Key: f.Key, Value: linkFibers(f.Chain)}}
	}
	doc.SetLayout(el, layout)
	return el, nil
}

func buildNode(n *node) *html.Node {
	if n.Tag == "" {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}
	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attrs {
		out.Attr = append(out.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	for i := range n.Children {
		out.AppendChild(buildNode(&n.Children[i]))
	}
	return out
}

// linkFibers turns a child-first chain into a Return-linked list.
func linkFibers(chain []fiberEntry) *describe.Fiber {
	var next *describe.Fiber
	for i := len(chain) - 1; i >= 0; i-- {
		f := &describe.Fiber{Return: next}
		if c := chain[i]; c.Kind != describe.Host {
			f.Type = &describe.ComponentType{Kind: c.Kind, Name: c.Name, DisplayName: c.DisplayName}
		}
		next = f
	}
	return next
}
