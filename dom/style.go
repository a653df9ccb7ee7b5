package dom

import (
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Properties that inherit from the parent when not declared.
var inherited = map[string]bool{
	"color":       true,
	"font-size":   true,
	"font-family": true,
}

// Initial values used at the top of the tree for documents without a host.
var initial = map[string]string{
	"color":            "rgb(0, 0, 0)",
	"background-color": "rgba(0, 0, 0, 0)",
	"font-size":        "16px",
	"position":         "static",
}

var blockDisplay = map[atom.Atom]string{
	atom.Html: "block", atom.Body: "block", atom.Div: "block", atom.P: "block",
	atom.Section: "block", atom.Article: "block", atom.Main: "block", atom.Nav: "block",
	atom.Header: "block", atom.Footer: "block", atom.Aside: "block", atom.Form: "block",
	atom.H1: "block", atom.H2: "block", atom.H3: "block", atom.H4: "block", atom.H5: "block",
	atom.H6: "block", atom.Ul: "block", atom.Ol: "block", atom.Pre: "block",
	atom.Blockquote: "block", atom.Figure: "block", atom.Fieldset: "block", atom.Hr: "block",
	atom.Dl: "block", atom.Dd: "block", atom.Dt: "block", atom.Address: "block",
	atom.Li: "list-item", atom.Table: "table", atom.Tr: "table-row", atom.Td: "table-cell",
	atom.Th: "table-cell", atom.Thead: "table-header-group", atom.Tbody: "table-row-group",
	atom.Tfoot: "table-footer-group", atom.Button: "inline-block", atom.Select: "inline-block",
	atom.Input: "inline-block", atom.Textarea: "inline-block",
	atom.Head: "none", atom.Script: "none", atom.Style: "none", atom.Template: "none",
	atom.Title: "none", atom.Meta: "none", atom.Link: "none",
}

// ComputedStyle returns the resolved value of a CSS property (hyphenated
// name). When a host measured e, its resolved values are authoritative and a
// missing entry reads as "". Otherwise the value is derived from inline
// style declarations, inheritance and initial values.
func (e *Element) ComputedStyle(prop string) string {
	if l := e.layout(); l != nil && l.Style != nil {
		return l.Style[prop]
	}
	return e.staticStyle(prop)
}

func (e *Element) staticStyle(prop string) string {
	if v, ok := declared(e.n, prop); ok {
		return v
	}
	if inherited[prop] {
		if p := e.Parent(); p != nil {
			return p.staticStyle(prop)
		}
	}
	if prop == "display" {
		if v, ok := blockDisplay[e.n.DataAtom]; ok {
			return v
		}
		return "inline"
	}
	return initial[prop]
}

// declared returns the winning inline declaration for prop. Later
// declarations override earlier ones unless an earlier one is !important.
func declared(n *html.Node, prop string) (string, bool) {
	var raw string
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "style" {
			raw = a.Val
		}
	}
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	decls, err := parser.ParseDeclarations(raw)
	if err != nil {
		return "", false
	}
	var (
		val       string
		found     bool
		important bool
	)
	for _, d := range decls {
		if !strings.EqualFold(d.Property, prop) {
			continue
		}
		if important && !d.Important {
			continue
		}
		val, found, important = strings.TrimSpace(d.Value), true, d.Important
	}
	return val, found
}
