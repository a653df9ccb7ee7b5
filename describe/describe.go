// Package describe extracts the facts the formatters render about one
// element: identity, attributes, the fixed presentation subset, geometry,
// markup, text and an optional component label.
//
// Missing data never produces an error. An element without attributes,
// matching styles or a component label yields a smaller Facts value.
package describe

import (
	"strings"

	"github.com/hazyhaar/elinspect/dom"
	"github.com/hazyhaar/elinspect/selector"
)

// Attribute name prefixes treated as instrumentation noise.
var noisePrefixes = []string{selector.OwnPrefix, "data-cursor"}

// transparent is the resolved value of an unset background.
const transparent = "rgba(0, 0, 0, 0)"

// StyleProps is the closed set of presentation properties, in output order.
// Name is the camelCase key used in output, CSS the property queried.
var StyleProps = []struct {
	Name string
	CSS  string
}{
	{"color", "color"},
	{"backgroundColor", "background-color"},
	{"fontSize", "font-size"},
	{"fontFamily", "font-family"},
	{"display", "display"},
	{"position", "position"},
}

// Style is one resolved presentation property.
type Style struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Facts are the raw per-element facts.
type Facts struct {
	Tag        string     `json:"tag"`
	ID         string     `json:"id,omitempty"`
	OpenTag    string     `json:"openTag"`
	OuterHTML  string     `json:"outerHTML"`
	Attrs      []dom.Attr `json:"attrs,omitempty"`
	Styles     []Style    `json:"styles,omitempty"`
	Rect       dom.Rect   `json:"rect"`
	Text       string     `json:"text"`
	DirectText string     `json:"directText"`
	Component  string     `json:"component,omitempty"`
}

// Options selects optional capabilities.
type Options struct {
	// Namer resolves component labels. Nil means None.
	Namer ComponentNamer
}

// Describe reads the facts of el. el must not be nil.
func Describe(el *dom.Element, opts Options) Facts {
	namer := opts.Namer
	if namer == nil {
		namer = None
	}
	return Facts{
		Tag:        el.Tag(),
		ID:         el.ID(),
		OpenTag:    el.OpenTag(),
		OuterHTML:  el.OuterHTML(),
		Attrs:      Attributes(el),
		Styles:     Styles(el),
		Rect:       el.Rect(),
		Text:       el.TextContent(),
		DirectText: el.DirectText(),
		Component:  namer.ComponentName(el),
	}
}

// Attributes returns the attributes of el in document order, minus the
// instrumentation families. Inspector-owned class names are removed from
// class, and class is dropped when nothing else remains.
func Attributes(el *dom.Element) []dom.Attr {
	var out []dom.Attr
	for _, a := range el.Attrs() {
		if isNoise(a.Name) {
			continue
		}
		if a.Name == "class" {
			v, stripped := ownFreeClasses(a.Value)
			if stripped && v == "" {
				continue
			}
			if stripped {
				a.Value = v
			}
		}
		out = append(out, a)
	}
	return out
}

func ownFreeClasses(v string) (string, bool) {
	fields := strings.Fields(v)
	kept := fields[:0]
	for _, c := range fields {
		if !selector.IsOwnClass(c) {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(fields) {
		return v, false
	}
	return strings.Join(kept, " "), true
}

func isNoise(name string) bool {
	for _, p := range noisePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Styles returns the resolved presentation subset, dropping empty and
// fully transparent values.
func Styles(el *dom.Element) []Style {
	var out []Style
	for _, p := range StyleProps {
		v := el.ComputedStyle(p.CSS)
		if v == "" || v == transparent {
			continue
		}
		out = append(out, Style{Name: p.Name, Value: v})
	}
	return out
}

// Description is the value assembled once per capture. It is never
// modified after New returns.
type Description struct {
	Path    selector.Path   `json:"path"`
	Lineage []selector.Part `json:"lineage"`
	Facts
}

// New describes el and resolves its paths.
func New(el *dom.Element, opts Options) Description {
	return Description{
		Path:    selector.Resolve(el),
		Lineage: selector.Lineage(el),
		Facts:   Describe(el, opts),
	}
}
