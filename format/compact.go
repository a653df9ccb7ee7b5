package format

import (
	"strings"

	"github.com/hazyhaar/elinspect/describe"
	"github.com/hazyhaar/elinspect/dom"
	"github.com/hazyhaar/elinspect/selector"
)

func (f *Formatter) compact(d describe.Description) string {
	var sb strings.Builder
	sb.WriteString("DOM Path: ")
	sb.WriteString(selector.Chain(d.Lineage, abbreviateClass))
	sb.WriteByte('\n')

	sb.WriteString("Position: top=" + px(d.Rect.Top) +
		", left=" + px(d.Rect.Left) +
		", width=" + px(d.Rect.Width) +
		", height=" + px(d.Rect.Height) + "\n")

	if d.Component != "" {
		sb.WriteString("React Component: " + d.Component + "\n")
	}

	if len(d.Attrs) > 0 {
		attrs := make([]string, len(d.Attrs))
		for i, a := range d.Attrs {
			attrs[i] = a.Name + `="` + a.Value + `"`
		}
		sb.WriteString("Attributes: " + strings.Join(attrs, ", ") + "\n")
	}

	if len(d.Styles) > 0 {
		styles := make([]string, len(d.Styles))
		for i, s := range d.Styles {
			styles[i] = s.Name + ": " + s.Value
		}
		sb.WriteString("Computed Styles: " + strings.Join(styles, "\n") + "\n")
	}

	sb.WriteString("HTML Element: ")
	if f.opts.Synopsis {
		sb.WriteString(synopsis(d.Facts))
	} else {
		sb.WriteString(d.OuterHTML)
	}
	return wrapper + sb.String() + wrapper
}

// synopsis renders the open tag, truncated direct text and the closing tag
// on one line.
func synopsis(f describe.Facts) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(f.Tag)
	for _, a := range f.Attrs {
		v := a.Value
		if a.Name == "class" {
			v = abbreviateClassList(v)
		}
		sb.WriteString(" " + a.Name + `="` + dom.EscapeAttr(v) + `"`)
	}
	sb.WriteByte('>')
	if dom.IsVoid(f.Tag) {
		return sb.String()
	}
	sb.WriteString(truncate(f.DirectText, maxSynopsisText))
	sb.WriteString("</" + f.Tag + ">")
	return sb.String()
}

func abbreviateClassList(v string) string {
	var out []string
	for _, c := range strings.Fields(v) {
		if selector.IsOwnClass(c) {
			continue
		}
		out = append(out, abbreviateClass(c))
	}
	return strings.Join(out, " ")
}
