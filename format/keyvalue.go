package format

import (
	"strings"

	"github.com/hazyhaar/elinspect/describe"
)

// keyValue emits every section header even when its body is empty.
func keyValue(d describe.Description) string {
	var attrs, styles []string
	for _, a := range d.Attrs {
		attrs = append(attrs, a.Name+":\n"+a.Value)
	}
	for _, s := range d.Styles {
		styles = append(styles, s.Name+":\n"+s.Value)
	}

	sections := []struct {
		header string
		body   string
	}{
		{"HTML Element:", d.OuterHTML},
		{"Selector:", d.Path.Selector},
		{"Attributes:", strings.Join(attrs, "\n")},
		{"Computed Styles:", strings.Join(styles, "\n")},
		{"Position:", strings.Join([]string{
			"top: " + px(d.Rect.Top),
			"left: " + px(d.Rect.Left),
			"width: " + px(d.Rect.Width),
			"height: " + px(d.Rect.Height),
		}, "\n")},
		{"Text:", d.DirectText},
	}

	out := make([]string, len(sections))
	for i, s := range sections {
		if s.body == "" {
			out[i] = s.header
			continue
		}
		out[i] = s.header + "\n" + s.body
	}
	return strings.Join(out, "\n\n")
}
