package format

import (
	"strings"

	"github.com/hazyhaar/elinspect/describe"
)

func (f *Formatter) verbose(d describe.Description) string {
	var sections []string
	add := func(title, body string) {
		sections = append(sections, "## "+title+"\n"+body)
	}

	add("Element", "```html\n"+d.OuterHTML+"\n```")
	add("DOM Path", "`"+d.Path.Display+"`")

	if d.Component != "" {
		add("React Component", d.Component)
	}

	if len(d.Attrs) > 0 {
		lines := make([]string, len(d.Attrs))
		for i, a := range d.Attrs {
			lines[i] = "- `" + a.Name + "`: `" + a.Value + "`"
		}
		add("Attributes", strings.Join(lines, "\n"))
	}

	if len(d.Styles) > 0 {
		lines := make([]string, len(d.Styles))
		for i, s := range d.Styles {
			lines[i] = "- **" + s.Name + ":** " + s.Value
		}
		add("Computed Styles", strings.Join(lines, "\n"))
	}

	add("Position & Size", strings.Join([]string{
		"- **top:** " + px(d.Rect.Top),
		"- **left:** " + px(d.Rect.Left),
		"- **width:** " + rawPx(d.Rect.Width),
		"- **height:** " + rawPx(d.Rect.Height),
	}, "\n"))

	if text := strings.TrimSpace(d.Text); text != "" {
		add("Text Content", text)
	}

	if f.md != nil {
		if md := f.markdown(d.OuterHTML); md != "" {
			add("Rendered Markdown", md)
		}
	}

	return strings.Join(sections, "\n\n")
}

// markdown converts markup to Markdown, returning "" when nothing readable
// comes out.
func (f *Formatter) markdown(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	out, err := f.md.ConvertString(markup)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
