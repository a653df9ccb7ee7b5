package inspector

import (
	"github.com/hazyhaar/elinspect/describe"
	"github.com/hazyhaar/elinspect/format"
)

// Options selects how one element is described.
type Options struct {
	Format   format.Kind
	Synopsis bool
	Markdown bool
	// Labels enables component labels from framework instrumentation.
	Labels bool
}

// OptionsFrom derives Options from configuration. An unknown format kind
// falls back to the compact layout.
func OptionsFrom(cfg *Config) Options {
	kind, err := format.ParseKind(cfg.Format.Kind)
	if err != nil {
		kind = format.CompactPrompt
	}
	return Options{
		Format:   kind,
		Synopsis: cfg.Format.Synopsis,
		Markdown: cfg.Format.Markdown,
		Labels:   cfg.Labels(),
	}
}

// ForTarget applies a target's format override.
func (o Options) ForTarget(t Target) Options {
	if t.Format == "" {
		return o
	}
	if kind, err := format.ParseKind(t.Format); err == nil {
		o.Format = kind
	}
	return o
}

func (o Options) formatter() *format.Formatter {
	return format.New(format.Options{Kind: o.Format, Synopsis: o.Synopsis, Markdown: o.Markdown})
}

func (o Options) describe() describe.Options {
	if o.Labels {
		return describe.Options{Namer: describe.FrameworkIntrospector{}}
	}
	return describe.Options{}
}

// Result is a one-shot description.
type Result struct {
	Text       string `json:"text"`
	Selector   string `json:"selector"`
	Executable string `json:"executable"`
	Tag        string `json:"tag"`
	Component  string `json:"component,omitempty"`
}

func newResult(d describe.Description, o Options) *Result {
	return &Result{
		Text:       o.formatter().Format(d),
		Selector:   d.Path.Selector,
		Executable: d.Path.Executable,
		Tag:        d.Tag,
		Component:  d.Component,
	}
}
