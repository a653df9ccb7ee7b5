package page

import (
	"context"

	"github.com/hazyhaar/elinspect/dom"
	"github.com/hazyhaar/elinspect/inspect"
)

// Overlay implements inspect.Overlay inside the page.
type Overlay struct {
	script *Script
}

// NewOverlay creates an Overlay over s.
func NewOverlay(s *Script) *Overlay { return &Overlay{script: s} }

type measurement struct {
	Found  bool       `json:"found"`
	Rect   dom.Rect   `json:"rect"`
	Scroll dom.Scroll `json:"scroll"`
}

// Create implements inspect.Overlay.
func (o *Overlay) Create(ctx context.Context) error {
	return o.script.call(ctx, "createOverlay", nil, nil)
}

// Show implements inspect.Overlay.
func (o *Overlay) Show(ctx context.Context, t inspect.Target) error {
	var m measurement
	if err := o.script.call(ctx, "measure", t.Ref, &m); err != nil {
		return err
	}
	if !m.Found {
		return dom.ErrNotFound
	}
	p := inspect.PlaceTooltip(m.Rect, m.Scroll)
	p.Label = inspect.Label(t.Tag, t.ID, t.Class)
	return o.script.call(ctx, "place", p, nil)
}

// Remove implements inspect.Overlay.
func (o *Overlay) Remove(ctx context.Context) error {
	return o.script.call(ctx, "removeOverlay", nil, nil)
}
