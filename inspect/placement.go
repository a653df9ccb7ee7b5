package inspect

import (
	"errors"
	"strings"

	"github.com/hazyhaar/elinspect/dom"
	"github.com/hazyhaar/elinspect/selector"
)

// Tooltip geometry, in CSS pixels.
const (
	tooltipRise = 30
	tooltipDrop = 5
)

// Point is a page-coordinate position.
type Point struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Placement positions the hover outline and its label in page coordinates.
type Placement struct {
	Box     dom.Rect `json:"box"`
	Tooltip Point    `json:"tooltip"`
	Label   string   `json:"label"`
}

// PlaceTooltip converts a viewport rect into page coordinates and puts the
// tooltip above the box, or below it when less than 30px of room remains
// above.
func PlaceTooltip(r dom.Rect, s dom.Scroll) Placement {
	p := Placement{
		Box: dom.Rect{
			Top:    r.Top + s.Y,
			Left:   r.Left + s.X,
			Width:  r.Width,
			Height: r.Height,
		},
		Tooltip: Point{Top: r.Top + s.Y - tooltipRise, Left: r.Left + s.X},
	}
	if r.Top < tooltipRise {
		p.Tooltip.Top = r.Bottom() + s.Y + tooltipDrop
	}
	return p
}

// Label renders the tooltip text tag#id.class1.class2 with the inspector's
// own classes left out.
func Label(tag, id, className string) string {
	part := selector.Part{Tag: strings.ToLower(tag), ID: id}
	for _, c := range strings.Fields(className) {
		if !selector.IsOwnClass(c) {
			part.Classes = append(part.Classes, c)
		}
	}
	return part.String()
}

var (
	// ErrNoTarget is returned when there is no document to instrument.
	ErrNoTarget = errors.New("inspect: no target document")
	// ErrUninstrumentable is returned for privileged or internal pages.
	ErrUninstrumentable = errors.New("inspect: page cannot be inspected")
)

var privilegedSchemes = []string{
	"chrome://",
	"chrome-extension://",
	"edge://",
	"about:",
	"devtools://",
}

// CanInstrument reports whether a document at url may be armed.
func CanInstrument(url string) error {
	u := strings.TrimSpace(url)
	if u == "" {
		return ErrNoTarget
	}
	lower := strings.ToLower(u)
	for _, p := range privilegedSchemes {
		if strings.HasPrefix(lower, p) {
			return ErrUninstrumentable
		}
	}
	return nil
}
