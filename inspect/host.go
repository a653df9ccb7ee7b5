package inspect

import (
	"context"
	"strings"

	"github.com/hazyhaar/elinspect/dom"
	"github.com/hazyhaar/elinspect/selector"
)

// EventKind enumerates the three observed input events.
type EventKind int

const (
	PointerMove EventKind = iota
	Click
	KeyDown
)

func (k EventKind) String() string {
	switch k {
	case PointerMove:
		return "pointermove"
	case Click:
		return "click"
	case KeyDown:
		return "keydown"
	}
	return "unknown"
}

// Target identifies the element an event was dispatched to. Ref is an
// opaque host reference the Resolver and Overlay understand.
type Target struct {
	Ref   string `json:"ref"`
	Tag   string `json:"tag,omitempty"`
	ID    string `json:"id,omitempty"`
	Class string `json:"class,omitempty"`
}

// Own reports whether t is one of the inspector's injected elements.
func (t Target) Own() bool {
	if selector.IsOwnClass(t.ID) {
		return true
	}
	for _, c := range strings.Fields(t.Class) {
		if selector.IsOwnClass(c) {
			return true
		}
	}
	return false
}

// Event is one input event observed during an armed session.
type Event struct {
	Kind   EventKind `json:"kind"`
	Target Target    `json:"target"`
	Key    string    `json:"key,omitempty"`
}

// Severity grades a notification.
type Severity int

const (
	Success Severity = iota
	Error
	Info
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	case Info:
		return "info"
	}
	return "unknown"
}

// EventSource installs and removes the capturing-phase observers for
// pointer-move, click and key-down. Detach must tolerate repeated calls.
type EventSource interface {
	Attach(ctx context.Context) error
	Detach(ctx context.Context) error
}

// Overlay draws the hover outline and its tooltip label.
type Overlay interface {
	Create(ctx context.Context) error
	Show(ctx context.Context, t Target) error
	Remove(ctx context.Context) error
}

// Resolver turns a target into a described element read from the live
// tree at call time.
type Resolver interface {
	Resolve(ctx context.Context, t Target) (*dom.Element, error)
}

// Clipboard accepts the finished text and reports whether any write path
// succeeded.
type Clipboard interface {
	Copy(ctx context.Context, text string) bool
}

// Notifier shows a transient message.
type Notifier interface {
	Notify(ctx context.Context, msg string, sev Severity)
}

// Host bundles the collaborators of one document context.
type Host struct {
	// Context names the document context for the Registry.
	Context   string
	Events    EventSource
	Overlay   Overlay
	Resolver  Resolver
	Clipboard Clipboard
	Notifier  Notifier
}
