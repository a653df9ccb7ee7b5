package page

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/elinspect/inspect"
)

const eventBuffer = 64

// payload is what the page script sends through the binding.
type payload struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
	Ref  string `json:"ref"`
	Tag  string `json:"tag"`
	ID   string `json:"id"`
	Cls  string `json:"cls"`
}

func (p payload) event() (inspect.Event, bool) {
	ev := inspect.Event{
		Target: inspect.Target{Ref: p.Ref, Tag: p.Tag, ID: p.ID, Class: p.Cls},
		Key:    p.Key,
	}
	switch p.Kind {
	case "move":
		ev.Kind = inspect.PointerMove
	case "click":
		ev.Kind = inspect.Click
	case "key":
		ev.Kind = inspect.KeyDown
	default:
		return inspect.Event{}, false
	}
	return ev, true
}

// Bridge is the inspect.EventSource of a live tab. Attach installs the
// capturing listeners; events arrive on Events in dispatch order.
type Bridge struct {
	script *Script
	logger *slog.Logger
	events chan inspect.Event
	gone   chan struct{}

	mu       sync.Mutex
	bound    bool
	cancel   context.CancelFunc
	goneOnce sync.Once
}

// NewBridge creates a Bridge over s.
func NewBridge(s *Script, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		script: s,
		logger: logger,
		events: make(chan inspect.Event, eventBuffer),
		gone:   make(chan struct{}),
	}
}

// Events delivers observed input events.
func (b *Bridge) Events() <-chan inspect.Event { return b.events }

// Gone is closed when the main frame navigates away, which discards the
// page script and its listeners.
func (b *Bridge) Gone() <-chan struct{} { return b.gone }

// Attach implements inspect.EventSource.
func (b *Bridge) Attach(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.bound {
		page := b.script.Page()
		if err := (proto.RuntimeAddBinding{Name: BindingName}).Call(page); err != nil {
			return err
		}
		listenCtx, cancel := context.WithCancel(ctx)
		b.cancel = cancel
		wait := page.Context(listenCtx).EachEvent(
			func(e *proto.RuntimeBindingCalled) {
				if e.Name == BindingName {
					b.receive(listenCtx, e.Payload)
				}
			},
			func(e *proto.PageFrameNavigated) {
				if e.Frame != nil && e.Frame.ParentID == "" {
					b.goneOnce.Do(func() { close(b.gone) })
				}
			},
		)
		go wait()
		b.bound = true
	}
	return b.script.call(ctx, "install", BindingName, nil)
}

// Detach implements inspect.EventSource.
func (b *Bridge) Detach(ctx context.Context) error {
	return b.script.call(ctx, "detach", nil, nil)
}

// Close stops listening for binding calls.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

// receive decodes one binding payload. Pointer moves are dropped when the
// consumer lags; clicks and keys wait for room.
func (b *Bridge) receive(ctx context.Context, raw string) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		b.logger.Debug("page: bad binding payload", "error", err)
		return
	}
	ev, ok := p.event()
	if !ok {
		return
	}
	if ev.Kind == inspect.PointerMove {
		select {
		case b.events <- ev:
		default:
		}
		return
	}
	select {
	case b.events <- ev:
	case <-ctx.Done():
	}
}
