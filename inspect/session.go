// Package inspect is the interaction state machine: arm hover tracking,
// follow the pointer, capture one element on click and hand its description
// to the clipboard, then tear down.
//
// The host side (observers, overlay, clipboard, notifications, node lookup)
// is injected through the interfaces in host.go, so the same Session drives a
// live browser tab or an in-memory fake.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hazyhaar/elinspect/describe"
	"github.com/hazyhaar/elinspect/format"
	"github.com/hazyhaar/elinspect/idgen"
)

// State is the lifecycle position of a Session.
type State int

const (
	Idle State = iota
	Armed
	Committing
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Committing:
		return "committing"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// Notification texts.
const (
	MsgArmed     = "🔍 Click any element to copy"
	MsgCopied    = "✓ Copied to clipboard!"
	MsgFailed    = "✗ Failed to copy"
	MsgCancelled = "Inspection cancelled"
)

var (
	// ErrAlreadyArmed is returned by Arm when another session holds the
	// document context. Nothing is installed.
	ErrAlreadyArmed = errors.New("inspect: document already being inspected")
	// ErrClosed is returned by Arm on a session that has already run.
	ErrClosed = errors.New("inspect: session closed")
)

// Outcome is the result of a finished session.
type Outcome struct {
	Text      string `json:"text,omitempty"`
	Copied    bool   `json:"copied"`
	Cancelled bool   `json:"cancelled"`
	Err       error  `json:"-"`
}

// Config holds Session dependencies.
type Config struct {
	ID        string
	Host      Host
	Registry  *Registry
	Formatter *format.Formatter
	Describe  describe.Options
	Logger    *slog.Logger
}

// Session is one inspection from arming to teardown. Events are processed
// one at a time in arrival order.
type Session struct {
	id     string
	host   Host
	reg    *Registry
	fmt    *format.Formatter
	desc   describe.Options
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	hover    *Target
	attached bool
	overlay  bool
	outcome  Outcome
	done     chan struct{}
}

// NewSession creates an idle Session.
func NewSession(cfg Config) *Session {
	if cfg.ID == "" {
		cfg.ID = idgen.Session()
	}
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry()
	}
	if cfg.Formatter == nil {
		cfg.Formatter = format.New(format.Options{Kind: format.CompactPrompt})
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{
		id:     cfg.ID,
		host:   cfg.Host,
		reg:    cfg.Registry,
		fmt:    cfg.Formatter,
		desc:   cfg.Describe,
		logger: cfg.Logger.With("session", cfg.ID),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once the session terminates.
func (s *Session) Done() <-chan struct{} { return s.done }

// Outcome returns the result. It is final once Done is closed.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Arm creates the overlay and installs the observers. Arming an armed
// session is a no-op.
func (s *Session) Arm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Armed:
		return nil
	case Committing, Terminated:
		return ErrClosed
	}

	if !s.reg.Acquire(s.host.Context, s.id) {
		s.logger.Debug("inspect: arm skipped, context busy", "context", s.host.Context)
		return ErrAlreadyArmed
	}

	if s.host.Overlay != nil {
		if err := s.host.Overlay.Create(ctx); err != nil {
			s.reg.Release(s.host.Context, s.id)
			return fmt.Errorf("inspect: create overlay: %w", err)
		}
		s.overlay = true
	}
	if s.host.Events != nil {
		if err := s.host.Events.Attach(ctx); err != nil {
			s.removeOverlay(ctx)
			s.reg.Release(s.host.Context, s.id)
			return fmt.Errorf("inspect: attach observers: %w", err)
		}
		s.attached = true
	}

	s.state = Armed
	s.notify(ctx, MsgArmed, Info)
	s.logger.Info("inspect: armed", "context", s.host.Context)
	return nil
}

// Handle dispatches one event.
func (s *Session) Handle(ctx context.Context, ev Event) {
	switch ev.Kind {
	case PointerMove:
		s.PointerMove(ctx, ev.Target)
	case Click:
		s.Click(ctx, ev.Target)
	case KeyDown:
		s.KeyDown(ctx, ev.Key)
	}
}

// PointerMove moves the highlight to t unless t is already highlighted or
// belongs to the inspector.
func (s *Session) PointerMove(ctx context.Context, t Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Armed || t.Own() {
		return
	}
	if s.hover != nil && s.hover.Ref == t.Ref {
		return
	}
	s.hover = &t
	if s.host.Overlay == nil {
		return
	}
	if err := s.host.Overlay.Show(ctx, t); err != nil {
		s.logger.Debug("inspect: overlay", "ref", t.Ref, "error", err)
	}
}

// Hover returns the highlighted target.
func (s *Session) Hover() (Target, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hover == nil {
		return Target{}, false
	}
	return *s.hover, true
}

// Click captures t, copies its description and terminates. Clicks on the
// inspector's own elements are ignored.
func (s *Session) Click(ctx context.Context, t Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Armed || t.Own() {
		return
	}
	s.state = Committing

	text, err := s.capture(ctx, t)
	// Observers go before the write so nothing re-enters while it is pending.
	s.detach(ctx)

	switch {
	case err != nil:
		s.outcome = Outcome{Err: err}
		s.logger.Warn("inspect: capture failed", "ref", t.Ref, "error", err)
		s.notify(ctx, MsgFailed, Error)
	case s.host.Clipboard != nil && s.host.Clipboard.Copy(ctx, text):
		s.outcome = Outcome{Text: text, Copied: true}
		s.notify(ctx, MsgCopied, Success)
	default:
		s.outcome = Outcome{Text: text}
		s.notify(ctx, MsgFailed, Error)
	}
	s.logger.Info("inspect: committed", "ref", t.Ref, "copied", s.outcome.Copied)
	s.terminate(ctx)
}

func (s *Session) capture(ctx context.Context, t Target) (string, error) {
	if s.host.Resolver == nil {
		return "", errors.New("inspect: no resolver")
	}
	el, err := s.host.Resolver.Resolve(ctx, t)
	if err != nil {
		return "", fmt.Errorf("inspect: resolve %s: %w", t.Ref, err)
	}
	return s.fmt.Format(describe.New(el, s.desc)), nil
}

// KeyDown cancels the session on Escape.
func (s *Session) KeyDown(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Armed || key != "Escape" {
		return
	}
	s.outcome = Outcome{Cancelled: true}
	s.notify(ctx, MsgCancelled, Info)
	s.logger.Info("inspect: cancelled")
	s.terminate(ctx)
}

// Terminate detaches observers, removes the overlay and frees the document
// context. Safe to call any number of times.
func (s *Session) Terminate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminate(ctx)
}

func (s *Session) terminate(ctx context.Context) {
	if s.state == Terminated {
		return
	}
	s.detach(ctx)
	s.removeOverlay(ctx)
	s.reg.Release(s.host.Context, s.id)
	s.hover = nil
	s.state = Terminated
	close(s.done)
}

func (s *Session) detach(ctx context.Context) {
	if !s.attached {
		return
	}
	s.attached = false
	if err := s.host.Events.Detach(ctx); err != nil {
		s.logger.Debug("inspect: detach", "error", err)
	}
}

func (s *Session) removeOverlay(ctx context.Context) {
	if !s.overlay {
		return
	}
	s.overlay = false
	if err := s.host.Overlay.Remove(ctx); err != nil {
		s.logger.Debug("inspect: remove overlay", "error", err)
	}
}

func (s *Session) notify(ctx context.Context, msg string, sev Severity) {
	if s.host.Notifier == nil {
		return
	}
	s.host.Notifier.Notify(ctx, msg, sev)
}
