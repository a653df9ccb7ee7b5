package inspect

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hazyhaar/elinspect/dom"
	"github.com/hazyhaar/elinspect/format"
)

const page = `<body>
<form class="login"><button id="submit" class="btn">Send</button></form>
<div id="__element-inspector-overlay"></div>
</body>`

// fakeHost records every collaborator call.
type fakeHost struct {
	doc *dom.Document

	attach, detach int
	create, remove int
	shown          []string
	copied         []string
	notes          []string
	sevs           []Severity
	copyOK         bool
	attachErr      error
}

func newFakeHost(t *testing.T) *fakeHost {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	return &fakeHost{doc: doc, copyOK: true}
}

func (h *fakeHost) Attach(context.Context) error { h.attach++; return h.attachErr }
func (h *fakeHost) Detach(context.Context) error { h.detach++; return nil }
func (h *fakeHost) Create(context.Context) error { h.create++; return nil }
func (h *fakeHost) Remove(context.Context) error { h.remove++; return nil }

func (h *fakeHost) Show(_ context.Context, t Target) error {
	h.shown = append(h.shown, t.Ref)
	return nil
}

func (h *fakeHost) Resolve(_ context.Context, t Target) (*dom.Element, error) {
	return h.doc.Query(t.Ref)
}

func (h *fakeHost) Copy(_ context.Context, text string) bool {
	h.copied = append(h.copied, text)
	return h.copyOK
}

func (h *fakeHost) Notify(_ context.Context, msg string, sev Severity) {
	h.notes = append(h.notes, msg)
	h.sevs = append(h.sevs, sev)
}

func (h *fakeHost) host(docCtx string) Host {
	return Host{
		Context:   docCtx,
		Events:    h,
		Overlay:   h,
		Resolver:  h,
		Clipboard: h,
		Notifier:  h,
	}
}

func newSession(h *fakeHost, reg *Registry, id string) *Session {
	return NewSession(Config{
		ID:        id,
		Host:      h.host("tab-1"),
		Registry:  reg,
		Formatter: format.New(format.Options{Kind: format.CompactPrompt}),
	})
}

var (
	submit  = Target{Ref: "#submit", Tag: "button", ID: "submit", Class: "btn"}
	form    = Target{Ref: "form", Tag: "form", Class: "login"}
	overlay = Target{Ref: "#__element-inspector-overlay", ID: "__element-inspector-overlay"}
)

func TestArm(t *testing.T) {
	ctx := context.Background()
	h := newFakeHost(t)
	s := newSession(h, NewRegistry(), "s1")

	if err := s.Arm(ctx); err != nil {
		t.Fatal(err)
	}
	if s.State() != Armed {
		t.Fatalf("state: got %v, want armed", s.State())
	}
	if err := s.Arm(ctx); err != nil {
		t.Fatalf("re-arm: %v", err)
	}
	if h.attach != 1 || h.create != 1 {
		t.Errorf("re-arm stacked listeners: attach=%d create=%d", h.attach, h.create)
	}
	if len(h.notes) != 1 || h.notes[0] != MsgArmed {
		t.Errorf("notes: got %q", h.notes)
	}
}

func TestRegistryScopesArming(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	h := newFakeHost(t)

	first := newSession(h, reg, "s1")
	if err := first.Arm(ctx); err != nil {
		t.Fatal(err)
	}
	second := newSession(h, reg, "s2")
	if err := second.Arm(ctx); !errors.Is(err, ErrAlreadyArmed) {
		t.Fatalf("got %v, want ErrAlreadyArmed", err)
	}
	if second.State() != Idle || h.attach != 1 {
		t.Errorf("second arm changed state: %v attach=%d", second.State(), h.attach)
	}

	other := NewSession(Config{ID: "s3", Host: h.host("tab-2"), Registry: reg})
	if err := other.Arm(ctx); err != nil {
		t.Errorf("other context: %v", err)
	}

	first.Terminate(ctx)
	if _, held := reg.Armed("tab-1"); held {
		t.Error("tab-1 still held after terminate")
	}
	if err := second.Arm(ctx); err != nil {
		t.Errorf("arm after release: %v", err)
	}
}

func TestArmRollsBackOnAttachError(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	h := newFakeHost(t)
	h.attachErr = errors.New("binding refused")
	s := newSession(h, reg, "s1")

	if err := s.Arm(ctx); err == nil {
		t.Fatal("expected error")
	}
	if s.State() != Idle {
		t.Errorf("state: got %v, want idle", s.State())
	}
	if h.remove != 1 {
		t.Errorf("overlay not removed: remove=%d", h.remove)
	}
	if _, held := reg.Armed("tab-1"); held {
		t.Error("context still held")
	}
}

func TestPointerMove(t *testing.T) {
	ctx := context.Background()
	h := newFakeHost(t)
	s := newSession(h, NewRegistry(), "s1")

	s.PointerMove(ctx, submit)
	if len(h.shown) != 0 {
		t.Fatal("idle session moved the overlay")
	}

	_ = s.Arm(ctx)
	s.PointerMove(ctx, submit)
	s.PointerMove(ctx, submit)
	s.PointerMove(ctx, overlay)
	s.PointerMove(ctx, form)

	want := []string{"#submit", "form"}
	if strings.Join(h.shown, ",") != strings.Join(want, ",") {
		t.Errorf("shown: got %v, want %v", h.shown, want)
	}
	if got, _ := s.Hover(); got.Ref != "form" {
		t.Errorf("hover: got %q", got.Ref)
	}
}

func TestClickCommits(t *testing.T) {
	ctx := context.Background()
	h := newFakeHost(t)
	s := newSession(h, NewRegistry(), "s1")
	_ = s.Arm(ctx)

	s.Handle(ctx, Event{Kind: PointerMove, Target: submit})
	s.Handle(ctx, Event{Kind: Click, Target: submit})

	select {
	case <-s.Done():
	default:
		t.Fatal("session not done after click")
	}
	if s.State() != Terminated {
		t.Errorf("state: got %v", s.State())
	}
	out := s.Outcome()
	if !out.Copied || out.Err != nil {
		t.Fatalf("outcome: %+v", out)
	}
	if len(h.copied) != 1 || h.copied[0] != out.Text {
		t.Fatalf("clipboard: got %q", h.copied)
	}
	if !strings.HasPrefix(out.Text, `\DOM Path: form.login > button#submit.btn`) {
		t.Errorf("text: got %q", out.Text)
	}
	if last := h.notes[len(h.notes)-1]; last != MsgCopied {
		t.Errorf("notification: got %q", last)
	}
	if h.detach != 1 || h.remove != 1 {
		t.Errorf("teardown: detach=%d remove=%d", h.detach, h.remove)
	}
}

func TestClickOwnElementStaysArmed(t *testing.T) {
	ctx := context.Background()
	h := newFakeHost(t)
	s := newSession(h, NewRegistry(), "s1")
	_ = s.Arm(ctx)

	s.Click(ctx, overlay)
	if s.State() != Armed {
		t.Errorf("state: got %v, want armed", s.State())
	}
	if len(h.copied) != 0 {
		t.Error("own element was copied")
	}
}

func TestClickCopyFailure(t *testing.T) {
	ctx := context.Background()
	h := newFakeHost(t)
	h.copyOK = false
	s := newSession(h, NewRegistry(), "s1")
	_ = s.Arm(ctx)

	s.Click(ctx, submit)
	if s.State() != Terminated {
		t.Fatalf("state: got %v", s.State())
	}
	if out := s.Outcome(); out.Copied || out.Text == "" {
		t.Errorf("outcome: %+v", out)
	}
	if last := h.sevs[len(h.sevs)-1]; last != Error {
		t.Errorf("severity: got %v, want error", last)
	}
}

func TestClickResolveFailure(t *testing.T) {
	ctx := context.Background()
	h := newFakeHost(t)
	s := newSession(h, NewRegistry(), "s1")
	_ = s.Arm(ctx)

	s.Click(ctx, Target{Ref: "#gone"})
	out := s.Outcome()
	if !errors.Is(out.Err, dom.ErrNotFound) {
		t.Errorf("err: got %v, want ErrNotFound", out.Err)
	}
	if len(h.copied) != 0 {
		t.Error("clipboard written on failure")
	}
	if s.State() != Terminated {
		t.Errorf("state: got %v", s.State())
	}
}

func TestEscapeCancels(t *testing.T) {
	ctx := context.Background()
	h := newFakeHost(t)
	s := newSession(h, NewRegistry(), "s1")
	_ = s.Arm(ctx)

	s.KeyDown(ctx, "Enter")
	if s.State() != Armed {
		t.Fatal("non-escape key ended the session")
	}
	s.Handle(ctx, Event{Kind: KeyDown, Key: "Escape"})
	if !s.Outcome().Cancelled || s.State() != Terminated {
		t.Errorf("outcome %+v state %v", s.Outcome(), s.State())
	}
	if last := h.notes[len(h.notes)-1]; last != MsgCancelled {
		t.Errorf("notification: got %q", last)
	}
	if len(h.copied) != 0 {
		t.Error("clipboard written on cancel")
	}
}

func TestTerminateIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newFakeHost(t)
	reg := NewRegistry()
	s := newSession(h, reg, "s1")
	_ = s.Arm(ctx)

	s.Terminate(ctx)
	s.Terminate(ctx)
	if h.detach != 1 || h.remove != 1 {
		t.Errorf("teardown ran twice: detach=%d remove=%d", h.detach, h.remove)
	}
	if s.State() != Terminated {
		t.Errorf("state: got %v", s.State())
	}
	if err := s.Arm(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("re-arm closed session: got %v", err)
	}
	s.Click(ctx, submit)
	if len(h.copied) != 0 {
		t.Error("terminated session handled a click")
	}
}
