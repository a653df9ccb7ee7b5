// Package inspector wires the inspection state machine to a live Chrome
// tab and offers one-shot descriptions of HTML documents and live pages.
//
// An Inspector owns one browser manager. Inspect arms a session in a tab
// and blocks until the user clicks an element, presses Escape, navigates
// away, or the context ends.
package inspector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hazyhaar/elinspect/clipboard"
	"github.com/hazyhaar/elinspect/describe"
	"github.com/hazyhaar/elinspect/dom"
	"github.com/hazyhaar/elinspect/idgen"
	"github.com/hazyhaar/elinspect/inspect"
	"github.com/hazyhaar/elinspect/inspector/internal/browser"
	"github.com/hazyhaar/elinspect/inspector/internal/notify"
	"github.com/hazyhaar/elinspect/inspector/internal/page"
)

// toastFade matches the fade-out of page toasts.
const toastFade = 300 * time.Millisecond

// ErrNavigated is returned when the inspected tab navigates away during a
// session.
var ErrNavigated = errors.New("inspector: page navigated away")

// Inspector is the top-level orchestrator. Create one per process.
type Inspector struct {
	cfg       *Config
	mgr       *browser.Manager
	mode      browser.Mode
	reg       *inspect.Registry
	clip      []clipboard.Writer
	notifiers []inspect.Notifier
	logger    *slog.Logger
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithClipboard adds writers tried after the page's own clipboard paths
// fail, for example clipboard.System.
func WithClipboard(w ...clipboard.Writer) Option {
	return func(i *Inspector) { i.clip = append(i.clip, w...) }
}

// WithNotifier adds a notifier next to the in-page toasts and the log.
func WithNotifier(n inspect.Notifier) Option {
	return func(i *Inspector) { i.notifiers = append(i.notifiers, n) }
}

// WithNotifyLines also writes every notification to w as one JSON object
// per line.
func WithNotifyLines(w io.Writer) Option {
	return WithNotifier(notify.NewLines(w))
}

// New creates an Inspector from configuration. A nil cfg uses defaults.
func New(cfg *Config, logger *slog.Logger, opts ...Option) *Inspector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	mode := browser.ModeVisible
	switch {
	case cfg.Browser.Headless:
		mode = browser.ModeHeadless
	case cfg.Browser.XvfbDisplay != "":
		mode = browser.ModeVirtual
	}

	i := &Inspector{
		cfg:  cfg,
		mode: mode,
		mgr: browser.NewManager(browser.Config{
			RemoteURL:        cfg.Browser.Remote,
			Mode:             mode,
			MemoryLimit:      cfg.Browser.MemoryLimit,
			RecycleInterval:  cfg.Browser.RecycleInterval,
			ResourceBlocking: cfg.Browser.ResourceBlocking,
			XvfbDisplay:      cfg.Browser.XvfbDisplay,
			Logger:           logger,
		}),
		reg:    inspect.NewRegistry(),
		logger: logger,
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Options returns the describe options from configuration.
func (i *Inspector) Options() Options { return OptionsFrom(i.cfg) }

// Start launches or attaches to Chrome.
func (i *Inspector) Start(ctx context.Context) error {
	if _, err := i.mgr.Start(ctx); err != nil {
		return fmt.Errorf("inspector: start browser: %w", err)
	}
	return nil
}

// Stop releases the browser.
func (i *Inspector) Stop() error {
	return i.mgr.Close()
}

// tab finds an open tab showing pageURL or opens one.
func (i *Inspector) tab(ctx context.Context, pageURL string) (*browser.Tab, error) {
	id := idgen.Session()
	if p, ok := i.mgr.FindTab(pageURL); ok {
		i.logger.Debug("inspector: reusing tab", "url", pageURL)
		return browser.Adopt(p, pageURL, id), nil
	}
	return browser.OpenTab(ctx, i.mgr, pageURL, id, i.mode == browser.ModeHeadless)
}

// Inspect arms an inspection session in the tab showing pageURL and waits
// for it to end. The outcome carries the copied text, or Cancelled after
// Escape. A capture failure is returned both in the outcome and as error.
func (i *Inspector) Inspect(ctx context.Context, pageURL string, opts Options) (inspect.Outcome, error) {
	if err := inspect.CanInstrument(pageURL); err != nil {
		return inspect.Outcome{}, err
	}
	release := i.mgr.Lease()
	defer release()

	tab, err := i.tab(ctx, pageURL)
	if err != nil {
		return inspect.Outcome{}, err
	}
	if i.mode == browser.ModeHeadless {
		defer tab.Close()
	}
	if err := tab.Activate(); err != nil {
		i.logger.Debug("inspector: activate tab", "error", err)
	}

	script := page.NewScript(tab.Page)
	if err := script.GrantClipboard(); err != nil {
		i.logger.Debug("inspector: clipboard permission", "error", err)
	}
	bridge := page.NewBridge(script, i.logger)
	defer bridge.Close()

	fallback := append([]clipboard.Writer{script.SyncClipboard()}, i.clip...)
	notifiers := append([]inspect.Notifier{
		page.NewToasts(script, i.cfg.NotifyDuration, i.logger),
		notify.NewLog(i.logger),
	}, i.notifiers...)

	sess := inspect.NewSession(inspect.Config{
		Host: inspect.Host{
			Context:   string(tab.Page.TargetID),
			Events:    bridge,
			Overlay:   page.NewOverlay(script),
			Resolver:  page.NewResolver(script, opts.Labels),
			Clipboard: clipboard.NewSink(script.AsyncClipboard(), clipboard.Chain(fallback...), i.logger),
			Notifier:  notify.NewRouter(notifiers...),
		},
		Registry:  i.reg,
		Formatter: opts.formatter(),
		Describe:  opts.describe(),
		Logger:    i.logger,
	})
	if err := sess.Arm(ctx); err != nil {
		return inspect.Outcome{}, err
	}

	if err := i.run(ctx, sess, bridge); err != nil {
		return sess.Outcome(), err
	}
	i.linger(ctx)
	out := sess.Outcome()
	return out, out.Err
}

// run feeds bridge events to the session until it terminates.
func (i *Inspector) run(ctx context.Context, sess *inspect.Session, bridge *page.Bridge) error {
	for {
		select {
		case <-sess.Done():
			return nil
		case ev := <-bridge.Events():
			sess.Handle(ctx, ev)
		case <-bridge.Gone():
			sess.Terminate(ctx)
			return ErrNavigated
		case <-ctx.Done():
			sess.Terminate(context.WithoutCancel(ctx))
			return ctx.Err()
		}
	}
}

// linger keeps the tab alive while the final toast is on screen.
func (i *Inspector) linger(ctx context.Context) {
	t := time.NewTimer(i.cfg.NotifyDuration + toastFade)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// DescribeURL describes the first element matching sel in the live page at
// pageURL, without user interaction.
func (i *Inspector) DescribeURL(ctx context.Context, pageURL, sel string, opts Options) (*Result, error) {
	if err := inspect.CanInstrument(pageURL); err != nil {
		return nil, err
	}
	release := i.mgr.Lease()
	defer release()

	tab, err := i.tab(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer tab.Close()

	resolver := page.NewResolver(page.NewScript(tab.Page), opts.Labels)
	ref, err := resolver.Locate(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("inspector: describe %s: %w", pageURL, err)
	}
	el, err := resolver.Resolve(ctx, inspect.Target{Ref: ref})
	if err != nil {
		return nil, fmt.Errorf("inspector: describe %s: %w", pageURL, err)
	}
	return newResult(describe.New(el, opts.describe()), opts), nil
}

// DescribeHTML describes the first element matching sel in an HTML
// document. No rendering host is involved: geometry reads as zero and
// presentation comes from inline style declarations.
func DescribeHTML(r io.Reader, sel string, opts Options) (*Result, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}
	el, err := doc.Query(sel)
	if err != nil {
		return nil, fmt.Errorf("inspector: describe html: %w", err)
	}
	return newResult(describe.New(el, opts.describe()), opts), nil
}
