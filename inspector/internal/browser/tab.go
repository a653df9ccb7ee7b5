package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const navigateTimeout = 30 * time.Second

// Tab is a page the inspector drives. Owned tabs were opened by the
// inspector and are closed with it; adopted tabs belong to the user.
type Tab struct {
	Page  *rod.Page
	URL   string
	ID    string
	owned bool
}

// Owned reports whether Close will close the underlying page.
func (t *Tab) Owned() bool { return t.owned }

// Adopt wraps an already open page without taking ownership.
func Adopt(page *rod.Page, pageURL, id string) *Tab {
	return &Tab{Page: page, URL: pageURL, ID: id}
}

// OpenTab creates a tab, navigates to pageURL and waits for load. Stealthy
// tabs get the stealth evasions injected before navigation.
func OpenTab(ctx context.Context, mgr *Manager, pageURL, id string, stealthy bool) (*Tab, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	var (
		page *rod.Page
		err  error
	)
	if stealthy {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if len(mgr.cfg.ResourceBlocking) > 0 {
		if err := applyResourceBlocking(page, mgr.cfg.ResourceBlocking); err != nil {
			mgr.cfg.Logger.Warn("browser: resource blocking failed", "error", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, navigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		mgr.cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}

	return &Tab{Page: page, URL: pageURL, ID: id, owned: true}, nil
}

// Activate brings the tab to the front so the user can point at it.
func (t *Tab) Activate() error {
	_, err := t.Page.Activate()
	return err
}

// HTML serialises the current document.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	res, err := t.Page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: get html: %w", err)
	}
	return res.Value.Str(), nil
}

// Close closes an owned tab. Adopted tabs are left open.
func (t *Tab) Close() error {
	if t.Page == nil || !t.owned {
		return nil
	}
	return t.Page.Close()
}
