package page

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/elinspect/clipboard"
)

type copyResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (s *Script) copyWith(ctx context.Context, method, text string) error {
	var res copyResult
	if err := s.call(ctx, method, text, &res); err != nil {
		return err
	}
	if !res.OK {
		if res.Error == "" {
			res.Error = "refused"
		}
		return fmt.Errorf("page: %s: %w", method, errors.New(res.Error))
	}
	return nil
}

// AsyncClipboard writes through navigator.clipboard.
func (s *Script) AsyncClipboard() clipboard.Writer {
	return clipboard.WriterFunc(func(ctx context.Context, text string) error {
		return s.copyWith(ctx, "copy", text)
	})
}

// SyncClipboard writes through a hidden textarea and execCommand("copy").
func (s *Script) SyncClipboard() clipboard.Writer {
	return clipboard.WriterFunc(func(ctx context.Context, text string) error {
		return s.copyWith(ctx, "fallbackCopy", text)
	})
}

// GrantClipboard grants clipboard write to the page's origin so the async
// path does not prompt.
func (s *Script) GrantClipboard() error {
	info, err := s.page.Info()
	if err != nil {
		return err
	}
	origin, err := originOf(info.URL)
	if err != nil {
		return err
	}
	return proto.BrowserGrantPermissions{
		Permissions: []proto.BrowserPermissionType{
			proto.BrowserPermissionTypeClipboardReadWrite,
			proto.BrowserPermissionTypeClipboardSanitizedWrite,
		},
		Origin: origin,
	}.Call(s.page.Browser())
}

func originOf(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("page: no origin in %q", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}
