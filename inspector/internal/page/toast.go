package page

import (
	"context"
	"log/slog"
	"time"

	"github.com/hazyhaar/elinspect/inspect"
)

// Toasts implements inspect.Notifier with in-page toasts that fade out
// after a fixed duration.
type Toasts struct {
	script   *Script
	duration time.Duration
	logger   *slog.Logger
}

// NewToasts creates a Toasts notifier.
func NewToasts(s *Script, d time.Duration, logger *slog.Logger) *Toasts {
	if d <= 0 {
		d = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Toasts{script: s, duration: d, logger: logger}
}

type toast struct {
	Msg  string `json:"msg"`
	Type string `json:"type"`
	MS   int64  `json:"ms"`
}

// Notify implements inspect.Notifier.
func (t *Toasts) Notify(ctx context.Context, msg string, sev inspect.Severity) {
	err := t.script.call(ctx, "toast", toast{Msg: msg, Type: sev.String(), MS: t.duration.Milliseconds()}, nil)
	if err != nil {
		t.logger.Debug("page: toast failed", "error", err)
	}
}
