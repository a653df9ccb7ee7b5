// Package notify fans inspector notifications out to several backends:
// in-page toasts, the structured log, JSON lines on a stream.
package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/elinspect/inspect"
)

// Router delivers every notification to all notifiers in order.
type Router struct {
	targets []inspect.Notifier
}

// NewRouter creates a Router. Nil notifiers are skipped.
func NewRouter(targets ...inspect.Notifier) *Router {
	r := &Router{}
	for _, t := range targets {
		if t != nil {
			r.targets = append(r.targets, t)
		}
	}
	return r
}

// Notify implements inspect.Notifier.
func (r *Router) Notify(ctx context.Context, msg string, sev inspect.Severity) {
	for _, t := range r.targets {
		t.Notify(ctx, msg, sev)
	}
}

// Log writes notifications to a slog logger; errors at Warn, the rest at Info.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log notifier.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Notify implements inspect.Notifier.
func (l *Log) Notify(ctx context.Context, msg string, sev inspect.Severity) {
	level := slog.LevelInfo
	if sev == inspect.Error {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, "notify: "+msg, "severity", sev.String())
}

// Lines writes each notification as one JSON object per line.
type Lines struct {
	mu  sync.Mutex
	enc *json.Encoder
	now func() time.Time
}

// NewLines creates a Lines notifier over w.
func NewLines(w io.Writer) *Lines {
	return &Lines{enc: json.NewEncoder(w), now: time.Now}
}

type line struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	At       int64  `json:"at"`
}

// Notify implements inspect.Notifier. Write errors are dropped.
func (l *Lines) Notify(_ context.Context, msg string, sev inspect.Severity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(line{Type: "notification", Severity: sev.String(), Message: msg, At: l.now().UnixMilli()})
}
