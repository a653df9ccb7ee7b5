// Package clipboard delivers finished descriptions to a clipboard. A Sink
// tries a primary writer and, if it fails, a synchronous fallback, and
// reports a single success flag.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	sysclip "github.com/atotto/clipboard"
)

// ErrUnavailable is returned by System when no clipboard utility exists
// on this machine (no xclip, xsel or wl-copy on Linux).
var ErrUnavailable = errors.New("clipboard: system clipboard unavailable")

// Writer puts text on a clipboard.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, text string) error

// WriteText implements Writer.
func (f WriterFunc) WriteText(ctx context.Context, text string) error { return f(ctx, text) }

// System writes to the operating system clipboard.
var System Writer = WriterFunc(func(_ context.Context, text string) error {
	if sysclip.Unsupported {
		return ErrUnavailable
	}
	if err := sysclip.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: system: %w", err)
	}
	return nil
})

// Stream returns a Writer that prints the text to w followed by a newline.
// It serves as the last-resort path for terminals without a clipboard.
func Stream(w io.Writer) Writer {
	return WriterFunc(func(_ context.Context, text string) error {
		_, err := io.WriteString(w, text+"\n")
		return err
	})
}

// Sink is a primary writer with a fallback.
type Sink struct {
	primary  Writer
	fallback Writer
	logger   *slog.Logger
}

// NewSink creates a Sink. fallback may be nil.
func NewSink(primary, fallback Writer, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{primary: primary, fallback: fallback, logger: logger}
}

// Copy writes text through the primary writer, falling back on error. It
// reports whether either path succeeded.
func (s *Sink) Copy(ctx context.Context, text string) bool {
	err := s.primary.WriteText(ctx, text)
	if err == nil {
		return true
	}
	s.logger.Debug("clipboard: primary write failed", "error", err)
	if s.fallback == nil {
		s.logger.Warn("clipboard: copy failed", "error", err)
		return false
	}
	if ferr := s.fallback.WriteText(ctx, text); ferr != nil {
		s.logger.Warn("clipboard: copy failed", "error", err, "fallback_error", ferr)
		return false
	}
	return true
}

// Chain returns a Writer that tries each writer in order and stops at the
// first success. It fails with the joined errors when none succeeds.
func Chain(writers ...Writer) Writer {
	return WriterFunc(func(ctx context.Context, text string) error {
		var errs []error
		for _, w := range writers {
			err := w.WriteText(ctx, text)
			if err == nil {
				return nil
			}
			errs = append(errs, err)
		}
		if len(errs) == 0 {
			return ErrUnavailable
		}
		return errors.Join(errs...)
	})
}
