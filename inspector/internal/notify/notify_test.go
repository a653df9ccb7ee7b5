package notify

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/elinspect/inspect"
)

type recorder struct {
	tag string
	got *[]string
}

func (r recorder) Notify(_ context.Context, msg string, sev inspect.Severity) {
	*r.got = append(*r.got, r.tag+":"+sev.String()+":"+msg)
}

func TestRouterFanOut(t *testing.T) {
	var got []string
	rec := func(tag string) inspect.Notifier { return recorder{tag: tag, got: &got} }
	r := NewRouter(rec("a"), nil, rec("b"))
	r.Notify(context.Background(), "hi", inspect.Success)

	want := []string{"a:success:hi", "b:success:hi"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(slog.New(slog.NewTextHandler(&buf, nil)))
	l.Notify(context.Background(), "✗ Failed to copy", inspect.Error)
	l.Notify(context.Background(), "Inspection cancelled", inspect.Info)

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "severity=error") {
		t.Errorf("error line: %s", out)
	}
	if !strings.Contains(out, "level=INFO") || !strings.Contains(out, "Inspection cancelled") {
		t.Errorf("info line: %s", out)
	}
}

func TestLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewLines(&buf)
	l.now = func() time.Time { return time.UnixMilli(1700000000000) }
	l.Notify(context.Background(), "✓ Copied to clipboard!", inspect.Success)

	want := `{"type":"notification","severity":"success","message":"✓ Copied to clipboard!","at":1700000000000}` + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
