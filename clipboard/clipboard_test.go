package clipboard

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func failing(calls *int) Writer {
	return WriterFunc(func(context.Context, string) error {
		*calls++
		return errors.New("denied")
	})
}

func recording(calls *int, got *string) Writer {
	return WriterFunc(func(_ context.Context, text string) error {
		*calls++
		*got = text
		return nil
	})
}

func TestSinkPrimary(t *testing.T) {
	var pc, fc int
	var got string
	s := NewSink(recording(&pc, &got), failing(&fc), nil)
	if !s.Copy(context.Background(), "hello") {
		t.Fatal("copy failed")
	}
	if pc != 1 || fc != 0 || got != "hello" {
		t.Errorf("primary=%d fallback=%d got=%q", pc, fc, got)
	}
}

func TestSinkFallback(t *testing.T) {
	var pc, fc int
	var got string
	s := NewSink(failing(&pc), recording(&fc, &got), nil)
	if !s.Copy(context.Background(), "hello") {
		t.Fatal("copy failed")
	}
	if pc != 1 || fc != 1 || got != "hello" {
		t.Errorf("primary=%d fallback=%d got=%q", pc, fc, got)
	}
}

func TestSinkBothFail(t *testing.T) {
	var pc, fc int
	s := NewSink(failing(&pc), failing(&fc), nil)
	if s.Copy(context.Background(), "x") {
		t.Fatal("copy reported success")
	}
	if pc != 1 || fc != 1 {
		t.Errorf("primary=%d fallback=%d", pc, fc)
	}
}

func TestSinkNoFallback(t *testing.T) {
	var pc int
	if NewSink(failing(&pc), nil, nil).Copy(context.Background(), "x") {
		t.Fatal("copy reported success")
	}
}

func TestStream(t *testing.T) {
	var buf bytes.Buffer
	if err := Stream(&buf).WriteText(context.Background(), `\DOM Path: a\`); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "\\DOM Path: a\\\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestChain(t *testing.T) {
	var a, b, c int
	var got string
	w := Chain(failing(&a), recording(&b, &got), recording(&c, &got))
	if err := w.WriteText(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if a != 1 || b != 1 || c != 0 || got != "x" {
		t.Errorf("calls a=%d b=%d c=%d got=%q", a, b, c, got)
	}

	err := Chain(failing(&a), failing(&a)).WriteText(context.Background(), "x")
	if err == nil || a != 3 {
		t.Fatalf("all failing: err=%v calls=%d", err, a)
	}
	if !errors.Is(Chain().WriteText(context.Background(), "x"), ErrUnavailable) {
		t.Error("empty chain should be unavailable")
	}
}
