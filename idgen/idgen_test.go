package idgen

import (
	"strings"
	"testing"
)

func TestUUIDv7_Format(t *testing.T) {
	id := UUIDv7()()
	if len(id) != 36 {
		t.Fatalf("UUIDv7: got length %d, want 36", len(id))
	}
	if id[14] != '7' {
		t.Fatalf("UUIDv7: version nibble = %c, want 7 in %q", id[14], id)
	}
}

func TestUUIDv7_Sortable(t *testing.T) {
	gen := UUIDv7()
	prev := gen()
	for i := 0; i < 100; i++ {
		next := gen()
		if next <= prev {
			t.Fatalf("UUIDv7 not monotonic: %q then %q", prev, next)
		}
		prev = next
	}
}

func TestSession(t *testing.T) {
	id := Session()
	if !strings.HasPrefix(id, "ins_") {
		t.Fatalf("Session: got %q, want ins_ prefix", id)
	}
	if _, err := Parse(id); err != nil {
		t.Fatalf("Parse(%q): %v", id, err)
	}
}

func TestSequence(t *testing.T) {
	gen := Sequence("s")
	for _, want := range []string{"s1", "s2", "s3"} {
		if got := gen(); got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "nope", "ins_1234"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected error", s)
		}
	}
}

func TestParse_Normalises(t *testing.T) {
	got, err := Parse("ins_0190A6E4-0000-7000-8000-000000000000")
	if err != nil {
		t.Fatal(err)
	}
	if want := "ins_0190a6e4-0000-7000-8000-000000000000"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
