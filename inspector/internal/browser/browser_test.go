package browser

import (
	"testing"
	"time"
)

func TestShouldBlock(t *testing.T) {
	set := blockSetOf([]string{"Images", " fonts ", "xhr"})
	tests := []struct {
		resType string
		want    bool
	}{
		{"Image", true},
		{"Font", true},
		{"Stylesheet", false},
		{"Media", false},
		{"XHR", true},
		{"Document", false},
	}
	for _, tt := range tests {
		if got := shouldBlock(set, tt.resType); got != tt.want {
			t.Errorf("shouldBlock(%q) = %v, want %v", tt.resType, got, tt.want)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://example.com/", "https://example.com"},
		{"https://example.com/a#frag", "https://example.com/a"},
		{"https://example.com/a/?q=1", "https://example.com/a/?q=1"},
	}
	for _, tt := range tests {
		if got := normalizeURL(tt.in); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRecycleDue(t *testing.T) {
	m := NewManager(Config{MemoryLimit: 100, RecycleInterval: time.Hour})
	tests := []struct {
		name   string
		uptime time.Duration
		heap   int64
		leases int
		want   string
	}{
		{"fresh", time.Minute, 10, 0, ""},
		{"old", 2 * time.Hour, 10, 0, "interval"},
		{"heavy", time.Minute, 200, 0, "memory"},
		{"leased", 2 * time.Hour, 200, 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.recycleDue(tt.uptime, tt.heap, tt.leases); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLeaseReleaseOnce(t *testing.T) {
	m := NewManager(Config{})
	release := m.Lease()
	m.Lease()
	release()
	release()
	if m.leases != 1 {
		t.Fatalf("leases = %d, want 1", m.leases)
	}
}

func TestDefaults(t *testing.T) {
	m := NewManager(Config{})
	if m.cfg.MemoryLimit != 1<<30 || m.cfg.RecycleInterval != 4*time.Hour || m.cfg.XvfbDisplay != ":99" {
		t.Fatalf("defaults: %+v", m.cfg)
	}
	if m.Browser() != nil {
		t.Fatal("browser before start")
	}
	if _, ok := m.FindTab("https://example.com"); ok {
		t.Fatal("FindTab before start")
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Recycle(); err != ErrClosed {
		t.Fatalf("Recycle after close: %v", err)
	}
}
