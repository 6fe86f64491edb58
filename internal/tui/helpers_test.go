package tui

import (
	"testing"
	"time"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
		want string
	}{
		{"append letter", "vas", "e", "vase"},
		{"backspace", "vase", "backspace", "vas"},
		{"backspace empty", "", "backspace", ""},
		{"ignore multi-rune key", "vase", "ctrl+s", "vase"},
		{"unicode rune", "caf", "é", "café"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := editRune(tt.text, tt.key); got != tt.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tt.text, tt.key, got, tt.want)
			}
		})
	}
}

func TestTimeLeft(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		endsAt time.Time
		want   string
	}{
		{"ended", now.Add(-time.Minute), "ended"},
		{"minutes", now.Add(45 * time.Minute), "45m left"},
		{"hours", now.Add(5 * time.Hour), "5h left"},
		{"days", now.Add(73 * time.Hour), "3d left"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := timeLeft(tt.endsAt, now); got != tt.want {
				t.Errorf("timeLeft() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("short", 10); got != "short" {
		t.Errorf("truncStr() = %q, want unchanged", got)
	}
	got := truncStr("a very long listing title", 10)
	if len([]rune(got)) != 10 {
		t.Errorf("truncStr() length = %d, want 10", len([]rune(got)))
	}
}
