package ui

import "testing"

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		name string
		in   int64 // seconds
		want string
	}{
		{"negative", -5, "0m"},
		{"subminute", 30, "0m"},
		{"minutes", 7 * 60, "7m"},
		{"hour_boundary", 60 * 60, "1h 00m"},
		{"hours_minutes", 2*60*60 + 5*60, "2h 05m"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := formatElapsed(tc.in)
			if got != tc.want {
				t.Fatalf("formatElapsed(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTodayLine(t *testing.T) {
	if got := todayLine(5400, 8); got != "today 1h 30m of 8h" {
		t.Fatalf("todayLine = %q, want %q", got, "today 1h 30m of 8h")
	}
	if got := todayLine(900, 0); got != "today 15m" {
		t.Fatalf("todayLine = %q, want %q", got, "today 15m")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  short  ", 10); got != "short" {
		t.Fatalf("truncate = %q, want trimmed passthrough", got)
	}
	if got := truncate("abcdefgh", 5); got != "abcd…" {
		t.Fatalf("truncate = %q, want abcd…", got)
	}
	if got := truncate("anything", 1); got != "…" {
		t.Fatalf("truncate limit 1 = %q, want …", got)
	}
	if got := truncate("абвгдеж", 5); got != "абвг…" {
		t.Fatalf("truncate = %q, want rune-aware cut", got)
	}
}
