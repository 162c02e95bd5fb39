package crawler

import "testing"

func TestPatternBlocklist(t *testing.T) {
	t.Run("substring match", func(t *testing.T) {
		bl := newPatternBlocklist([]string{"/login", ".pdf"})
		cases := []struct {
			url     string
			blocked bool
		}{
			{"https://x.com/login", true},
			{"https://x.com/login?next=/home", true},
			{"https://x.com/files/report.pdf", true},
			{"https://x.com/page", false},
		}
		for _, tc := range cases {
			if got := bl.Matches(tc.url); got != tc.blocked {
				t.Fatalf("url %q blocked=%v, want %v", tc.url, got, tc.blocked)
			}
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		bl := newPatternBlocklist([]string{"/checkout"})
		if !bl.Matches("https://x.com/CheckOut/step-1") {
			t.Fatalf("expected case-insensitive match")
		}
	})

	t.Run("empty patterns skipped", func(t *testing.T) {
		bl := newPatternBlocklist([]string{"", "  ", "/cart"})
		if len(bl.patterns) != 1 {
			t.Fatalf("expected 1 pattern, got %d", len(bl.patterns))
		}
	})

	t.Run("nil blocklist", func(t *testing.T) {
		var bl *patternBlocklist
		if bl.Matches("anything") {
			t.Fatalf("nil blocklist should never match")
		}
	})
}
