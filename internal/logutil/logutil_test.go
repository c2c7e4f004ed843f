package logutil

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func testTruncateForLog_SingleLineAndBounded(t *rapid.T) {
	value := rapid.StringMatching(`[a-z \n]{0,200}`).Draw(t, "value")
	maxChars := rapid.IntRange(1, 100).Draw(t, "max")

	got := TruncateForLog(value, maxChars)
	if strings.Contains(got, "\n") {
		t.Fatalf("output contains newline: %q", got)
	}
	limit := maxChars + len("... [truncated]")
	if len(got) > limit {
		t.Fatalf("output too long: len=%d limit=%d", len(got), limit)
	}
}

func TestTruncateForLog_SingleLineAndBounded(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testTruncateForLog_SingleLineAndBounded)
}

func TestTruncateForLog_Cases(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value string
		max   int
		want  string
	}{
		{"empty", "   ", 10, ""},
		{"short", "  ok  ", 10, "ok"},
		{"newline", "a\nb", 10, `a\nb`},
		{"crlf", "a\r\nb", 10, `a\nb`},
		{"truncated", "abcdefgh", 3, "abc... [truncated]"},
		{"no limit", "abcdefgh", 0, "abcdefgh"},
	}
	for _, tt := range tests {
		if got := TruncateForLog(tt.value, tt.max); got != tt.want {
			t.Errorf("%s: TruncateForLog(%q, %d) = %q, want %q", tt.name, tt.value, tt.max, got, tt.want)
		}
	}
}

func TestConsoleAndPageErrorLines(t *testing.T) {
	t.Parallel()
	if got := ConsoleLine("ready\n"); got != "CONSOLE: ready" {
		t.Fatalf("ConsoleLine = %q", got)
	}
	if got := PageErrorLine("TypeError: x is undefined"); got != "PAGE ERROR: TypeError: x is undefined" {
		t.Fatalf("PageErrorLine = %q", got)
	}
}
