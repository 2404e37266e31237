package util

import (
	"strings"
	"testing"
)

func TestSanitizeMessage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"trims newlines and tabs", "\n\thello\n", "hello"},
		{"empty stays empty", "", ""},
		{"whitespace only collapses to empty", "   \n\t  ", ""},
		{"short content unchanged", "hello world", "hello world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeMessage(tt.input); got != tt.want {
				t.Errorf("SanitizeMessage(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeMessage_CapsLength(t *testing.T) {
	got := SanitizeMessage(strings.Repeat("x", MaxMessageLength+500))
	if len([]rune(got)) != MaxMessageLength {
		t.Errorf("length = %d, want %d", len([]rune(got)), MaxMessageLength)
	}

	// The cap counts characters, not bytes.
	got = SanitizeMessage(strings.Repeat("é", MaxMessageLength+1))
	if len([]rune(got)) != MaxMessageLength {
		t.Errorf("multibyte length = %d, want %d", len([]rune(got)), MaxMessageLength)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than limit", "hi", 50, "hi"},
		{"exactly at limit", strings.Repeat("a", 50), 50, strings.Repeat("a", 50)},
		{"over limit gets ellipsis", strings.Repeat("a", 60), 50, strings.Repeat("a", 50) + "..."},
		{"empty", "", 50, ""},
		{"multibyte counted as characters", strings.Repeat("é", 60), 50, strings.Repeat("é", 50) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
