// Package util provides shared utility functions.
package util

import "strings"

// MaxMessageLength is the maximum accepted message content length in
// characters. Longer content is cut off before storage.
const MaxMessageLength = 10000

// TitleLength is the number of characters of the first user message used as
// a conversation title before the ellipsis is appended.
const TitleLength = 50

// SanitizeMessage trims surrounding whitespace and caps the content at
// MaxMessageLength characters.
func SanitizeMessage(content string) string {
	content = strings.TrimSpace(content)
	if r := []rune(content); len(r) > MaxMessageLength {
		content = string(r[:MaxMessageLength])
	}
	return content
}

// Truncate truncates s to maxLen characters, appending "..." if it was cut.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
