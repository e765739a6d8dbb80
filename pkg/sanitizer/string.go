package sanitizer

import (
	"regexp"
	"strings"
)

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// Trim removes leading and trailing whitespace from a string.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// ToLower converts a string to lowercase.
func ToLower(s string) string {
	return strings.ToLower(s)
}

// StripTags removes anything that looks like an HTML/XML tag, including
// unterminated fragments at the end of the string.
func StripTags(s string) string {
	s = tagRegex.ReplaceAllString(s, "")
	// Drop a trailing unclosed tag fragment such as "<scr".
	if idx := strings.LastIndexByte(s, '<'); idx != -1 && !strings.ContainsRune(s[idx:], '>') {
		s = s[:idx]
	}
	return s
}

// StripSpecialChars removes the characters that carry meaning in HTML
// contexts: < > ' " &. Values cleaned with it can be interpolated into
// HTML without further escaping.
func StripSpecialChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '\'', '"', '&':
			return -1
		}
		return r
	}, s)
}

// CleanText applies the full cleaning chain used for free-text form fields:
// tag stripping, special-character removal, and whitespace trimming.
func CleanText(s string) string {
	return Trim(StripSpecialChars(StripTags(s)))
}

// Apply runs the given transformations over a value in order.
func Apply(s string, fns ...func(string) string) string {
	for _, fn := range fns {
		s = fn(s)
	}
	return s
}
