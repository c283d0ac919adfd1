package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeText collapses every run of whitespace (spaces, tabs, newlines)
// into a single space and trims the result. Empty input yields an empty string.
func NormalizeText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// ContainsWord reports whether word occurs in text bounded on both sides by a
// non-word character or the string edge. Word characters are letters, digits
// and underscore, so "java" is not found inside "javascript" while "c++" is
// found in "c++ developer". Matching is literal and case-sensitive.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; start+len(word) <= len(text); {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return false
		}
		idx += start
		if boundaryBefore(text, idx) && boundaryAfter(text, idx+len(word)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[idx:])
		start = idx + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
