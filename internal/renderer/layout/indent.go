package layout

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// listIndent is the continuation width of numbered and lettered list
// markers, so "1. " and "10. " items align.
const listIndent = 4

// ContinuationIndent returns the number of cells wrapped rows of line are
// indented by: the leading whitespace plus the width of a list marker.
func ContinuationIndent(line string) int {
	width, n := 0, 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		if r == '\t' {
			width += 4
		} else {
			width++
		}
		n++
	}
	return width + bulletWidth(line[n:])
}

// bulletWidth returns the width of the list marker at the start of s,
// including its trailing space, or 0.
func bulletWidth(s string) int {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return 0
	}
	rest := s[size:]
	spaced := len(rest) > 0 && rest[0] == ' '

	switch first {
	case '-', '*', '+', '•', '‣', '⁃', '◦':
		if spaced {
			return 2
		}
		return 0
	case '□', '▢', '☐', '■', '▪', '☑', '☒', '◪':
		if spaced {
			return runewidth.RuneWidth(first) + 1
		}
		return 0
	}

	if first >= '0' && first <= '9' {
		digits := 1
		for digits < len(s) && digits < 3 && s[digits] >= '0' && s[digits] <= '9' {
			digits++
		}
		if isListMark(s[digits:]) {
			return listIndent
		}
		return 0
	}
	if first >= 'a' && first <= 'z' && isListMark(rest) {
		return listIndent
	}
	return 0
}

// isListMark reports whether s starts with ". " or ") ".
func isListMark(s string) bool {
	return len(s) >= 2 && (s[0] == '.' || s[0] == ')') && s[1] == ' '
}
