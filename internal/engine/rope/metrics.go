package rope

import "unicode/utf8"

// ByteOffset represents an absolute byte position in the rope.
type ByteOffset uint64

// CharOffset represents an absolute position counted in Unicode scalar values.
type CharOffset uint64

// TextSummary holds aggregated metrics for a text span.
// Summaries form a monoid under Add, which lets internal nodes answer
// offset and line queries without visiting their leaves.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes ByteOffset

	// Chars is the number of Unicode scalar values.
	Chars CharOffset

	// Lines is the number of newline characters.
	Lines uint32

	// Flags indicate text properties for fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates all characters are ASCII (< 128).
	FlagASCII TextFlags = 1 << iota

	// FlagHasNewlines indicates the text contains newline characters.
	FlagHasNewlines
)

// Add combines two summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	result := TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
		Flags: s.Flags & other.Flags & FlagASCII,
	}
	if (s.Flags|other.Flags)&FlagHasNewlines != 0 {
		result.Flags |= FlagHasNewlines
	}
	return result
}

// IsZero returns true if this is the identity summary.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	sum := TextSummary{Bytes: ByteOffset(len(s)), Flags: FlagASCII}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf {
			sum.Flags &^= FlagASCII
		}
		if c == '\n' {
			sum.Lines++
		}
	}
	if sum.Lines > 0 {
		sum.Flags |= FlagHasNewlines
	}
	if sum.Flags&FlagASCII != 0 {
		sum.Chars = CharOffset(len(s))
	} else {
		sum.Chars = CharOffset(utf8.RuneCountInString(s))
	}
	return sum
}

// charToByteIn returns the byte index of the n-th rune in s.
// If n is past the end, len(s) is returned.
func charToByteIn(s string, ascii bool, n CharOffset) int {
	if ascii {
		if int(n) > len(s) {
			return len(s)
		}
		return int(n)
	}
	var count CharOffset
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}

// byteToCharIn counts the runes that start before byte index b in s.
func byteToCharIn(s string, ascii bool, b int) CharOffset {
	if b > len(s) {
		b = len(s)
	}
	if ascii {
		return CharOffset(b)
	}
	return CharOffset(utf8.RuneCountInString(s[:b]))
}

// findNthNewline finds the byte position of the nth newline (1-indexed).
// Returns -1 if not found.
func findNthNewline(s string, n uint32) int {
	if n == 0 {
		return -1
	}
	var count uint32
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			count++
			if count == n {
				return i
			}
		}
	}
	return -1
}

// countNewlines returns the number of newlines in s.
func countNewlines(s string) uint32 {
	var count uint32
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			count++
		}
	}
	return count
}
