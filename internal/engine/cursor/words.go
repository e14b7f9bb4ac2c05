package cursor

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// segment is a run of a line between two Unicode word boundaries, in
// character columns.
type segment struct {
	start, end int
	word       bool
}

// segments splits line at Unicode word boundaries (UAX #29).
func segments(line string) []segment {
	var segs []segment
	col := 0
	state := -1
	rest := line
	for rest != "" {
		var w string
		w, rest, state = uniseg.FirstWordInString(rest, state)
		n := runeLen(w)
		r, _ := utf8.DecodeRuneInString(w)
		segs = append(segs, segment{start: col, end: col + n, word: isWordRune(r)})
		col += n
	}
	return segs
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsWord reports whether s starts with a word character.
func IsWord(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return s != "" && isWordRune(r)
}

// Words returns the words of text in order, repeats included.
func Words(text string) []string {
	var words []string
	state := -1
	for text != "" {
		var w string
		w, text, state = uniseg.FirstWordInString(text, state)
		if IsWord(w) {
			words = append(words, w)
		}
	}
	return words
}

// WordAt returns the word containing offset. When offset sits just after
// a word, that word is returned. Whitespace and punctuation runs select
// themselves; an empty line yields an empty range at offset.
func WordAt(t Text, offset Offset) Range {
	offset = clampOffset(offset, t.Len())
	p := t.OffsetToPoint(offset)
	lineStart := t.LineToOffset(p.Line)
	segs := segments(t.LineText(p.Line))
	col := int(p.Column)

	pick := -1
	for i, seg := range segs {
		if col >= seg.start && col < seg.end {
			pick = i
			break
		}
	}
	// Prefer the word that ends at the cursor over trailing space.
	if pick > 0 && !segs[pick].word && segs[pick-1].word && segs[pick-1].end == col {
		pick--
	}
	if pick < 0 && len(segs) > 0 && segs[len(segs)-1].end == col {
		pick = len(segs) - 1
	}
	if pick < 0 {
		return Range{Start: offset, End: offset}
	}
	return Range{
		Start: lineStart + Offset(segs[pick].start),
		End:   lineStart + Offset(segs[pick].end),
	}
}

// WordText returns the word under offset, or "" when offset is not on
// a word.
func WordText(t Text, offset Offset) string {
	r := WordAt(t, offset)
	if r.IsEmpty() {
		return ""
	}
	p := t.OffsetToPoint(r.Start)
	line := t.LineText(p.Line)
	word := prefixRunes(skipRunes(line, int(p.Column)), int(r.Len()))
	if !IsWord(word) {
		return ""
	}
	return word
}

// LineAt returns the full line holding offset, including its trailing
// newline when there is one.
func LineAt(t Text, offset Offset) Range {
	p := t.OffsetToPoint(clampOffset(offset, t.Len()))
	start := t.LineToOffset(p.Line)
	if p.Line+1 < t.LineCount() {
		return Range{Start: start, End: t.LineToOffset(p.Line + 1)}
	}
	return Range{Start: start, End: t.Len()}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
