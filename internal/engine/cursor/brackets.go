package cursor

// bracketScanLines bounds how far a bracket search walks from the cursor.
const bracketScanLines = 5000

var bracketPairs = map[rune]rune{
	'(': ')', '[': ']', '{': '}',
	')': '(', ']': '[', '}': '{',
}

func isOpenBracket(r rune) bool {
	return r == '(' || r == '[' || r == '{'
}

// MatchBracket finds the bracket pair adjacent to offset: the bracket
// under the cursor, or failing that the one just before it. Nesting of
// the same bracket type is respected. The returned offsets point at the
// opening and closing characters.
func MatchBracket(t Text, offset Offset) (openAt, closeAt Offset, ok bool) {
	for _, at := range []Offset{offset, offset - 1} {
		if at < 0 {
			continue
		}
		r, exists := t.RuneAt(at)
		if !exists {
			continue
		}
		partner, isBracket := bracketPairs[r]
		if !isBracket {
			continue
		}
		if isOpenBracket(r) {
			if m, found := scanForward(t, at, r, partner); found {
				return at, m, true
			}
		} else if m, found := scanBackward(t, at, r, partner); found {
			return m, at, true
		}
	}
	return 0, 0, false
}

// scanForward looks for the close bracket matching the open bracket at from.
func scanForward(t Text, from Offset, opener, closer rune) (Offset, bool) {
	p := t.OffsetToPoint(from)
	depth := 0
	for line, scanned := p.Line, 0; line < t.LineCount() && scanned < bracketScanLines; line, scanned = line+1, scanned+1 {
		start := t.LineToOffset(line)
		col := 0
		for _, r := range t.LineText(line) {
			at := start + Offset(col)
			col++
			if at < from {
				continue
			}
			switch r {
			case opener:
				depth++
			case closer:
				depth--
				if depth == 0 {
					return at, true
				}
			}
		}
	}
	return 0, false
}

// scanBackward looks for the open bracket matching the close bracket at from.
func scanBackward(t Text, from Offset, closer, opener rune) (Offset, bool) {
	p := t.OffsetToPoint(from)
	depth := 0
	for line, scanned := int64(p.Line), 0; line >= 0 && scanned < bracketScanLines; line, scanned = line-1, scanned+1 {
		start := t.LineToOffset(uint32(line))
		runes := []rune(t.LineText(uint32(line)))
		for col := len(runes) - 1; col >= 0; col-- {
			at := start + Offset(col)
			if at > from {
				continue
			}
			switch runes[col] {
			case closer:
				depth++
			case opener:
				depth--
				if depth == 0 {
					return at, true
				}
			}
		}
	}
	return 0, false
}
