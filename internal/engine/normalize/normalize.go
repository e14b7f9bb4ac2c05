package normalize

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Report describes what normalization had to repair.
type Report struct {
	// Replaced counts invalid UTF-8 sequences turned into U+FFFD.
	Replaced int
}

// Transformer returns a fresh normalization chain. The result is stateful
// and must not be shared between goroutines.
func Transformer() transform.Transformer {
	return transform.Chain(
		unicode.UTF8.NewDecoder(),
		lineEndings{},
		tabs{},
		runes.Remove(runes.In(denyList)),
	)
}

// String normalizes s.
func String(s string) string {
	if isClean(s) {
		return s
	}
	out, _, err := transform.String(Transformer(), s)
	if err != nil {
		// The chain only reports short buffers, which transform.String
		// handles itself.
		return strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return out
}

// Bytes normalizes raw input, such as file content, and reports how many
// invalid sequences were replaced.
func Bytes(b []byte) (string, Report) {
	if isClean(string(b)) {
		return string(b), Report{}
	}
	out, _, err := transform.Bytes(Transformer(), b)
	if err != nil {
		out = bytes.ToValidUTF8(b, []byte(string(utf8.RuneError)))
	}
	replaced := bytes.Count(out, replacementChar) - validReplacementChars(b)
	return string(out), Report{Replaced: max(replaced, 0)}
}

// IsNormalized reports whether s would pass through unchanged.
func IsNormalized(s string) bool {
	return isClean(s)
}

var replacementChar = []byte(string(utf8.RuneError))

// validReplacementChars counts U+FFFD already present, as opposed to
// produced by decoding.
func validReplacementChars(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == len(replacementChar) {
			n++
		}
		b = b[size:]
	}
	return n
}

// isClean is the fast path for text that needs no work.
func isClean(s string) bool {
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c == '\r' || c == '\t' {
				return false
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return false
		}
		if Denied(r) {
			return false
		}
		i += size
	}
	return true
}
