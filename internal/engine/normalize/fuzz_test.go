package normalize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func FuzzIdempotent(f *testing.F) {
	f.Add("line1\r\n\tline2")
	f.Add("\r\u200B\n")
	f.Add("a\xffb")
	f.Add("\uFEFF\u202E\t")

	f.Fuzz(func(t *testing.T, s string) {
		once := String(s)
		if !utf8.ValidString(once) {
			t.Fatalf("String(%q) produced invalid UTF-8", s)
		}
		if strings.ContainsAny(once, "\r\t") {
			t.Fatalf("String(%q) = %q still holds CR or tab", s, once)
		}
		if twice := String(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}
