package normalize

import (
	"strings"
	"testing"

	"golang.org/x/text/transform"
)

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"clean", "hello 世界\n", "hello 世界\n"},
		{"crlf and tab", "line1\r\n\tline2", "line1\n    line2"},
		{"lone cr", "a\rb\r", "a\nb\n"},
		{"cr cr lf", "a\r\r\nb", "a\n\nb"},
		{"zero width space", "a\u200Bb", "ab"},
		{"bidi controls", "\u202Eevil\u202C", "evil"},
		{"byte order mark", "\uFEFFtext", "text"},
		{"soft hyphen", "co\u00ADop", "coop"},
		{"variation selector", "❤\uFE0F", "❤"},
		{"supplementary selector", "x\U000E0100y", "xy"},
		{"keeps replacement char", "a\uFFFDb", "a\uFFFDb"},
		{"invalid byte", "a\xffb", "a\uFFFDb"},
		{"truncated sequence", "a\xe4\xb8", "a\uFFFD"},
		{"mixed", "\t\u200D\r\n", "    \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.input); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBytesReport(t *testing.T) {
	tests := []struct {
		input    string
		want     string
		replaced int
	}{
		{"plain", "plain", 0},
		{"a\xffb\xfe", "a\uFFFDb\uFFFD", 2},
		{"\uFFFD\xff", "\uFFFD\uFFFD", 1},
		{"ok\r\n", "ok\n", 0},
	}
	for _, tt := range tests {
		got, report := Bytes([]byte(tt.input))
		if got != tt.want {
			t.Errorf("Bytes(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if report.Replaced != tt.replaced {
			t.Errorf("Bytes(%q) Replaced = %d, want %d", tt.input, report.Replaced, tt.replaced)
		}
	}
}

func TestIdempotent(t *testing.T) {
	inputs := []string{
		"line1\r\n\tline2",
		"\r\u200B\n",
		"\t\t\r\r",
		"a\xff\xfe\u202Ab",
		strings.Repeat("x\r\n\ty\u00AD", 500),
	}
	for _, in := range inputs {
		once := String(in)
		if twice := String(once); twice != once {
			t.Errorf("String(String(%q)) = %q, want %q", in, twice, once)
		}
		if !IsNormalized(once) {
			t.Errorf("IsNormalized(%q) = false after normalization", once)
		}
	}
}

func TestCRLFAcrossChunkBoundary(t *testing.T) {
	// Force the CR and LF into different Transform calls.
	input := strings.Repeat("a", 4095) + "\r\n" + "b"
	r := transform.NewReader(strings.NewReader(input), Transformer())
	var sb strings.Builder
	buf := make([]byte, 7)
	for {
		n, err := r.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	want := strings.Repeat("a", 4095) + "\nb"
	if sb.String() != want {
		t.Errorf("streamed output has %d bytes, want %d", sb.Len(), len(want))
	}
}

func TestDenied(t *testing.T) {
	for _, r := range []rune{0x00AD, 0x200B, 0x2066, 0xFEFF, 0xFFFA, 0xE01EF} {
		if !Denied(r) {
			t.Errorf("Denied(%U) = false, want true", r)
		}
	}
	for _, r := range []rune{'a', ' ', '\n', 0x2065, 0xFFFD, 0xE01F0, '世'} {
		if Denied(r) {
			t.Errorf("Denied(%U) = true, want false", r)
		}
	}
}
