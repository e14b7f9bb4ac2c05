// Package syntax tokenizes documents for highlighting.
//
// Tokenization runs off the event loop. Results carry the document
// revision they were computed for; callers drop results whose revision is
// no longer current.
package syntax

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/tracking"
)

// DefaultMaxBytes is the largest document that is tokenized.
const DefaultMaxBytes = 4 << 20

// checkEvery is how many tokens are emitted between cancellation checks.
const checkEvery = 512

// resyncLines is how many unchanged lines past the last edit must be seen
// before the remaining earlier spans are reused.
const resyncLines = 2

// Span is a highlighted byte range [Start, End) of the document.
type Span struct {
	Start int64
	End   int64
	Kind  chroma.TokenType
}

// Result is the outcome of one tokenization request.
type Result struct {
	ID       uuid.UUID
	Revision buffer.Revision
	Spans    []Span
	Err      error
}

// Request describes one tokenization. With Base and Edited set only the
// lines from the first edit onward are lexed, and lexing stops once the new
// spans agree with Base again.
type Request struct {
	Snapshot buffer.Snapshot

	// Base holds spans from an earlier tokenization, already carried to
	// Snapshot with ShiftSpans.
	Base []Span

	// Edited lists the byte ranges of Snapshot written since Base was
	// computed. Empty means the whole document is tokenized.
	Edited []buffer.ByteRange
}

// Tokenizer produces spans for a document using a chroma lexer.
type Tokenizer struct {
	lexer    chroma.Lexer
	maxBytes int64
	logger   *zap.Logger
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithMaxBytes sets the size above which documents are left plain.
func WithMaxBytes(n int64) Option {
	return func(t *Tokenizer) {
		if n > 0 {
			t.maxBytes = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tokenizer) {
		if logger != nil {
			t.logger = logger.Named("syntax")
		}
	}
}

// New creates a tokenizer for filename. Unknown file types get the
// plain-text lexer.
func New(filename string, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		lexer:    lexerFor(filename),
		maxBytes: DefaultMaxBytes,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ForLanguage creates a tokenizer for a chroma language name such as
// "python" or "lua".
func ForLanguage(name string, opts ...Option) *Tokenizer {
	t := New("", opts...)
	if l := lexers.Get(name); l != nil {
		t.lexer = chroma.Coalesce(l)
	}
	return t
}

// HasLanguage reports whether name is a known language name or alias.
func HasLanguage(name string) bool {
	return name != "" && lexers.Get(name) != nil
}

func lexerFor(filename string) chroma.Lexer {
	var l chroma.Lexer
	if filename != "" {
		l = lexers.Match(filename)
	}
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// Language returns the lexer name.
func (t *Tokenizer) Language() string {
	return t.lexer.Config().Name
}

// Tokenize returns the spans of snap in document order. Plain text and
// whitespace produce no spans.
func (t *Tokenizer) Tokenize(ctx context.Context, snap buffer.Snapshot) ([]Span, error) {
	return t.Retokenize(ctx, Request{Snapshot: snap})
}

// Retokenize returns the spans of req.Snapshot, reusing req.Base outside
// the edited lines.
func (t *Tokenizer) Retokenize(ctx context.Context, req Request) ([]Span, error) {
	snap := req.Snapshot
	if snap.ByteLen() > t.maxBytes {
		t.logger.Debug("document too large to tokenize",
			zap.Int64("bytes", snap.ByteLen()),
			zap.Int64("max", t.maxBytes))
		return nil, nil
	}

	text := snap.String()
	lo, hi, ok := editBounds(req.Edited, int64(len(text)))
	if !ok || req.Base == nil {
		return t.lex(ctx, text, 0, nil, 0)
	}

	from := lineStart(text, lo)
	// A token spanning lines may carry lexer state into the edited line.
	for {
		i := sort.Search(len(req.Base), func(i int) bool { return req.Base[i].End > from })
		if i == len(req.Base) || req.Base[i].Start >= from {
			break
		}
		from = lineStart(text, req.Base[i].Start)
	}

	head := make([]Span, 0, len(req.Base))
	for _, s := range req.Base {
		if s.Start >= from {
			break
		}
		s.End = min(s.End, from)
		head = append(head, s)
	}
	tail, err := t.lex(ctx, text, from, req.Base, hi)
	if err != nil {
		return nil, err
	}
	t.logger.Debug("retokenized",
		zap.Int64("from", from),
		zap.Int("reused", len(head)))
	return append(head, tail...), nil
}

// lex tokenizes text[from:]. With base set it stops once resyncLines
// lines past after in a row match base, and copies the rest of base.
func (t *Tokenizer) lex(ctx context.Context, text string, from int64, base []Span, after int64) ([]Span, error) {
	it, err := t.lexer.Tokenise(nil, text[from:])
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", t.Language(), err)
	}

	limit := int64(len(text))
	var spans []Span
	pos, line := from, from
	same := 0
	n := 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		n++
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		start := pos
		pos += int64(len(tok.Value))
		if start >= limit {
			break
		}
		if !plain(tok.Type) {
			end := min(pos, limit)
			if k := len(spans) - 1; k >= 0 && spans[k].Kind == tok.Type && spans[k].End == start {
				spans[k].End = end
			} else {
				spans = append(spans, Span{Start: start, End: end, Kind: tok.Type})
			}
		}

		// Compare at line ends that no new span crosses.
		nl := strings.LastIndexByte(tok.Value, '\n')
		if base == nil || nl < 0 || (!plain(tok.Type) && nl != len(tok.Value)-1) {
			continue
		}
		next := start + int64(nl) + 1
		if next >= limit {
			continue
		}
		if line >= after {
			if equalSpans(SpansIn(spans, line, next), SpansIn(base, line, next)) {
				same++
			} else {
				same = 0
			}
		}
		line = next
		if same >= resyncLines {
			i := sort.Search(len(base), func(i int) bool { return base[i].Start >= next })
			return append(spans, base[i:]...), nil
		}
	}
	return spans, nil
}

func lineStart(text string, at int64) int64 {
	return int64(strings.LastIndexByte(text[:at], '\n') + 1)
}

// editBounds returns the smallest start and largest end of ranges,
// clamped to size.
func editBounds(ranges []buffer.ByteRange, size int64) (lo, hi int64, ok bool) {
	if len(ranges) == 0 {
		return 0, 0, false
	}
	lo, hi = size, 0
	for _, r := range ranges {
		lo = min(lo, r.Start)
		hi = max(hi, r.End)
	}
	return min(max(lo, 0), size), min(hi, size), true
}

func equalSpans(a, b []Span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func plain(k chroma.TokenType) bool {
	return k == chroma.Text || k == chroma.TextWhitespace || k == chroma.Background
}

// Start runs req on a new goroutine and calls done with the result.
// The returned cancel function abandons the request; done is still called
// with the context error.
func (t *Tokenizer) Start(ctx context.Context, req Request, done func(Result)) (uuid.UUID, context.CancelFunc) {
	id := uuid.New()
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		spans, err := t.Retokenize(ctx, req)
		done(Result{ID: id, Revision: req.Snapshot.Revision(), Spans: spans, Err: err})
	}()
	return id, cancel
}

// EditedRanges returns the byte ranges written by changes, in the
// coordinates of the text after the last change. It reports false when a
// change replaced the whole document.
func EditedRanges(changes []tracking.Change) ([]buffer.ByteRange, bool) {
	var out []buffer.ByteRange
	for _, c := range changes {
		if c.Type == tracking.ChangeReset {
			return nil, false
		}
		for i, r := range out {
			out[i] = buffer.ByteRange{Start: carry(r.Start, c), End: carry(r.End, c)}
		}
		out = append(out, buffer.ByteRange{Start: c.ByteRange.Start, End: c.NewByteEnd})
	}
	return out, true
}

// carry maps a byte position through c. Positions inside the replaced
// range move to the edges of the new text.
func carry(pos int64, c tracking.Change) int64 {
	switch {
	case pos <= c.ByteRange.Start:
		return pos
	case pos >= c.ByteRange.End:
		return pos + c.Delta()
	default:
		return c.NewByteEnd
	}
}

// ShiftSpans carries spans across a committed change so they stay aligned
// with the new text until a fresh tokenization arrives. Spans inside the
// replaced range are clipped away.
func ShiftSpans(spans []Span, c tracking.Change) []Span {
	if c.Type == tracking.ChangeReset {
		return nil
	}
	start, end := c.ByteRange.Start, c.ByteRange.End
	delta := c.Delta()

	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		switch {
		case s.End <= start:
			out = append(out, s)
		case s.Start >= end:
			out = append(out, Span{Start: s.Start + delta, End: s.End + delta, Kind: s.Kind})
		default:
			if s.Start < start {
				out = append(out, Span{Start: s.Start, End: start, Kind: s.Kind})
			}
			if s.End > end {
				out = append(out, Span{Start: end + delta, End: s.End + delta, Kind: s.Kind})
			}
		}
	}
	return out
}

// SpansIn returns the spans overlapping the byte range [start, end).
// spans must be sorted by Start and non-overlapping.
func SpansIn(spans []Span, start, end int64) []Span {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > start })
	j := i
	for j < len(spans) && spans[j].Start < end {
		j++
	}
	return spans[i:j]
}
