package rope

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// buildFromChunks builds a balanced rope bottom-up from chunks.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var nodes []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leaf := make([]Chunk, end-i)
		copy(leaf, chunks[i:end])
		nodes = append(nodes, newLeafNodeWithChunks(leaf))
	}
	return Rope{root: buildNodeFromChildren(nodes)}
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	if r.root == nil {
		return 0
	}
	return r.root.Len()
}

// Chars returns the number of Unicode scalar values.
func (r Rope) Chars() CharOffset {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Chars
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() uint32 {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the full text.
// Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.Len()))
	r.root.appendTo(&sb)
	return sb.String()
}

// WriteTo writes the rope's text to w chunk by chunk.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Chunks()
	for it.Next() {
		n, err := io.WriteString(w, it.Chunk().String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Slice returns the text in the byte range [start, end).
func (r Rope) Slice(start, end ByteOffset) string {
	if r.root == nil || start >= end {
		return ""
	}
	end = min(end, r.Len())
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(end - start))
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// RuneAt decodes the rune starting at byte offset b.
// Returns utf8.RuneError and 0 if b is at or past the end.
func (r Rope) RuneAt(b ByteOffset) (rune, int) {
	if b >= r.Len() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(r.Slice(b, b+utf8.UTFMax))
}

// Insert inserts text at the given byte offset.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.IsEmpty() {
		return FromString(text)
	}
	if offset == 0 {
		return FromString(text).Concat(r)
	}
	if offset >= r.Len() {
		return r.Concat(FromString(text))
	}
	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes text in the byte range [start, end).
func (r Rope) Delete(start, end ByteOffset) Rope {
	if r.root == nil || start >= end || start >= r.Len() {
		return r
	}
	end = min(end, r.Len())

	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Split splits the rope at offset.
// Left contains [0, offset), right contains [offset, end).
func (r Rope) Split(offset ByteOffset) (Rope, Rope) {
	if r.root == nil || offset == 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}
	l, rr := r.root.split(offset)
	return Rope{root: l}, Rope{root: rr}
}

// Concat concatenates two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// CharToByte converts a character offset to a byte offset.
// Offsets past the end map to Len().
func (r Rope) CharToByte(c CharOffset) ByteOffset {
	if r.root == nil || c == 0 {
		return 0
	}
	if c >= r.Chars() {
		return r.Len()
	}
	if r.root.summary.Flags&FlagASCII != 0 {
		return ByteOffset(c)
	}
	return r.root.charToByte(c)
}

// ByteToChar converts a byte offset to a character offset.
func (r Rope) ByteToChar(b ByteOffset) CharOffset {
	if r.root == nil || b == 0 {
		return 0
	}
	if b >= r.Len() {
		return r.Chars()
	}
	if r.root.summary.Flags&FlagASCII != 0 {
		return CharOffset(b)
	}
	return r.root.byteToChar(b)
}

// LineStartOffset returns the byte offset of the start of the given line.
// Lines are 0-indexed; lines past the end map to Len().
func (r Rope) LineStartOffset(line uint32) ByteOffset {
	if r.root == nil || line == 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}
	return r.root.lineStart(line)
}

// LineEndOffset returns the byte offset of the end of the given line,
// excluding its newline.
func (r Rope) LineEndOffset(line uint32) ByteOffset {
	if line+1 >= r.LineCount() {
		return r.Len()
	}
	return r.LineStartOffset(line+1) - 1
}

// LineText returns the text of the given line without its newline.
func (r Rope) LineText(line uint32) string {
	if line >= r.LineCount() {
		return ""
	}
	return r.Slice(r.LineStartOffset(line), r.LineEndOffset(line))
}

// LineAt returns the 0-indexed line containing byte offset b.
func (r Rope) LineAt(b ByteOffset) uint32 {
	if r.root == nil || b == 0 {
		return 0
	}
	if b >= r.Len() {
		return r.root.summary.Lines
	}
	return r.root.newlinesBefore(b)
}

// Height returns the height of the rope tree.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the total number of chunks in the rope.
func (r Rope) ChunkCount() int {
	count := 0
	it := r.Chunks()
	for it.Next() {
		count++
	}
	return count
}
