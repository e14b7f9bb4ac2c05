package rope

import "unicode/utf8"

// backwardWindow is the slice size used when scanning runes in reverse.
const backwardWindow = 1024

type chunkIterFrame struct {
	node   *Node
	idx    int        // next child or chunk to visit
	offset ByteOffset // absolute offset of the item at idx
}

// ChunkIterator iterates over chunks in a rope in document order.
type ChunkIterator struct {
	stack []chunkIterFrame
	chunk Chunk
	start ByteOffset
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	return r.chunksAt(0)
}

// chunksAt returns an iterator whose first chunk contains byte offset b.
// Seeking costs O(log n).
func (r Rope) chunksAt(b ByteOffset) *ChunkIterator {
	it := &ChunkIterator{stack: make([]chunkIterFrame, 0, 16)}
	if r.root == nil {
		return it
	}

	node := r.root
	var base ByteOffset
	for !node.IsLeaf() {
		i := 0
		for ; i < len(node.children)-1; i++ {
			size := node.childSummaries[i].Bytes
			if b < size {
				break
			}
			b -= size
			base += size
		}
		it.stack = append(it.stack, chunkIterFrame{
			node:   node,
			idx:    i + 1,
			offset: base + node.childSummaries[i].Bytes,
		})
		node = node.children[i]
	}

	j := 0
	for ; j < len(node.chunks)-1; j++ {
		size := ByteOffset(node.chunks[j].Len())
		if b < size {
			break
		}
		b -= size
		base += size
	}
	it.stack = append(it.stack, chunkIterFrame{node: node, idx: j, offset: base})
	return it
}

// Next advances to the next non-empty chunk.
func (it *ChunkIterator) Next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.node.IsLeaf() {
			if top.idx >= len(top.node.chunks) {
				it.stack = it.stack[:len(it.stack)-1]
				continue
			}
			it.chunk = top.node.chunks[top.idx]
			it.start = top.offset
			top.offset += ByteOffset(it.chunk.Len())
			top.idx++
			if it.chunk.IsEmpty() {
				continue
			}
			return true
		}

		if top.idx >= len(top.node.children) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		child := top.node.children[top.idx]
		offset := top.offset
		top.offset += top.node.childSummaries[top.idx].Bytes
		top.idx++
		it.stack = append(it.stack, chunkIterFrame{node: child, offset: offset})
	}
	return false
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}

// Offset returns the byte offset of the start of the current chunk.
func (it *ChunkIterator) Offset() ByteOffset {
	return it.start
}

// RunesForward calls fn for each rune at or after byte offset b, in order,
// until fn returns false.
func (r Rope) RunesForward(b ByteOffset, fn func(offset ByteOffset, ch rune) bool) {
	it := r.chunksAt(b)
	for it.Next() {
		data := it.Chunk().String()
		i := 0
		if it.Offset() < b {
			i = int(b - it.Offset())
		}
		for i < len(data) {
			ch, size := utf8.DecodeRuneInString(data[i:])
			if !fn(it.Offset()+ByteOffset(i), ch) {
				return
			}
			i += size
		}
	}
}

// RunesBackward calls fn for each rune that ends at or before byte offset b,
// nearest first, until fn returns false.
func (r Rope) RunesBackward(b ByteOffset, fn func(offset ByteOffset, ch rune) bool) {
	hi := min(b, r.Len())
	for hi > 0 {
		lo := ByteOffset(0)
		if hi > backwardWindow {
			lo = hi - backwardWindow
		}
		s := r.Slice(lo, hi)
		skip := 0
		for lo > 0 && skip < len(s) && !isUTF8Start(s[skip]) {
			skip++
		}
		s = s[skip:]
		lo += ByteOffset(skip)
		if len(s) == 0 {
			return
		}

		for len(s) > 0 {
			ch, size := utf8.DecodeLastRuneInString(s)
			s = s[:len(s)-size]
			if !fn(lo+ByteOffset(len(s)), ch) {
				return
			}
		}
		hi = lo
	}
}
