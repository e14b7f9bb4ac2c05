package rope

import "strings"

// Tree structure constants
const (
	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node represents a node in the rope B+ tree.
// Leaf nodes (height == 0) contain text chunks.
// Internal nodes (height > 0) contain child node references.
type Node struct {
	height  uint8
	summary TextSummary

	// Internal node fields
	children       []*Node
	childSummaries []TextSummary

	// Leaf node fields
	chunks []Chunk
}

func newLeafNode() *Node {
	return &Node{chunks: make([]Chunk, 0, MaxChunksPerLeaf)}
}

func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	n.recomputeSummary()
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	var height uint8
	for _, child := range children {
		height = max(height, child.height+1)
	}
	n := &Node{height: height, children: children}
	n.recomputeSummary()
	return n
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Len returns the byte length of text in this subtree.
func (n *Node) Len() ByteOffset {
	return n.summary.Bytes
}

func (n *Node) recomputeSummary() {
	n.summary = TextSummary{Flags: FlagASCII}
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			n.summary = n.summary.Add(chunk.Summary())
		}
		return
	}
	n.childSummaries = make([]TextSummary, len(n.children))
	for i, child := range n.children {
		n.childSummaries[i] = child.summary
		n.summary = n.summary.Add(child.summary)
	}
}

func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			sb.WriteString(chunk.data)
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends text in the byte range [start, end) to sb.
func (n *Node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if start >= end {
		return
	}

	var offset ByteOffset
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			chunkEnd := offset + ByteOffset(chunk.Len())
			if chunkEnd <= start {
				offset = chunkEnd
				continue
			}
			if offset >= end {
				break
			}
			lo := 0
			if start > offset {
				lo = int(start - offset)
			}
			hi := chunk.Len()
			if end < chunkEnd {
				hi = int(end - offset)
			}
			sb.WriteString(chunk.data[lo:hi])
			offset = chunkEnd
		}
		return
	}

	for i, child := range n.children {
		childEnd := offset + n.childSummaries[i].Bytes
		if childEnd <= start {
			offset = childEnd
			continue
		}
		if offset >= end {
			break
		}
		var lo ByteOffset
		if start > offset {
			lo = start - offset
		}
		hi := n.childSummaries[i].Bytes
		if end < childEnd {
			hi = end - offset
		}
		child.appendRange(sb, lo, hi)
		offset = childEnd
	}
}

// split splits the node at the given byte offset.
func (n *Node) split(offset ByteOffset) (*Node, *Node) {
	if offset == 0 {
		return newLeafNode(), n
	}
	if offset >= n.Len() {
		return n, newLeafNode()
	}
	if n.IsLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

func (n *Node) splitLeaf(offset ByteOffset) (*Node, *Node) {
	var leftChunks, rightChunks []Chunk
	var current ByteOffset

	for _, chunk := range n.chunks {
		chunkLen := ByteOffset(chunk.Len())
		switch {
		case current+chunkLen <= offset:
			leftChunks = append(leftChunks, chunk)
		case current >= offset:
			rightChunks = append(rightChunks, chunk)
		default:
			l, r := chunk.Split(int(offset - current))
			if !l.IsEmpty() {
				leftChunks = append(leftChunks, l)
			}
			if !r.IsEmpty() {
				rightChunks = append(rightChunks, r)
			}
		}
		current += chunkLen
	}
	return newLeafNodeWithChunks(leftChunks), newLeafNodeWithChunks(rightChunks)
}

func (n *Node) splitInternal(offset ByteOffset) (*Node, *Node) {
	var leftChildren, rightChildren []*Node
	var current ByteOffset

	for i, child := range n.children {
		childLen := n.childSummaries[i].Bytes
		switch {
		case current+childLen <= offset:
			leftChildren = append(leftChildren, child)
		case current >= offset:
			rightChildren = append(rightChildren, child)
		default:
			l, r := child.split(offset - current)
			if l.Len() > 0 {
				leftChildren = append(leftChildren, l)
			}
			if r.Len() > 0 {
				rightChildren = append(rightChildren, r)
			}
		}
		current += childLen
	}
	return buildNodeFromChildren(leftChildren), buildNodeFromChildren(rightChildren)
}

// buildNodeFromChildren creates a balanced tree from a list of child nodes.
func buildNodeFromChildren(children []*Node) *Node {
	switch {
	case len(children) == 0:
		return newLeafNode()
	case len(children) == 1:
		return children[0]
	case len(children) <= MaxChildren:
		return newInternalNode(children)
	}

	var parents []*Node
	for i := 0; i < len(children); i += MaxChildren {
		end := min(i+MaxChildren, len(children))
		group := make([]*Node, end-i)
		copy(group, children[i:end])
		parents = append(parents, newInternalNode(group))
	}
	return buildNodeFromChildren(parents)
}

// concat concatenates two nodes.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	switch {
	case left.IsLeaf() && right.IsLeaf():
		return concatLeaves(left, right)
	case left.height > right.height:
		last := len(left.children) - 1
		merged := concat(left.children[last], right)
		children := append([]*Node(nil), left.children[:last]...)
		children = append(children, spliceChild(merged, left.children[last].height)...)
		return buildNodeFromChildren(children)
	case left.height < right.height:
		merged := concat(left, right.children[0])
		children := append([]*Node(nil), spliceChild(merged, right.children[0].height)...)
		children = append(children, right.children[1:]...)
		return buildNodeFromChildren(children)
	default:
		children := make([]*Node, 0, len(left.children)+len(right.children))
		children = append(children, left.children...)
		children = append(children, right.children...)
		return buildNodeFromChildren(children)
	}
}

// spliceChild returns n as a list of siblings for children of the given
// height. A node that grew a level during concat is replaced by its children.
func spliceChild(n *Node, height uint8) []*Node {
	if !n.IsLeaf() && n.height > height {
		return n.children
	}
	return []*Node{n}
}

// concatLeaves concatenates two leaf nodes, merging the touching chunks
// when one of them is undersized.
func concatLeaves(left, right *Node) *Node {
	chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
	chunks = append(chunks, left.chunks...)
	rest := right.chunks

	if len(chunks) > 0 && len(rest) > 0 {
		last := chunks[len(chunks)-1]
		first := rest[0]
		if last.Len()+first.Len() <= MaxChunkSize &&
			(last.Len() < MinChunkSize || first.Len() < MinChunkSize) {
			chunks[len(chunks)-1] = NewChunk(last.data + first.data)
			rest = rest[1:]
		}
	}
	chunks = append(chunks, rest...)

	if len(chunks) <= MaxChunksPerLeaf {
		return newLeafNodeWithChunks(chunks)
	}
	mid := len(chunks) / 2
	l := append([]Chunk(nil), chunks[:mid]...)
	r := append([]Chunk(nil), chunks[mid:]...)
	return newInternalNode([]*Node{newLeafNodeWithChunks(l), newLeafNodeWithChunks(r)})
}

// charToByte converts a character offset within the subtree to a byte offset.
func (n *Node) charToByte(c CharOffset) ByteOffset {
	var base ByteOffset
	node := n
	for !node.IsLeaf() {
		i := 0
		for ; i < len(node.children)-1; i++ {
			s := node.childSummaries[i]
			if c < s.Chars {
				break
			}
			c -= s.Chars
			base += s.Bytes
		}
		node = node.children[i]
	}
	for j, chunk := range node.chunks {
		if c < chunk.summary.Chars || j == len(node.chunks)-1 {
			return base + ByteOffset(charToByteIn(chunk.data, chunk.isASCII(), c))
		}
		c -= chunk.summary.Chars
		base += ByteOffset(chunk.Len())
	}
	return base
}

// byteToChar counts the characters that start before byte offset b.
func (n *Node) byteToChar(b ByteOffset) CharOffset {
	var base CharOffset
	node := n
	for !node.IsLeaf() {
		i := 0
		for ; i < len(node.children)-1; i++ {
			s := node.childSummaries[i]
			if b < s.Bytes {
				break
			}
			b -= s.Bytes
			base += s.Chars
		}
		node = node.children[i]
	}
	for j, chunk := range node.chunks {
		if b < ByteOffset(chunk.Len()) || j == len(node.chunks)-1 {
			return base + byteToCharIn(chunk.data, chunk.isASCII(), int(b))
		}
		b -= ByteOffset(chunk.Len())
		base += chunk.summary.Chars
	}
	return base
}

// lineStart returns the byte offset just past the line-th newline.
// Callers guarantee 0 < line <= n.summary.Lines.
func (n *Node) lineStart(line uint32) ByteOffset {
	var base ByteOffset
	node := n
	for !node.IsLeaf() {
		i := 0
		for ; i < len(node.children)-1; i++ {
			s := node.childSummaries[i]
			if line <= s.Lines {
				break
			}
			line -= s.Lines
			base += s.Bytes
		}
		node = node.children[i]
	}
	for _, chunk := range node.chunks {
		if line <= chunk.summary.Lines {
			return base + ByteOffset(findNthNewline(chunk.data, line)+1)
		}
		line -= chunk.summary.Lines
		base += ByteOffset(chunk.Len())
	}
	return base
}

// newlinesBefore counts newline bytes in [0, b).
func (n *Node) newlinesBefore(b ByteOffset) uint32 {
	var lines uint32
	node := n
	for !node.IsLeaf() {
		i := 0
		for ; i < len(node.children)-1; i++ {
			s := node.childSummaries[i]
			if b < s.Bytes {
				break
			}
			b -= s.Bytes
			lines += s.Lines
		}
		node = node.children[i]
	}
	for _, chunk := range node.chunks {
		if b < ByteOffset(chunk.Len()) {
			return lines + countNewlines(chunk.data[:b])
		}
		b -= ByteOffset(chunk.Len())
		lines += chunk.summary.Lines
	}
	return lines
}
