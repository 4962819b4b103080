package ast

import (
	"github.com/mna/ilex/lang/ids"
	"github.com/mna/ilex/lang/iface"
)

// Token is the word-offset, within a Builder's scratch arena, of a node
// just pushed by Push. It is what the caller passes as the first-child
// token to the next sibling or to the parent node that encloses it.
type Token uint32

// NoChildren is the sentinel Token a leaf node's caller passes instead of
// a real first-child token.
const NoChildren Token = 0xffffffff

// Builder accepts AST nodes in post-order: by the time a node is pushed,
// all of its children have already been pushed. It is the scratch area of
// spec §4.1.1, discarded once CompleteAST has copied its contents into
// the owning Pool's canonical arena.
type Builder struct {
	nodes   *iface.WordArena
	sources []ids.SourceId
}

// NewBuilder returns an empty Builder with capacity for roughly
// capacityWords words of scratch storage.
func NewBuilder(capacityWords int) *Builder {
	return &Builder{
		nodes:   iface.NewWordArena(capacityWords),
		sources: make([]ids.SourceId, 0, capacityWords),
	}
}

// Push appends a node whose children (if any) were already pushed, ending
// at firstChild (or NoChildren for a leaf). It returns this node's Token.
//
// While the scratch arena is being built, the header's next_sibling_offset
// field is overloaded to hold firstChild (or NoChildren); complete_ast's
// first pass rewrites it into the FirstSibling/LastSibling flags, and the
// second pass rewrites it again into a genuine preorder successor index.
func (b *Builder) Push(firstChild Token, src ids.SourceId, flags Flag, tag Tag, attachment ...uint64) Token {
	own := attachmentWords(tag, len(attachment)) + 1
	noChildren := firstChild == NoChildren
	var structure StructureFlag
	if noChildren {
		structure = StructureNoChildren
	}

	off := b.nodes.Grow(int(own))
	header := MakeHeader(tag, flags, own, structure, uint32(firstChild))
	b.nodes.Set(off, header)
	for i := 0; i < int(own); i++ {
		b.sources = append(b.sources, src)
	}
	for i, a := range attachment {
		b.nodes.Set(off+1+i, a)
	}
	for i := len(attachment); i < int(own)-1; i++ {
		b.nodes.Set(off+1+i, 0)
	}
	return Token(off)
}

// Len reports the number of words currently in the scratch arena.
func (b *Builder) Len() int { return b.nodes.Len() }

// reset discards the scratch arena's contents, ready to build the next
// tree, matching spec §3's "node_builder ... scratch arena ... discarded
// after each tree is finalised."
func (b *Builder) reset() {
	b.nodes.Reset()
	b.sources = b.sources[:0]
}
