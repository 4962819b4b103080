package ast

import "github.com/mna/ilex/lang/ids"

// A node occupies 1..8 contiguous uint64 words in an arena: one header
// word followed by 0..7 tag-specific attachment words. The header packs
// five fields, per spec §3:
//
//	bits 0..7   tag              (Tag)
//	bits 8..15  flags            (Flag)
//	bits 16..23 own_qwords       (1..8, header included)
//	bits 24..26 structure_flags  (StructureFlag)
//	bits 32..63 next_sibling_offset (in words, relative to this node)
const (
	headerTagShift      = 0
	headerFlagsShift     = 8
	headerQwordsShift    = 16
	headerStructureShift = 24
	headerOffsetShift    = 32

	headerTagMask       = 0xff
	headerFlagsMask      = 0xff
	headerQwordsMask     = 0xff
	headerStructureMask  = 0x07
)

// MakeHeader packs a node's header word.
func MakeHeader(tag Tag, flags Flag, ownQwords uint8, structure StructureFlag, nextSiblingOffset uint32) uint64 {
	if ownQwords < 1 || ownQwords > 8 {
		panic("ast: own_qwords must be in [1, 8]")
	}
	return uint64(tag)<<headerTagShift |
		uint64(flags)<<headerFlagsShift |
		uint64(ownQwords)<<headerQwordsShift |
		uint64(structure)<<headerStructureShift |
		uint64(nextSiblingOffset)<<headerOffsetShift
}

// Header is a decoded view of a node's header word.
type Header struct {
	Tag               Tag
	Flags             Flag
	OwnQwords         uint8
	Structure         StructureFlag
	NextSiblingOffset uint32
}

// DecodeHeader unpacks a raw header word.
func DecodeHeader(w uint64) Header {
	return Header{
		Tag:               Tag((w >> headerTagShift) & headerTagMask),
		Flags:             Flag((w >> headerFlagsShift) & headerFlagsMask),
		OwnQwords:         uint8((w >> headerQwordsShift) & headerQwordsMask),
		Structure:         StructureFlag((w >> headerStructureShift) & headerStructureMask),
		NextSiblingOffset: uint32(w >> headerOffsetShift),
	}
}

// Encode packs h back into a raw header word.
func (h Header) Encode() uint64 {
	return MakeHeader(h.Tag, h.Flags, h.OwnQwords, h.Structure, h.NextSiblingOffset)
}

func (h Header) FirstSibling() bool { return h.Structure&StructureFirstSibling != 0 }
func (h Header) LastSibling() bool  { return h.Structure&StructureLastSibling != 0 }
func (h Header) NoChildren() bool   { return h.Structure&StructureNoChildren != 0 }

// maxAttachmentWords is the largest number of trailing attachment words
// any node tag uses; own_qwords is therefore always in [1, 8].
const maxAttachmentWords = 7

// attachmentWords returns the number of trailing uint64 words tag's
// attachment occupies, driving own_qwords = 1 + attachmentWords(tag).
func attachmentWords(tag Tag, argc int) uint8 {
	switch tag {
	case LitVoid, LitNil, Discard, Break, Continue, Defer, Catch:
		return 0
	case LitBool, LitChar:
		return 1
	case LitInteger, LitFloat:
		return 1
	case Identifier:
		return 2 // IdentifierId + NameBinding (packed into one word each)
	case LitString:
		return 1 // interned string table id
	case Definition:
		return 2 // IdentifierId, GlobalValueId/offset
	case Parameter:
		return 1 // IdentifierId
	case Signature:
		return 2 // param_count, TypeId (return-type hint)
	case Func:
		return 1 // OpcodeId of compiled body (filled post-compile), or 0
	case Label, Goto:
		return 1 // IdentifierId
	case Call:
		return 1 // argument count
	default:
		if argc > 0 {
			return uint8(argc)
		}
		return 0
	}
}

// Node is a read/write view of a single node, bound to the arena word
// offset of its header. It is a thin handle, not a copy: methods read and
// write directly through to the owning Pool's storage.
type Node struct {
	pool *Pool
	id   ids.AstNodeId
}

// Id returns the node's identity, a word offset into the owning pool's
// canonical node array.
func (n Node) Id() ids.AstNodeId { return n.id }

// Header decodes the node's header word.
func (n Node) Header() Header { return DecodeHeader(n.pool.nodes.At(int(n.id))) }

// Tag is a convenience accessor for Header().Tag.
func (n Node) Tag() Tag { return n.Header().Tag }

// Source returns the source id recorded for the node's header word.
func (n Node) Source() ids.SourceId { return n.pool.sources[n.id] }

// Attachment returns the i'th trailing attachment word (0-based).
func (n Node) Attachment(i int) uint64 {
	h := n.Header()
	if i < 0 || i >= int(h.OwnQwords)-1 {
		panic("ast: attachment index out of range")
	}
	return n.pool.nodes.At(int(n.id) + 1 + i)
}

// SetAttachment overwrites the i'th trailing attachment word.
func (n Node) SetAttachment(i int, v uint64) {
	h := n.Header()
	if i < 0 || i >= int(h.OwnQwords)-1 {
		panic("ast: attachment index out of range")
	}
	n.pool.nodes.Set(int(n.id)+1+i, v)
}

// FirstChild returns the id of the node's first child. It is only valid
// to call when !NoChildren().
func (n Node) FirstChild() ids.AstNodeId {
	h := n.Header()
	if h.NoChildren() {
		panic("ast: node has no children")
	}
	return n.id + ids.AstNodeId(h.OwnQwords)
}

// End returns the id one-past the node's entire subtree.
func (n Node) End() ids.AstNodeId {
	h := n.Header()
	return n.id + ids.AstNodeId(h.NextSiblingOffset)
}

// NextSibling returns the id of the node immediately following this
// node's subtree, which is its next sibling unless this is the last
// sibling at its depth (in which case End() instead jumps past the whole
// parent subtree; callers must check LastSibling()).
func (n Node) NextSibling() ids.AstNodeId { return n.End() }
