package ast

import "github.com/mna/ilex/lang/ids"

// LowerLocations outlines every non-location operand of &, [] and .field
// into a preceding synthetic `let` binding, per spec §4.1.4, grounded on
// the original's lower_locs_rec. root is expected to be a Block or File (the
// usual case: a whole compiled chunk), since synthetic identifier ids are
// scoped per nearest enclosing Block/File and reset to ids.SecondSynth at
// each one.
func (p *Pool) LowerLocations(root ids.AstNodeId) ids.AstNodeId {
	capacity := 4 * (p.Len() - int(root))
	if capacity < 64 {
		capacity = 64
	}
	b := NewBuilder(capacity)

	synth := ids.SecondSynth
	var hoist []Token
	lowerLocsRec(p, b, root, &synth, &hoist)

	newRoot := p.CompleteAST(b)
	return p.replaceSubtreeFromTail(root, newRoot)
}

func needsLocation(tag Tag) bool {
	switch tag {
	case UOpAddr, OpSliceOf, OpArrayIndex, Member:
		return true
	default:
		return false
	}
}

func providesLocation(tag Tag) bool {
	switch tag {
	case UOpDeref, OpArrayIndex, Member, Identifier:
		return true
	default:
		return false
	}
}

func nextSynth(id ids.IdentifierId) ids.IdentifierId {
	if id >= ids.FirstNatural {
		panic("ast: exceeded maximum synthetic identifiers in a block")
	}
	return id + 1
}

// lowerLocsRec rebuilds node into b. synth threads the next free synthetic
// identifier id for the nearest enclosing Block/File; hoist collects the
// Definition tokens that must precede the statement currently being
// lowered (nil/ignored outside of a block's statement list).
//
// Unlike the original, which runs a separate mirrored traversal
// (lower_locs_rec_promote_value_to_definition) ahead of the real copy to
// decide what to hoist, this emits each Definition the moment it discovers
// the node that needs one: since Builder only requires correct post-order
// push sequencing, not a second pass, a hoisted Definition can simply be
// pushed (complete, with its own value subtree) immediately before the
// push of the node that now refers to it via a synthetic identifier.
func lowerLocsRec(pool *Pool, b *Builder, node ids.AstNodeId, synth *ids.IdentifierId, hoist *[]Token) Token {
	n := pool.Node(node)
	tag := n.Tag()

	if tag == Block || tag == File {
		return lowerLocsBlock(pool, b, node)
	}

	children := collectChildren(pool, node)

	start := 0
	var firstChild Token = NoChildren

	if needsLocation(tag) && len(children) > 0 && !providesLocation(pool.Node(children[0]).Tag()) {
		sid := *synth
		*synth = nextSynth(*synth)

		valueTok := lowerLocsRec(pool, b, children[0], synth, hoist)
		defTok := b.Push(valueTok, n.Source(), FlagEmpty, Definition, uint64(sid), 0)
		if hoist != nil {
			*hoist = append(*hoist, defTok)
		}

		firstChild = pushIdentifier(b, sid, n.Source())
		start = 1
	}

	for i := start; i < len(children); i++ {
		tok := lowerLocsRec(pool, b, children[i], synth, hoist)
		if firstChild == NoChildren {
			firstChild = tok
		}
	}

	return b.Push(firstChild, n.Source(), n.Header().Flags, tag, rawAttachment(n)...)
}

// lowerLocsBlock lowers a Block or File's direct statements, each with its
// own fresh hoist list and a synthetic id counter reset to
// ids.SecondSynth, per spec §4.1.4.
func lowerLocsBlock(pool *Pool, b *Builder, node ids.AstNodeId) Token {
	n := pool.Node(node)
	children := collectChildren(pool, node)

	synth := ids.SecondSynth
	var firstChild Token = NoChildren

	for _, stmt := range children {
		var hoist []Token
		stmtTok := lowerLocsRec(pool, b, stmt, &synth, &hoist)

		if firstChild == NoChildren {
			if len(hoist) > 0 {
				firstChild = hoist[0]
			} else {
				firstChild = stmtTok
			}
		}
	}

	return b.Push(firstChild, n.Source(), n.Header().Flags, n.Tag(), rawAttachment(n)...)
}
