package ast

import "github.com/mna/ilex/lang/ids"

// LowerSetOps expands every OpSetAdd..OpSetShiftR node within the tree
// rooted at root into
//
//	{
//	    let _u = lhs.&
//	    _u.* = _u.* op rhs
//	}
//
// per spec §4.1.3, grounded on the original's lower_tags_set_op. It
// rebuilds the whole tree into a fresh scratch Builder and splices the
// result back over root's old span, returning root's (unchanged) id.
func (p *Pool) LowerSetOps(root ids.AstNodeId) ids.AstNodeId {
	capacity := 2 * (p.Len() - int(root))
	if capacity < 64 {
		capacity = 64
	}
	b := NewBuilder(capacity)
	lowerSetOpsRec(p, b, root)
	newRoot := p.CompleteAST(b)
	return p.replaceSubtreeFromTail(root, newRoot)
}

func lowerSetOpsRec(pool *Pool, b *Builder, node ids.AstNodeId) Token {
	tag := pool.Node(node).Tag()
	if tag.IsOpSet() {
		return lowerSetOpRewrite(pool, b, node)
	}
	return copyNode(pool, b, node, func(child ids.AstNodeId) Token {
		return lowerSetOpsRec(pool, b, child)
	})
}

// lowerSetOpRewrite expands a single `lhs op= rhs` node, using the single
// reserved synthetic identifier slot ids.FirstSynth: set-op expansion never
// nests (a set-op's own lhs/rhs cannot themselves contain a set-op that
// needs a live binding to this one's _u), so the slot is never aliased
// within one expansion.
func lowerSetOpRewrite(pool *Pool, b *Builder, node ids.AstNodeId) Token {
	n := pool.Node(node)
	tag := n.Tag()
	src := n.Source()

	children := collectChildren(pool, node)
	if len(children) != 2 {
		panic("ast: set-operation node must have exactly two children")
	}
	lhs, rhs := children[0], children[1]

	lhsTok := lowerSetOpsRec(pool, b, lhs)
	addrTok := b.Push(lhsTok, src, FlagEmpty, UOpAddr)
	defTok := b.Push(addrTok, src, FlagEmpty, Definition, uint64(ids.FirstSynth), 0)

	identOuterTok := pushIdentifier(b, ids.FirstSynth, src)
	derefOuterTok := b.Push(identOuterTok, src, FlagEmpty, UOpDeref)

	identInnerTok := pushIdentifier(b, ids.FirstSynth, src)
	derefInnerTok := b.Push(identInnerTok, src, FlagEmpty, UOpDeref)

	// rhs lands right after the inner deref, so it becomes the op's second
	// child without its token being needed.
	lowerSetOpsRec(pool, b, rhs)

	b.Push(derefInnerTok, src, FlagEmpty, tag.NonAssignOp())
	b.Push(derefOuterTok, src, FlagEmpty, OpSet)

	return b.Push(defTok, src, FlagEmpty, Block)
}
