package ast

import "github.com/mna/ilex/lang/ids"

// collectChildren materialises node's direct children as a slice. The
// lowering passes need random access (peek the first child's tag before
// deciding whether to recurse into it normally or hoist it), which the
// single-pass DirectChildren iterator doesn't offer.
func collectChildren(pool *Pool, node ids.AstNodeId) []ids.AstNodeId {
	it := pool.Children(node)
	var out []ids.AstNodeId
	for {
		child, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, child)
	}
	return out
}

// rawAttachment reads back node's attachment words verbatim, for copying a
// node whose tag isn't being rewritten by the lowering pass in progress.
func rawAttachment(n Node) []uint64 {
	count := int(n.Header().OwnQwords) - 1
	if count == 0 {
		return nil
	}
	out := make([]uint64, count)
	for i := range out {
		out[i] = n.Attachment(i)
	}
	return out
}

// pushIdentifier pushes a leaf Identifier node referring to id. The
// NameBinding attachment word is left zero; it is filled in later by the
// scope analyser (lang/resolver), per spec §4.4.
func pushIdentifier(b *Builder, id ids.IdentifierId, src ids.SourceId) Token {
	return b.Push(NoChildren, src, FlagEmpty, Identifier, uint64(id), 0)
}

// copyNode rebuilds node into b unchanged, except that each of its children
// is routed through recurse first. This is the generic "nothing special
// here, just keep walking" case shared by both lowering passes: every node
// tag not specifically rewritten by a pass is copied this way.
func copyNode(pool *Pool, b *Builder, node ids.AstNodeId, recurse func(ids.AstNodeId) Token) Token {
	n := pool.Node(node)
	h := n.Header()

	var firstChild Token = NoChildren
	it := pool.Children(node)
	for {
		child, ok := it.Next()
		if !ok {
			break
		}
		tok := recurse(child)
		if firstChild == NoChildren {
			firstChild = tok
		}
	}

	return b.Push(firstChild, n.Source(), h.Flags, h.Tag, rawAttachment(n)...)
}
