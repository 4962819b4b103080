package ast

import (
	"github.com/mna/ilex/lang/ids"
	"github.com/mna/ilex/lang/iface"
)

// Pool owns the canonical, preorder node array for every chunk compiled
// in a single run, plus the parallel source-id array. It is the spine
// every other core consumes or annotates AstNodes through, exclusively by
// AstNodeId.
type Pool struct {
	nodes   *iface.WordArena
	sources []ids.SourceId
}

// NewPool returns an empty Pool with capacity for roughly capacityWords
// words of canonical storage.
func NewPool(capacityWords int) *Pool {
	return &Pool{
		nodes:   iface.NewWordArena(capacityWords),
		sources: make([]ids.SourceId, 0, capacityWords),
	}
}

// Node returns a handle to the node at id.
func (p *Pool) Node(id ids.AstNodeId) Node { return Node{pool: p, id: id} }

// Len reports the number of words currently in the canonical arena.
func (p *Pool) Len() int { return p.nodes.Len() }

// headerAt/ setHeaderAt are small helpers shared by the finalisation
// passes and the lowering passes below.
func headerAt(a *iface.WordArena, off int) Header { return DecodeHeader(a.At(off)) }
func setHeaderAt(a *iface.WordArena, off int, h Header) { a.Set(off, h.Encode()) }

// CompleteAST finalises b's scratch arena into a canonical, preorder tree
// appended to p, returning the id of the new tree's root. b is reset
// (emptied) once this returns, ready to build the next tree, per spec
// §4.1.2.
func (p *Pool) CompleteAST(b *Builder) ids.AstNodeId {
	if b.nodes.Len() == 0 {
		panic("ast: CompleteAST called on an empty builder")
	}

	setFlags(b.nodes)
	rootOff := buildTraversalList(b.nodes)
	rootId := copyPostorderToPreorder(p, b, rootOff)
	b.reset()
	return rootId
}

// setFlags is pass 1 of complete_ast: it derives FirstSibling/LastSibling
// from the first-child tokens stashed (by Push) in next_sibling_offset,
// without disturbing those tokens - pass 2 below still needs to read them.
func setFlags(a *iface.WordArena) {
	n := a.Len()
	prev := -1
	curr := 0
	for curr != n {
		h := headerAt(a, curr)
		next := curr + int(h.OwnQwords)

		if h.NextSiblingOffset != uint32(NoChildren) {
			if prev < 0 {
				panic("ast: malformed builder: first node has children token")
			}
			firstChildOff := int(h.NextSiblingOffset)
			fc := headerAt(a, firstChildOff)
			fc.Structure |= StructureFirstSibling
			setHeaderAt(a, firstChildOff, fc)

			ph := headerAt(a, prev)
			ph.Structure |= StructureLastSibling
			setHeaderAt(a, prev, ph)
		}

		prev = curr
		curr = next
	}

	// The overall root (last node processed) is both the first and the
	// last (only) sibling at the top level.
	rh := headerAt(a, prev)
	rh.Structure |= StructureFirstSibling | StructureLastSibling
	setHeaderAt(a, prev, rh)
}

// buildTraversalList is pass 2 of complete_ast. It walks the scratch
// arena front-to-back (i.e. in post-order) and, for every node that is
// not a FirstSibling, rewrites the next_sibling_offset field of the node
// visited just before it in preorder - its preceding sibling if that is a
// leaf, otherwise that sibling's recursively-last descendant - to point at
// it, turning the field into a preorder "what comes next" link. Nodes with
// children keep the first-child token Push left in place, which is exactly
// the link copyPostorderToPreorder needs to descend into children. It
// returns the scratch offset of the tree's root (the last node visited).
func buildTraversalList(a *iface.WordArena) int {
	var depth int = -1
	const noRecursiveChild = -1
	recursivelyLastChild := noRecursiveChild

	var prevSiblingAt [ids.MaxAstDepth]int

	n := a.Len()
	curr := 0
	rootStart := 0
	for {
		h := headerAt(a, curr)
		firstSibling := h.Structure&StructureFirstSibling != 0
		lastSibling := h.Structure&StructureLastSibling != 0
		noChildren := h.Structure&StructureNoChildren != 0
		rootStart = curr

		if !firstSibling {
			if depth < 0 {
				panic("ast: malformed builder: non-first-sibling node at depth -1")
			}
			prevOff := prevSiblingAt[depth]
			ph := headerAt(a, prevOff)
			ph.NextSiblingOffset = uint32(curr)
			setHeaderAt(a, prevOff, ph)
		}

		if !lastSibling {
			if firstSibling {
				if depth+1 >= ids.MaxAstDepth {
					panic("ast: maximum AST depth exceeded")
				}
				depth++
			}
			if !noChildren {
				if recursivelyLastChild == noRecursiveChild {
					panic("ast: malformed builder: missing recursively-last child")
				}
				prevSiblingAt[depth] = recursivelyLastChild
			} else {
				prevSiblingAt[depth] = curr
			}
		} else {
			if !firstSibling {
				depth--
			}
			if noChildren {
				recursivelyLastChild = curr
			}
		}

		next := curr + int(h.OwnQwords)
		if next == n {
			break
		}
		curr = next
	}
	if depth != -1 {
		panic("ast: malformed builder: unbalanced sibling stack")
	}
	return rootStart
}

// copyPostorderToPreorder is pass 3 of complete_ast. It chases the linked
// list build_traversal_list produced, starting at the root, emitting
// nodes preorder-first into p's canonical arena. Siblings at each depth
// are fixed up with absolute next_sibling_offset values as the traversal
// unwinds.
func copyPostorderToPreorder(p *Pool, b *Builder, srcRootOff int) ids.AstNodeId {
	var prevSiblingAt [ids.MaxAstDepth]int
	depth := -1

	dstBase := p.nodes.Len()
	srcIndex := srcRootOff
	dstIndex := 0

	for {
		srcHeader := headerAt(b.nodes, srcIndex)
		own := int(srcHeader.OwnQwords)

		for i := 0; i < own; i++ {
			p.nodes.Append(b.nodes.At(srcIndex + i))
			p.sources = append(p.sources, b.sources[srcIndex+i])
		}

		if srcHeader.Structure&StructureFirstSibling == 0 {
			for {
				if depth <= 0 {
					panic("ast: malformed traversal: root popped prematurely")
				}
				prevIndex := prevSiblingAt[depth]
				depth--

				ph := headerAt(p.nodes, dstBase+prevIndex)
				ph.NextSiblingOffset = uint32(dstIndex - prevIndex)
				setHeaderAt(p.nodes, dstBase+prevIndex, ph)

				if ph.Structure&StructureLastSibling == 0 {
					break
				}
			}
		}

		if depth+1 >= ids.MaxAstDepth {
			panic("ast: maximum AST depth exceeded")
		}
		depth++
		prevSiblingAt[depth] = dstIndex

		if srcHeader.NextSiblingOffset == uint32(NoChildren) {
			break
		}

		dstIndex += own
		srcIndex = int(headerAt(b.nodes, srcIndex).NextSiblingOffset)
	}

	total := p.nodes.Len() - dstBase
	for depth >= 0 {
		prevIndex := prevSiblingAt[depth]
		depth--

		ph := headerAt(p.nodes, dstBase+prevIndex)
		ph.NextSiblingOffset = uint32(total - prevIndex)
		setHeaderAt(p.nodes, dstBase+prevIndex, ph)
	}

	return ids.AstNodeId(dstBase)
}

// replaceSubtreeFromTail overwrites the subtree rooted at dstRoot with the
// tree rooted at srcRoot, then discards whatever followed it. It is used by
// the lowering passes, which build a tree's replacement at the pool's tail
// (via a scratch Builder and CompleteAST) and then splice it back over the
// original, exactly as the original's lower_ast moves locs_result back over
// src_root and pops the arenas back to size. It requires srcRoot to be the
// last tree in the pool (true immediately after CompleteAST produced it) and
// dstRoot's subtree to be the last tree before that one was appended.
func (p *Pool) replaceSubtreeFromTail(dstRoot, srcRoot ids.AstNodeId) ids.AstNodeId {
	n := int(p.Node(srcRoot).Header().NextSiblingOffset)

	p.nodes.CopyWithin(int(dstRoot), int(srcRoot), n)
	copy(p.sources[dstRoot:int(dstRoot)+n], p.sources[srcRoot:int(srcRoot)+n])

	newLen := int(dstRoot) + n
	p.nodes.Truncate(newLen)
	p.sources = p.sources[:newLen]

	return dstRoot
}
