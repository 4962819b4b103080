package ast

import "github.com/mna/ilex/lang/ids"

// The three iteration contracts of spec §4.1.5 are non-mutating,
// single-pass, forward-only, and freely copyable: each is a plain struct
// of fixed-size arrays and scalars, so assigning one copies a fully
// independent cursor. All three respect the MaxAstDepth bound.

// DirectChildren iterates the direct children of node in source order,
// skipping grandchildren.
type DirectChildren struct {
	pool *Pool
	cur  ids.AstNodeId
	done bool
}

// Children returns an iterator over node's direct children.
func (p *Pool) Children(node ids.AstNodeId) DirectChildren {
	h := p.Node(node).Header()
	if h.NoChildren() {
		return DirectChildren{pool: p, done: true}
	}
	return DirectChildren{pool: p, cur: p.Node(node).FirstChild()}
}

// Next advances the iterator, returning the next child and true, or the
// zero value and false once exhausted.
func (c *DirectChildren) Next() (ids.AstNodeId, bool) {
	if c.done {
		return 0, false
	}
	result := c.cur
	h := c.pool.Node(result).Header()
	if h.LastSibling() {
		c.done = true
	} else {
		c.cur = c.pool.Node(result).NextSibling()
	}
	return result, true
}

// PreorderDescendants performs a depth-first preorder walk of a node's
// descendants (the node itself is not yielded), yielding (node, depth)
// pairs with depth 0 for direct children.
type PreorderDescendants struct {
	pool    *Pool
	cur     ids.AstNodeId
	limit   ids.AstNodeId
	done    bool
	top     int
	bounds  [ids.MaxAstDepth]ids.AstNodeId
}

// PreorderOf returns a preorder iterator over node's descendants.
func (p *Pool) PreorderOf(node ids.AstNodeId) PreorderDescendants {
	n := p.Node(node)
	h := n.Header()
	if h.NoChildren() {
		return PreorderDescendants{pool: p, done: true}
	}
	return PreorderDescendants{pool: p, cur: n.FirstChild(), limit: n.End()}
}

// Next advances the iterator.
func (it *PreorderDescendants) Next() (ids.AstNodeId, int, bool) {
	if it.done || it.cur == it.limit {
		return 0, 0, false
	}
	for it.top > 0 && it.bounds[it.top-1] == it.cur {
		it.top--
	}
	result := it.cur
	depth := it.top
	h := it.pool.Node(result).Header()
	if !h.NoChildren() {
		if it.top >= ids.MaxAstDepth {
			panic("ast: maximum AST depth exceeded during preorder traversal")
		}
		it.bounds[it.top] = it.pool.Node(result).End()
		it.top++
		it.cur = it.pool.Node(result).FirstChild()
	} else {
		it.cur = it.pool.Node(result).End()
	}
	return result, depth, true
}

// PostorderDescendants performs a depth-first postorder walk of a node's
// descendants (the node itself is not yielded), yielding (node, depth)
// pairs with depth 0 for direct children.
type PostorderDescendants struct {
	pool  *Pool
	top   int
	frame [ids.MaxAstDepth]postorderFrame
}

type postorderFrame struct {
	node        ids.AstNodeId
	nextChild   ids.AstNodeId
	hasNext     bool
}

// PostorderOf returns a postorder iterator over node's descendants.
func (p *Pool) PostorderOf(node ids.AstNodeId) PostorderDescendants {
	var it PostorderDescendants
	it.pool = p
	n := p.Node(node)
	if n.Header().NoChildren() {
		return it
	}
	first := n.FirstChild()
	it.frame[0] = postorderFrame{node: first, nextChild: 0, hasNext: false}
	it.setupDescend(0)
	it.top = 1
	return it
}

// setupDescend records, for the frame at index i, the cursor to its own
// first child (if any) so Next() knows whether to keep descending.
func (it *PostorderDescendants) setupDescend(i int) {
	n := it.pool.Node(it.frame[i].node)
	h := n.Header()
	if h.NoChildren() {
		it.frame[i].hasNext = false
		return
	}
	it.frame[i].nextChild = n.FirstChild()
	it.frame[i].hasNext = true
}

// Next advances the iterator.
func (it *PostorderDescendants) Next() (ids.AstNodeId, int, bool) {
	for it.top > 0 {
		i := it.top - 1
		f := &it.frame[i]
		if f.hasNext {
			child := f.nextChild
			ch := it.pool.Node(child).Header()
			if ch.LastSibling() {
				f.hasNext = false
			} else {
				f.nextChild = it.pool.Node(child).NextSibling()
			}

			if it.top >= ids.MaxAstDepth {
				panic("ast: maximum AST depth exceeded during postorder traversal")
			}
			it.frame[it.top] = postorderFrame{node: child}
			it.setupDescend(it.top)
			it.top++
			continue
		}

		result := f.node
		depth := i
		if i == 0 && !it.pool.Node(result).Header().LastSibling() {
			// a direct child is done: continue with its next sibling
			it.frame[0] = postorderFrame{node: it.pool.Node(result).NextSibling()}
			it.setupDescend(0)
		} else {
			it.top--
		}
		return result, depth, true
	}
	return 0, 0, false
}
