package ast_test

import (
	"testing"

	"github.com/mna/ilex/lang/ast"
	"github.com/mna/ilex/lang/ids"
	"github.com/stretchr/testify/require"
)

func preorderTags(t *testing.T, pool *ast.Pool, root ids.AstNodeId) []ast.Tag {
	t.Helper()

	tags := []ast.Tag{pool.Node(root).Tag()}
	it := pool.PreorderOf(root)
	for {
		node, _, ok := it.Next()
		if !ok {
			break
		}
		tags = append(tags, pool.Node(node).Tag())
	}
	return tags
}

// TestLowerSetOpsExpandsCompoundAssignment builds `x += 1` and checks that
// LowerSetOps expands it to
//
//	{
//	    let _u = x.&
//	    _u.* = _u.* + 1
//	}
func TestLowerSetOpsExpandsCompoundAssignment(t *testing.T) {
	b := ast.NewBuilder(64)
	identTok := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.Identifier, 10, 0)
	litTok := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 1)
	b.Push(identTok, 1, ast.FlagEmpty, ast.OpSetAdd)
	_ = litTok

	pool := ast.NewPool(64)
	root := pool.CompleteAST(b)
	require.Equal(t, ast.OpSetAdd, pool.Node(root).Tag())

	newRoot := pool.LowerSetOps(root)
	require.Equal(t, root, newRoot)

	require.Equal(t, []ast.Tag{
		ast.Block,
		ast.Definition, ast.UOpAddr, ast.Identifier,
		ast.OpSet,
		ast.UOpDeref, ast.Identifier,
		ast.OpAdd, ast.UOpDeref, ast.Identifier, ast.LitInteger,
	}, preorderTags(t, pool, newRoot))

	// both the synthetic definition and both synthetic references use the
	// single reserved slot FirstSynth.
	defNode, ok := firstChildWithTag(pool, newRoot, ast.Definition)
	require.True(t, ok)
	require.EqualValues(t, ids.FirstSynth, defNode.Attachment(0))
}

// TestLowerLocationsOutlinesNonLocationOperand builds `&5` wrapped in a
// single-statement block and checks that LowerLocations hoists the literal
// into a preceding synthetic binding.
func TestLowerLocationsOutlinesNonLocationOperand(t *testing.T) {
	b := ast.NewBuilder(64)
	litTok := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 5)
	addrTok := b.Push(litTok, 1, ast.FlagEmpty, ast.UOpAddr)
	b.Push(addrTok, 1, ast.FlagEmpty, ast.Block)

	pool := ast.NewPool(64)
	root := pool.CompleteAST(b)

	newRoot := pool.LowerLocations(root)
	require.Equal(t, root, newRoot)

	require.Equal(t, []ast.Tag{
		ast.Block,
		ast.Definition, ast.LitInteger,
		ast.UOpAddr, ast.Identifier,
	}, preorderTags(t, pool, newRoot))

	defNode, ok := firstChildWithTag(pool, newRoot, ast.Definition)
	require.True(t, ok)
	require.EqualValues(t, ids.SecondSynth, defNode.Attachment(0))
}

// TestLowerLocationsLeavesLocationOperandsAlone checks that an operand
// which already provides a location (a bare identifier) is left untouched.
func TestLowerLocationsLeavesLocationOperandsAlone(t *testing.T) {
	b := ast.NewBuilder(64)
	identTok := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.Identifier, 99, 0)
	addrTok := b.Push(identTok, 1, ast.FlagEmpty, ast.UOpAddr)
	b.Push(addrTok, 1, ast.FlagEmpty, ast.Block)

	pool := ast.NewPool(64)
	root := pool.CompleteAST(b)

	newRoot := pool.LowerLocations(root)

	require.Equal(t, []ast.Tag{
		ast.Block,
		ast.UOpAddr, ast.Identifier,
	}, preorderTags(t, pool, newRoot))
}

func firstChildWithTag(pool *ast.Pool, node ids.AstNodeId, tag ast.Tag) (ast.Node, bool) {
	it := pool.PreorderOf(node)
	for {
		id, _, ok := it.Next()
		if !ok {
			return ast.Node{}, false
		}
		if pool.Node(id).Tag() == tag {
			return pool.Node(id), true
		}
	}
}
