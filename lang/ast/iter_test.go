package ast_test

import (
	"testing"

	"github.com/mna/ilex/lang/ast"
	"github.com/stretchr/testify/require"
)

// buildNestedTree builds, via post-order Push calls, the equivalent of:
//
//	{
//	    -x
//	    { 1; 2 }
//	}
func buildNestedTree(b *ast.Builder) {
	identTok := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.Identifier, 0, 0)
	negTok := b.Push(identTok, 1, ast.FlagEmpty, ast.UOpNeg)

	litOneTok := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 1)
	b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 2)
	b.Push(litOneTok, 1, ast.FlagEmpty, ast.Block)

	b.Push(negTok, 1, ast.FlagEmpty, ast.Block)
}

func TestPreorderDescendants(t *testing.T) {
	b := ast.NewBuilder(64)
	buildNestedTree(b)
	pool := ast.NewPool(64)
	root := pool.CompleteAST(b)

	type step struct {
		tag   ast.Tag
		depth int
	}
	var got []step

	it := pool.PreorderOf(root)
	for {
		node, depth, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, step{pool.Node(node).Tag(), depth})
	}

	require.Equal(t, []step{
		{ast.UOpNeg, 0},
		{ast.Identifier, 1},
		{ast.Block, 0},
		{ast.LitInteger, 1},
		{ast.LitInteger, 1},
	}, got)
}

func TestPostorderDescendants(t *testing.T) {
	b := ast.NewBuilder(64)
	buildNestedTree(b)
	pool := ast.NewPool(64)
	root := pool.CompleteAST(b)

	var tags []ast.Tag
	it := pool.PostorderOf(root)
	for {
		node, _, ok := it.Next()
		if !ok {
			break
		}
		tags = append(tags, pool.Node(node).Tag())
	}

	require.Equal(t, []ast.Tag{
		ast.Identifier, ast.UOpNeg, ast.LitInteger, ast.LitInteger, ast.Block,
	}, tags)
}

func TestDirectChildrenSkipsGrandchildren(t *testing.T) {
	b := ast.NewBuilder(64)
	buildNestedTree(b)
	pool := ast.NewPool(64)
	root := pool.CompleteAST(b)

	var tags []ast.Tag
	it := pool.Children(root)
	for {
		child, ok := it.Next()
		if !ok {
			break
		}
		tags = append(tags, pool.Node(child).Tag())
	}

	require.Equal(t, []ast.Tag{ast.UOpNeg, ast.Block}, tags)
}

func TestChildrenIteratorIsFreelyCopyable(t *testing.T) {
	b := ast.NewBuilder(64)
	buildNestedTree(b)
	pool := ast.NewPool(64)
	root := pool.CompleteAST(b)

	it := pool.Children(root)
	first, ok := it.Next()
	require.True(t, ok)

	snapshot := it
	second, ok := it.Next()
	require.True(t, ok)

	// advancing the original further must not affect the snapshot taken
	// after the first Next call.
	snapshotSecond, ok := snapshot.Next()
	require.True(t, ok)
	require.Equal(t, second, snapshotSecond)
	require.NotEqual(t, first, second)
}
