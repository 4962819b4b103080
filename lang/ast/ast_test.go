package ast_test

import (
	"testing"

	"github.com/mna/ilex/lang/ast"
	"github.com/mna/ilex/lang/ids"
	"github.com/stretchr/testify/require"
)

// buildSmallBlock builds, via post-order Push calls, the equivalent of a
// two-statement block:
//
//	{
//	    x
//	    42
//	}
func buildSmallBlock(t *testing.T, b *ast.Builder) ast.Token {
	t.Helper()

	identTok := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.Identifier, uint64(ids.FirstNatural), 0)
	b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 42)

	return b.Push(identTok, 1, ast.FlagEmpty, ast.Block)
}

func TestCompleteASTRoundTrip(t *testing.T) {
	b := ast.NewBuilder(64)
	buildSmallBlock(t, b)

	pool := ast.NewPool(64)
	root := pool.CompleteAST(b)

	require.Equal(t, ast.Block, pool.Node(root).Tag())
	require.False(t, pool.Node(root).Header().NoChildren())

	var tags []ast.Tag
	it := pool.Children(root)
	for {
		child, ok := it.Next()
		if !ok {
			break
		}
		tags = append(tags, pool.Node(child).Tag())
	}
	require.Equal(t, []ast.Tag{ast.Identifier, ast.LitInteger}, tags)

	// the scratch builder is emptied by CompleteAST, ready to build again.
	require.Equal(t, 0, b.Len())
}

func TestCompleteASTPanicsOnEmptyBuilder(t *testing.T) {
	b := ast.NewBuilder(8)
	pool := ast.NewPool(8)

	require.Panics(t, func() { pool.CompleteAST(b) })
}

func TestNodeAttachmentBounds(t *testing.T) {
	b := ast.NewBuilder(8)
	b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 7)

	pool := ast.NewPool(8)
	root := pool.CompleteAST(b)

	require.EqualValues(t, 7, pool.Node(root).Attachment(0))
	require.Panics(t, func() { pool.Node(root).Attachment(1) })
}

func TestMultipleTreesShareOnePool(t *testing.T) {
	pool := ast.NewPool(64)

	b := ast.NewBuilder(16)
	b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitVoid)
	firstRoot := pool.CompleteAST(b)

	b.Push(ast.NoChildren, 2, ast.FlagEmpty, ast.LitNil)
	secondRoot := pool.CompleteAST(b)

	require.Equal(t, ast.LitVoid, pool.Node(firstRoot).Tag())
	require.Equal(t, ast.LitNil, pool.Node(secondRoot).Tag())
	require.NotEqual(t, firstRoot, secondRoot)
}
