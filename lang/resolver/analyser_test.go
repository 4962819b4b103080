package resolver_test

import (
	"testing"

	"github.com/mna/ilex/lang/ast"
	"github.com/mna/ilex/lang/diag"
	"github.com/mna/ilex/lang/ids"
	"github.com/mna/ilex/lang/resolver"
	"github.com/stretchr/testify/require"
)

const (
	identX ids.IdentifierId = ids.FirstNatural + iota
	identY
	identA
	identB
	identUndefined
)

func pushIdent(b *ast.Builder, id ids.IdentifierId, src ids.SourceId) ast.Token {
	return b.Push(ast.NoChildren, src, ast.FlagEmpty, ast.Identifier, uint64(id), 0)
}

func pushDefinition(b *ast.Builder, id ids.IdentifierId, src ids.SourceId, value ast.Token) ast.Token {
	return b.Push(value, src, ast.FlagEmpty, ast.Definition, uint64(id), uint64(ids.InvalidGlobalValueId))
}

// findIdentifier returns the (single) Identifier node named want found in
// a preorder walk of root's subtree.
func findIdentifier(pool *ast.Pool, root ids.AstNodeId, want ids.IdentifierId) ast.Node {
	it := pool.PreorderOf(root)
	for {
		id, _, ok := it.Next()
		if !ok {
			break
		}
		n := pool.Node(id)
		if n.Tag() == ast.Identifier && n.IdentifierId() == want {
			return n
		}
	}
	panic("identifier not found")
}

// TestNameResolutionWithinFile builds `let x = 1; let y = x` at file scope
// and asserts the `x` occurrence in y's initialiser resolves to (out=0,
// rank=0), per spec §8.
func TestNameResolutionWithinFile(t *testing.T) {
	pool := ast.NewPool(64)
	b := ast.NewBuilder(64)

	litOne := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 1)
	defX := pushDefinition(b, identX, 1, litOne)
	xRef := pushIdent(b, identX, 2)
	pushDefinition(b, identY, 2, xRef)

	b.Push(defX, 0, ast.FlagEmpty, ast.Block)
	rootId := pool.CompleteAST(b)
	require.True(t, rootId.IsValid())

	var errs diag.ErrorList
	a := resolver.NewAnalyser(pool, diag.NewSink(&errs), nil)
	a.Resolve(rootId)

	require.False(t, a.HasError())
	require.Equal(t, 0, errs.Len())

	xRefNode := findIdentifier(pool, rootId, identX)
	binding := resolver.DecodeNameBinding(xRefNode.NameBindingWord())
	require.Equal(t, resolver.BindingLexical, binding.Kind)
	require.EqualValues(t, 0, binding.Out)
	require.EqualValues(t, 0, binding.Rank)
}

// TestNameResolutionAcrossNestedBlock builds `{ let a = 1; { let b = a } }`
// and asserts `a`'s occurrence in the nested block resolves with out=1,
// per spec §8.
func TestNameResolutionAcrossNestedBlock(t *testing.T) {
	pool := ast.NewPool(64)
	b := ast.NewBuilder(64)

	litOne := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 1)
	defA := pushDefinition(b, identA, 1, litOne)

	aRef := pushIdent(b, identA, 2)
	defB := pushDefinition(b, identB, 2, aRef)
	b.Push(defB, 2, ast.FlagEmpty, ast.Block)

	b.Push(defA, 1, ast.FlagEmpty, ast.Block)
	rootId := pool.CompleteAST(b)
	require.True(t, rootId.IsValid())

	var errs diag.ErrorList
	a := resolver.NewAnalyser(pool, diag.NewSink(&errs), nil)
	a.Resolve(rootId)

	require.False(t, a.HasError())

	aRefNode := findIdentifier(pool, rootId, identA)
	binding := resolver.DecodeNameBinding(aRefNode.NameBindingWord())
	require.Equal(t, resolver.BindingLexical, binding.Kind)
	require.EqualValues(t, 1, binding.Out)
	require.EqualValues(t, 0, binding.Rank)
}

// TestUndefinedNameIsReported builds `let y = x` where `x` is never
// declared, and asserts the analyser reports it and sets its error flag.
func TestUndefinedNameIsReported(t *testing.T) {
	pool := ast.NewPool(64)
	b := ast.NewBuilder(64)

	xRef := pushIdent(b, identUndefined, 1)
	pushDefinition(b, identY, 1, xRef)

	rootId := pool.CompleteAST(b)

	var errs diag.ErrorList
	a := resolver.NewAnalyser(pool, diag.NewSink(&errs), nil)
	a.Resolve(rootId)

	require.True(t, a.HasError())
	require.Equal(t, 1, errs.Len())
}

// TestGlobalLookupIsConsultedOnMiss builds a single bare identifier
// reference with no enclosing Definition and a GlobalLookup that claims
// it, asserting the resulting binding is BindingGlobal.
func TestGlobalLookupIsConsultedOnMiss(t *testing.T) {
	pool := ast.NewPool(16)
	b := ast.NewBuilder(16)

	xRef := pushIdent(b, identX, 1)
	b.Push(xRef, 1, ast.FlagEmpty, ast.Block)
	rootId := pool.CompleteAST(b)

	var errs diag.ErrorList
	globals := func(name ids.IdentifierId) (uint32, uint32, bool) {
		if name == identX {
			return 3, 7, true
		}
		return 0, 0, false
	}
	a := resolver.NewAnalyser(pool, diag.NewSink(&errs), globals)
	a.Resolve(rootId)

	require.False(t, a.HasError())

	xRefNode := findIdentifier(pool, rootId, identX)
	binding := resolver.DecodeNameBinding(xRefNode.NameBindingWord())
	require.Equal(t, resolver.BindingGlobal, binding.Kind)
	require.EqualValues(t, 3, binding.GlobalFileIndex)
	require.EqualValues(t, 7, binding.Rank)
}
