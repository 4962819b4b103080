package maincmd

import (
	"fmt"
	"sort"

	"github.com/mna/ilex/lang/ast"
	"github.com/mna/ilex/lang/ids"
)

// Since this module never implements a real scanner/parser (spec.md's
// explicit non-goal), the CLI's input is a small fixed registry of
// hand-assembled programs rather than source files, built the same way
// the package's own tests build fixtures: via ast.Builder.Push, mirroring
// the teacher's compiler/asm_test.go approach of constructing trees
// without going through a parser.
type sample struct {
	name  string
	ident ids.IdentifierId
	build func(b *ast.Builder) ast.Token
}

const (
	identAnswer ids.IdentifierId = ids.FirstNatural + iota
	identFlag
	identTotal
)

var samples = []sample{
	{
		name:  "arithmetic",
		ident: identAnswer,
		build: func(b *ast.Builder) ast.Token {
			left := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 1)
			_ = b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 2)
			return b.Push(left, 1, ast.FlagEmpty, ast.OpAdd)
		},
	},
	{
		name:  "branch",
		ident: identFlag,
		build: func(b *ast.Builder) ast.Token {
			cond := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 1)
			_ = b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 10)
			_ = b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 20)
			return b.Push(cond, 1, ast.FlagEmpty, ast.IfElse)
		},
	},
	{
		name:  "block",
		ident: identTotal,
		build: func(b *ast.Builder) ast.Token {
			one := b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 1)
			x := b.Push(one, 1, ast.FlagEmpty, ast.Definition, uint64(identAnswer), uint64(ids.InvalidGlobalValueId))
			_ = b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.Identifier, uint64(identAnswer), 0)
			return b.Push(x, 1, ast.FlagEmpty, ast.Block)
		},
	},
}

// sampleNames returns every registered sample name, sorted for stable
// usage-text and error-message output.
func sampleNames() []string {
	names := make([]string, len(samples))
	for i, s := range samples {
		names[i] = s.name
	}
	sort.Strings(names)
	return names
}

func findSample(name string) (sample, error) {
	for _, s := range samples {
		if s.name == name {
			return s, nil
		}
	}
	return sample{}, fmt.Errorf("unknown sample %q (available: %v)", name, sampleNames())
}

// buildFile assembles s into a complete one-member File in a fresh
// builder/pool pair, returning the File's root id (what Analyser.Resolve
// expects) and its single Definition member (what Emitter.EmitFileMember
// expects).
func buildFile(s sample) (asts *ast.Pool, fileRoot, member ids.AstNodeId) {
	asts = ast.NewPool(64)
	b := ast.NewBuilder(64)

	value := s.build(b)
	def := b.Push(value, 1, ast.FlagEmpty, ast.Definition, uint64(s.ident), uint64(ids.InvalidGlobalValueId))
	b.Push(def, 1, ast.FlagEmpty, ast.File)

	fileRoot = asts.CompleteAST(b)

	it := asts.Children(fileRoot)
	member, ok := it.Next()
	if !ok {
		panic("maincmd: sample produced a File with no member")
	}
	return asts, fileRoot, member
}
