// Package iface specifies, as interfaces only, the collaborators spec.md
// §1 and §6 place out of scope: the command-line driver's dependencies,
// the config reader, the source-file reader, the identifier interner, the
// closure pool, the global-value pool, and the raw tokeniser/parser. None
// of them is implemented here beyond what is needed to exercise the four
// in-scope cores in tests.
package iface

import (
	"context"

	"github.com/mna/ilex/lang/ids"
)

// SourceFile is a complete, immutable byte range handed to the AST
// builder. Per spec §5, the core treats a SourceFile as already fully
// read; any asynchronous prefetching happens entirely inside the
// SourceReader implementation.
type SourceFile struct {
	Path string
	Text []byte
}

// SourceReader reads whole source files. Implementations may prefetch
// asynchronously; from the core's point of view ReadSourceFile always
// returns a complete byte range.
type SourceReader interface {
	ReadSourceFile(ctx context.Context, path string) (SourceFile, error)
}

// IdentifierInterner maps identifier spellings to stable IdentifierIds and
// back. The real interner lives outside this module's scope; the cores
// only ever hold an IdentifierId.
type IdentifierInterner interface {
	Intern(name string) ids.IdentifierId
	Name(id ids.IdentifierId) (string, bool)
}

// ClosurePool interns the set of free variables captured by a function or
// composite-type literal, returning an opaque id the opcode pool can embed
// in a MAKEFUNC-equivalent instruction.
type ClosurePool interface {
	InternClosure(freeVars []ids.IdentifierId) ids.ClosureId
}

// GlobalValuePool interns compile-time-evaluated values (e.g. a
// definition's default value, or a composite member's default), returning
// an opaque id the type pool and opcode pool can embed.
type GlobalValuePool interface {
	InternGlobal(bytes []byte) ids.GlobalValueId
}

// Tokenizer produces a token stream for a SourceFile. Out of scope: no
// implementation is provided.
type Tokenizer interface {
	Tokenize(ctx context.Context, file SourceFile) ([]Token, error)
}

// Token is the minimal shape a real tokeniser would need to hand to a
// parser; it is not otherwise used by the four in-scope cores.
type Token struct {
	Kind   int
	Source ids.SourceId
	Lit    string
}

// Parser accepts a raw tokeniser/parser (out of scope) and hands pushed
// nodes to an *ast.Builder in post-order, exactly as spec §4.1.1
// describes. It is satisfied by whatever real parser is plugged in; this
// module only defines the shape.
type Parser interface {
	Parse(ctx context.Context, tokens []Token, push PushFunc) error
}

// PushFunc is the shape of ast.Builder.Push, expressed without importing
// the ast package (which would create an import cycle from a parser that
// needs both).
type PushFunc func(firstChild uint32, src ids.SourceId, flags uint8, tag uint8, attachment ...uint64) uint32
