// Package ids defines the small integer id types shared by every core of
// the compiler front-end: the AST pool, the type pool, the opcode pool and
// the lexical analyser all refer to each other's data exclusively by id,
// never by address (see the "arena + index" design note).
package ids

// AstNodeId is an index of a node in an AstPool's canonical (preorder)
// node array. It is a word offset, not a byte offset.
type AstNodeId uint32

// InvalidAstNodeId denotes "no node".
const InvalidAstNodeId AstNodeId = 0xffffffff

// IsValid reports whether id refers to a real node.
func (id AstNodeId) IsValid() bool { return id != InvalidAstNodeId }

// SourceId is an opaque handle into the consolidated source byte space. It
// is invertible to (filepath, line, column, context) by whatever component
// owns the source table; the cores themselves never interpret it.
type SourceId uint32

// InvalidSourceId denotes the hard-coded prelude, which has no real source
// location.
const InvalidSourceId SourceId = 0

// IsValid reports whether id refers to a real source location.
func (id SourceId) IsValid() bool { return id != InvalidSourceId }

// TypeId indexes a TypeName record in a TypePool.
type TypeId uint32

// InvalidTypeId denotes "no type" / a type-check failure.
const InvalidTypeId TypeId = 0xffffffff

// IsValid reports whether id refers to a real type.
func (id TypeId) IsValid() bool { return id != InvalidTypeId }

// IdentifierId names an identifier, interned elsewhere (the identifier
// interner is an out-of-scope collaborator; see lang/iface). The low ids
// are reserved for lowering-pass synthetic definitions.
type IdentifierId uint32

const (
	// InvalidIdentifierId denotes a failed lookup / unresolved name.
	InvalidIdentifierId IdentifierId = 0

	// FirstSynth is the single reserved synthetic id used by the
	// set-operation lowering pass for its temporary "_u" binding.
	FirstSynth IdentifierId = 1

	// SecondSynth is the first of the synthetic ids available to the
	// value-to-location lowering pass.
	SecondSynth IdentifierId = 2

	// FirstNatural is the first id available for identifiers that actually
	// appear in source text. Ids in [SecondSynth, FirstNatural) are reserved
	// for lowering-pass synthetic definitions, giving a single block up to
	// FirstNatural-SecondSynth distinct synthetic names.
	FirstNatural IdentifierId = 65536
)

// MaxSyntheticNamesPerBlock is the number of synthetic names the
// value-to-location lowering pass may mint in a single block before it is
// a fatal, unrecoverable condition.
const MaxSyntheticNamesPerBlock = uint32(FirstNatural - SecondSynth)

// OpcodeId addresses a byte offset within an OpcodePool's instruction
// stream. It is the analogue of AstNodeId for compiled code.
type OpcodeId uint32

// InvalidOpcodeId is used as a fixup placeholder before the destination is
// known.
const InvalidOpcodeId OpcodeId = 0xffffffff

// IsValid reports whether id refers to an already-patched opcode address.
func (id OpcodeId) IsValid() bool { return id != InvalidOpcodeId }

// GlobalValueId references an entry in the (out of scope) global-value
// pool, e.g. the default value or storage slot of a top-level definition.
type GlobalValueId uint32

// InvalidGlobalValueId denotes "not a global".
const InvalidGlobalValueId GlobalValueId = 0xffffffff

// ClosureId references an entry in the (out of scope) closure pool,
// produced when a composite type or function captures enclosing state.
type ClosureId uint32

// InvalidClosureId denotes "no closure".
const InvalidClosureId ClosureId = 0xffffffff

// MaxAstDepth bounds the depth of any AST the builder, the lowering passes
// and the iteration contracts will process; exceeding it is fatal.
const MaxAstDepth = 128
