// Package types implements the structural type pool: every type handled by
// the front end (primitives, pointers, slices, arrays, function signatures
// and user-defined composites) is interned once and referred to everywhere
// else purely by TypeId, per spec §3 ("TypePool") and §4.2.
package types

import "github.com/mna/ilex/lang/ids"

// Tag identifies the structural kind of a type.
type Tag uint8

const (
	TagInvalid Tag = iota

	TagVoid
	TagTypeInfo
	TagBool
	TagDivergent

	TagCompInteger // untyped integer constant
	TagCompFloat   // untyped float constant
	TagInteger
	TagFloat

	TagPtr
	TagSlice
	TagTailArray
	TagVariadic

	TagArray
	TagArrayLiteral

	TagFunc
	TagBuiltin

	TagComposite
)

//nolint:revive
var tagNames = [...]string{
	TagInvalid:      "invalid",
	TagVoid:         "void",
	TagTypeInfo:     "type",
	TagBool:         "bool",
	TagDivergent:    "divergent",
	TagCompInteger:  "comp_integer",
	TagCompFloat:    "comp_float",
	TagInteger:      "integer",
	TagFloat:        "float",
	TagPtr:          "ptr",
	TagSlice:        "slice",
	TagTailArray:    "tail_array",
	TagVariadic:     "variadic",
	TagArray:        "array",
	TagArrayLiteral: "array_literal",
	TagFunc:         "func",
	TagBuiltin:      "builtin",
	TagComposite:    "composite",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "tag(?)"
}

// Disposition distinguishes the four shapes a composite type can take.
type Disposition uint8

const (
	DispositionStruct Disposition = iota
	DispositionUnion
	DispositionSignature
	DispositionBlock
)

var dispositionNames = [...]string{
	DispositionStruct:    "struct",
	DispositionUnion:     "union",
	DispositionSignature: "signature",
	DispositionBlock:     "block",
}

func (d Disposition) String() string {
	if int(d) < len(dispositionNames) {
		return dispositionNames[d]
	}
	return "disposition(?)"
}

// StructureIndexKind discriminates what a TypeName's StructureIndex field
// points at: the structural map directly (Sealed), a live open builder
// (Builder), or another TypeName that hasn't resolved yet (Indirect), per
// spec §3 ("an 'indirect' structure-index kind handles the case where an
// alias is created before its parent is sealed").
type StructureIndexKind uint8

const (
	IndexSealed StructureIndexKind = iota
	IndexBuilder
	IndexIndirect
)

// TypeName is the per-TypeId record every type pool entry owns: identity
// (parent/distinct-root for named and distinct types), where its structural
// data lives, and its declaration site.
type TypeName struct {
	Parent         ids.TypeId
	DistinctRoot   ids.TypeId
	Kind           StructureIndexKind
	StructureIndex uint32
	Source         ids.SourceId
	AliasName      ids.IdentifierId
}

// IsDistinct reports whether n was declared `distinct`: such a type only
// compares equal to another type along its own DistinctRoot chain, never
// by structure alone, per spec §3's TypePool equality invariant.
func (n TypeName) IsDistinct() bool { return n.DistinctRoot.IsValid() }
