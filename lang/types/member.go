package types

import "github.com/mna/ilex/lang/ids"

// Member describes one field of a composite type: a struct field, a union
// arm, a function parameter (Signature disposition) or a block-local
// binding (Block disposition), per spec §3.
type Member struct {
	Name ids.IdentifierId

	DeclaredType   ids.TypeId
	HasPendingType bool

	DefaultValue    ids.GlobalValueId
	HasPendingValue bool

	// OffsetOrGlobal is a byte offset within the composite for an ordinary
	// field, or a GlobalValueId when IsGlobal is set.
	OffsetOrGlobal uint32

	IsGlobal bool
	IsPub    bool
	IsMut    bool
	IsUse    bool

	// ResumptionId names the type-check continuation that completes this
	// member's pending type/value, opaque to this package.
	ResumptionId uint32
}

// Pending reports whether m still has an unresolved type or value.
func (m Member) Pending() bool { return m.HasPendingType || m.HasPendingValue }

// memberChunkSize is the fixed width of a builder's member chunks, per
// spec §3 ("members ... are stored in linked chunks of eight").
const memberChunkSize = 8

type memberChunk struct {
	members [memberChunkSize]Member
	count   int
	next    *memberChunk
}
