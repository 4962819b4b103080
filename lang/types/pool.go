package types

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"
	"github.com/mna/ilex/lang/ids"
)

// Pool owns every TypeName ever interned for a compilation run. Structural
// data for non-composites is content-addressed (spec §3: "deduplicated in
// a hash map keyed by (tag, bytes)"); composites are either sealed into the
// same structural map or left open in a live builder.
type Pool struct {
	names      []TypeName
	sealedData []sealedRecord

	simple    *swiss.Map[Tag, ids.TypeId]
	numeric   *swiss.Map[numericKey, ids.TypeId]
	reference *swiss.Map[referenceKey, ids.TypeId]
	array     *swiss.Map[arrayKey, ids.TypeId]
	signature *swiss.Map[string, ids.TypeId]
	composite *swiss.Map[string, ids.TypeId]

	builders map[ids.TypeId]*builder
}

// NewPool returns an empty type pool sized for roughly capacity distinct
// types.
func NewPool(capacity int) *Pool {
	c := uint32(capacity)
	return &Pool{
		names:     make([]TypeName, 0, capacity),
		simple:    swiss.NewMap[Tag, ids.TypeId](c),
		numeric:   swiss.NewMap[numericKey, ids.TypeId](c),
		reference: swiss.NewMap[referenceKey, ids.TypeId](c),
		array:     swiss.NewMap[arrayKey, ids.TypeId](c),
		signature: swiss.NewMap[string, ids.TypeId](c),
		composite: swiss.NewMap[string, ids.TypeId](c),
		builders:  make(map[ids.TypeId]*builder),
	}
}

// Name returns the TypeName record for id.
func (p *Pool) Name(id ids.TypeId) TypeName { return p.names[id] }

// Tag returns the structural tag of id, following builder/indirect
// structure-index indirection as needed.
func (p *Pool) Tag(id ids.TypeId) Tag {
	id = p.resolveIndirect(id)
	n := p.names[id]
	if n.Kind == IndexBuilder {
		return p.builders[id].tag()
	}
	return p.sealedTag(n.StructureIndex)
}

// CreateIndirectAlias interns a type alias that refers to parent before
// parent has sealed, per spec §3 ("an 'indirect' structure-index kind
// handles the case where an alias is created before its parent is
// sealed"). Every query on the returned TypeId transparently chases
// through to parent's current state; there is no separate "short-circuit
// the first time the parent resolves" rewrite step, since resolving on
// every query is just as cheap and needs no bookkeeping of who points where.
func (p *Pool) CreateIndirectAlias(source ids.SourceId, parent ids.TypeId) ids.TypeId {
	return p.intern(source, IndexIndirect, uint32(parent))
}

// SetDistinctRoot marks id as a `distinct` type rooted at root
// (conventionally id itself for a freshly declared distinct type, or
// another distinct type's own root when this is an alias of it). Distinct
// types never compare structurally equal to anything outside their root's
// chain, per spec §4.2.3.
func (p *Pool) SetDistinctRoot(id, root ids.TypeId) {
	n := p.names[id]
	n.DistinctRoot = root
	p.names[id] = n
}

// resolveIndirect follows a chain of indirect aliases down to the TypeId
// that actually owns a builder or a sealed structural entry.
func (p *Pool) resolveIndirect(id ids.TypeId) ids.TypeId {
	for p.names[id].Kind == IndexIndirect {
		id = ids.TypeId(p.names[id].StructureIndex)
	}
	return id
}

func (p *Pool) intern(source ids.SourceId, kind StructureIndexKind, structureIndex uint32) ids.TypeId {
	id := ids.TypeId(len(p.names))
	p.names = append(p.names, TypeName{
		Parent:       ids.InvalidTypeId,
		DistinctRoot: ids.InvalidTypeId,
		Kind:         kind,
		StructureIndex: structureIndex,
		Source:       source,
	})
	return id
}

// sealedRecord is the structural payload for any non-composite type (and,
// once resolved, a composite). record fields not used by a given tag are
// left zero.
type sealedRecord struct {
	tag       Tag
	bits      uint8
	isSigned  bool
	referenced ids.TypeId
	isOpt     bool
	isMulti   bool
	isMut     bool
	element   ids.TypeId
	count     uint32
	params    []ids.TypeId
	ret       ids.TypeId
	isProc    bool
	disposition Disposition
	members   []Member

	// size/align/stride are only meaningful for composites, set once by
	// SealComposite; other tags compute their metrics structurally, see
	// metrics.go.
	size, align, stride uint32
}

// CreateSimple interns a zero-data primitive type (Void, TypeInfo, Bool,
// Divergent), per spec §4.2.1.
func (p *Pool) CreateSimple(source ids.SourceId, tag Tag) ids.TypeId {
	if id, ok := p.simple.Get(tag); ok {
		return id
	}
	idx := p.appendSealed(sealedRecord{tag: tag})
	id := p.intern(source, IndexSealed, idx)
	p.simple.Put(tag, id)
	return id
}

type numericKey struct {
	tag      Tag
	bits     uint8
	isSigned bool
}

// CreateNumeric interns an Integer or Float type. bits must be one of
// {8,16,32,64} for Integer and {32,64} for Float, per spec §4.2.1.
func (p *Pool) CreateNumeric(source ids.SourceId, tag Tag, bits uint8, isSigned bool) ids.TypeId {
	switch tag {
	case TagInteger:
		if bits != 8 && bits != 16 && bits != 32 && bits != 64 {
			panic("types: invalid integer width")
		}
	case TagFloat:
		if bits != 32 && bits != 64 {
			panic("types: invalid float width")
		}
	default:
		panic("types: CreateNumeric called with a non-numeric tag")
	}

	key := numericKey{tag: tag, bits: bits, isSigned: isSigned}
	if id, ok := p.numeric.Get(key); ok {
		return id
	}
	idx := p.appendSealed(sealedRecord{tag: tag, bits: bits, isSigned: isSigned})
	id := p.intern(source, IndexSealed, idx)
	p.numeric.Put(key, id)
	return id
}

type referenceKey struct {
	tag        Tag
	referenced ids.TypeId
	isOpt      bool
	isMulti    bool
	isMut      bool
}

// CreateReference interns a Ptr/Slice/TailArray/Variadic type, per spec
// §4.2.1.
func (p *Pool) CreateReference(source ids.SourceId, tag Tag, referenced ids.TypeId, isOpt, isMulti, isMut bool) ids.TypeId {
	key := referenceKey{tag: tag, referenced: referenced, isOpt: isOpt, isMulti: isMulti, isMut: isMut}
	if id, ok := p.reference.Get(key); ok {
		return id
	}
	idx := p.appendSealed(sealedRecord{tag: tag, referenced: referenced, isOpt: isOpt, isMulti: isMulti, isMut: isMut})
	id := p.intern(source, IndexSealed, idx)
	p.reference.Put(key, id)
	return id
}

type arrayKey struct {
	tag     Tag
	element ids.TypeId
	count   uint32
}

// CreateArray interns an Array/ArrayLiteral type, per spec §4.2.1.
func (p *Pool) CreateArray(source ids.SourceId, tag Tag, element ids.TypeId, count uint32) ids.TypeId {
	key := arrayKey{tag: tag, element: element, count: count}
	if id, ok := p.array.Get(key); ok {
		return id
	}
	idx := p.appendSealed(sealedRecord{tag: tag, element: element, count: count})
	id := p.intern(source, IndexSealed, idx)
	p.array.Put(key, id)
	return id
}

// CreateSignature interns a Func/Builtin type. Unbound parameter lists or
// return types (generic templates not yet instantiated) are not content
// addressed, since two textually distinct unbound signatures must never be
// considered the same type.
func (p *Pool) CreateSignature(source ids.SourceId, tag Tag, params []ids.TypeId, ret ids.TypeId, isProc, paramsUnbound, returnUnbound bool, partialValue ids.GlobalValueId) ids.TypeId {
	rec := sealedRecord{tag: tag, params: append([]ids.TypeId(nil), params...), ret: ret, isProc: isProc}

	if paramsUnbound || returnUnbound {
		idx := p.appendSealed(rec)
		return p.intern(source, IndexSealed, idx)
	}

	key := signatureKey(tag, params, ret, isProc)
	if id, ok := p.signature.Get(key); ok {
		return id
	}
	idx := p.appendSealed(rec)
	id := p.intern(source, IndexSealed, idx)
	p.signature.Put(key, id)
	return id
}

func signatureKey(tag Tag, params []ids.TypeId, ret ids.TypeId, isProc bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%d|%t", tag, ret, isProc)
	for _, p := range params {
		fmt.Fprintf(&b, "|%d", p)
	}
	return b.String()
}

// appendSealed stores rec in the flat structural table, returning the
// index that a TypeName's StructureIndex field (Kind == IndexSealed) will
// reference.
func (p *Pool) appendSealed(rec sealedRecord) uint32 {
	idx := uint32(len(p.sealedData))
	p.sealedData = append(p.sealedData, rec)
	return idx
}

func (p *Pool) sealedTag(idx uint32) Tag { return p.sealedData[idx].tag }
