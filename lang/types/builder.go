package types

import (
	"fmt"
	"strings"

	"github.com/mna/ilex/lang/ids"
)

// builder is the live, mutable backing store for an open composite type:
// a TypeId whose members are still being declared and/or resolved. Once
// sealed with no members pending, its contents are hashed into the same
// structural map non-composite types use and the builder is discarded,
// per spec §4.2.2.
type builder struct {
	id          ids.TypeId
	globalScope bool
	disposition Disposition
	source      ids.SourceId
	fixed       bool

	sealed bool
	count  int
	head   *memberChunk
	tail   *memberChunk

	names        map[ids.IdentifierId]int
	pendingCount int

	size, align, stride uint32
}

func (b *builder) tag() Tag { return TagComposite }

func (b *builder) memberAt(rank int) Member {
	chunk, offset := b.chunkForRank(rank)
	return chunk.members[offset]
}

func (b *builder) setMemberAt(rank int, m Member) {
	chunk, offset := b.chunkForRank(rank)
	chunk.members[offset] = m
}

func (b *builder) chunkForRank(rank int) (*memberChunk, int) {
	if rank < 0 || rank >= b.count {
		panic("types: member rank out of range")
	}
	chunk := b.head
	for rank >= memberChunkSize {
		chunk = chunk.next
		rank -= memberChunkSize
	}
	return chunk, rank
}

func (b *builder) collectMembers() []Member {
	out := make([]Member, 0, b.count)
	for c := b.head; c != nil; c = c.next {
		out = append(out, c.members[:c.count]...)
	}
	return out
}

// CreateComposite allocates a builder and returns an open composite TypeId,
// per spec §4.2.1.
func (p *Pool) CreateComposite(source ids.SourceId, globalScope bool, disposition Disposition, initialCapacity int, fixed bool) ids.TypeId {
	id := p.intern(source, IndexBuilder, 0)
	p.builders[id] = &builder{
		id:          id,
		globalScope: globalScope,
		disposition: disposition,
		source:      source,
		fixed:       fixed,
		names:       make(map[ids.IdentifierId]int, initialCapacity),
	}
	return id
}

func (p *Pool) openBuilder(id ids.TypeId) *builder {
	id = p.resolveIndirect(id)
	b, ok := p.builders[id]
	if !ok {
		panic("types: type is not an open composite")
	}
	return b
}

// AddCompositeMember appends m to id's builder, returning its rank. It
// panics if id is not an open composite, is already sealed to new members,
// or m.Name collides with a member already present, per spec §4.2.2.
func (p *Pool) AddCompositeMember(id ids.TypeId, m Member) int {
	b := p.openBuilder(id)
	if b.sealed {
		panic("types: composite is sealed, no new members may be added")
	}
	if _, exists := b.names[m.Name]; exists {
		panic("types: duplicate composite member name")
	}

	if b.tail == nil || b.tail.count == memberChunkSize {
		chunk := &memberChunk{}
		if b.tail != nil {
			b.tail.next = chunk
		}
		if b.head == nil {
			b.head = chunk
		}
		b.tail = chunk
	}

	rank := b.count
	b.tail.members[b.tail.count] = m
	b.tail.count++
	b.count++
	b.names[m.Name] = rank

	if m.Pending() {
		b.pendingCount++
	}
	return rank
}

// SealComposite closes addition of new members to id. For Signature/Block
// dispositions size/align/stride must be zero. If every member is already
// resolved, the composite is hashed into the structural map immediately;
// otherwise the builder stays live until SetCompositeMemberInfo resolves
// the rest, per spec §4.2.2.
func (p *Pool) SealComposite(id ids.TypeId, size, align, stride uint32) {
	b := p.openBuilder(id)
	if b.sealed {
		panic("types: composite already sealed")
	}

	if (b.disposition == DispositionSignature || b.disposition == DispositionBlock) &&
		(size != 0 || align != 0 || stride != 0) {
		panic("types: size/align/stride must be zero for Signature/Block composites")
	}

	b.sealed = true
	b.size, b.align, b.stride = size, align, stride

	if b.pendingCount == 0 {
		p.finalizeComposite(b.id, b)
	}
}

// SetCompositeMemberInfo resolves a pending type and/or value for the
// member at rank. Resolving an already-resolved field is a programming
// error, per spec §4.2.2 ("idempotency is disallowed").
func (p *Pool) SetCompositeMemberInfo(id ids.TypeId, rank int, hasType bool, typ ids.TypeId, hasValue bool, value ids.GlobalValueId) {
	b := p.openBuilder(id)

	m := b.memberAt(rank)
	wasPending := m.Pending()

	if hasType {
		if !m.HasPendingType {
			panic("types: member type already resolved")
		}
		m.DeclaredType = typ
		m.HasPendingType = false
	}
	if hasValue {
		if !m.HasPendingValue {
			panic("types: member value already resolved")
		}
		m.DefaultValue = value
		m.HasPendingValue = false
	}
	b.setMemberAt(rank, m)

	if wasPending && !m.Pending() {
		b.pendingCount--
	}

	if b.sealed && b.pendingCount == 0 {
		p.finalizeComposite(b.id, b)
	}
}

// finalizeComposite moves b's contents into the content-addressed
// structural table, switching id's TypeName from IndexBuilder to
// IndexSealed, and releases the builder.
func (p *Pool) finalizeComposite(id ids.TypeId, b *builder) {
	members := b.collectMembers()

	idx := p.appendSealed(sealedRecord{
		tag:         TagComposite,
		disposition: b.disposition,
		members:     members,
		size:        b.size,
		align:       b.align,
		stride:      b.stride,
	})

	n := p.names[id]
	n.Kind = IndexSealed
	n.StructureIndex = idx
	p.names[id] = n

	key := compositeKey(b.disposition, members)
	if _, exists := p.composite.Get(key); !exists {
		p.composite.Put(key, id)
	}

	delete(p.builders, id)
}

func compositeKey(disposition Disposition, members []Member) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", disposition)
	for _, m := range members {
		fmt.Fprintf(&b, "|%d:%d:%d:%v:%v:%v:%v", m.Name, m.DeclaredType, m.OffsetOrGlobal, m.IsGlobal, m.IsPub, m.IsMut, m.IsUse)
	}
	return b.String()
}
