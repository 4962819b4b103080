package types

import "github.com/mna/ilex/lang/ids"

// IsEqual reports whether a and b are the same type: their TypeNames refer
// to the same structural entry and neither is distinct, or both sit under
// the same distinct root, per spec §4.2.3.
func (p *Pool) IsEqual(a, b ids.TypeId) bool {
	// distinctness is a property of the requested TypeId itself, checked
	// before following any indirect alias down to its structural parent.
	origA, origB := p.names[a], p.names[b]
	if origA.IsDistinct() || origB.IsDistinct() {
		return origA.DistinctRoot.IsValid() && origA.DistinctRoot == origB.DistinctRoot
	}

	a, b = p.resolveIndirect(a), p.resolveIndirect(b)
	if a == b {
		return true
	}

	an, bn := p.names[a], p.names[b]
	if an.Kind != IndexSealed || bn.Kind != IndexSealed {
		// open composites (and unbound signatures) are only equal to
		// themselves.
		return false
	}
	return an.StructureIndex == bn.StructureIndex
}

// canonical returns the smaller of a and b, per spec §4.2.3 ("the numeric
// id of the less-indexed type is the canonical form used when returning a
// common type").
func canonical(a, b ids.TypeId) ids.TypeId {
	if a < b {
		return a
	}
	return b
}

// CanImplicitlyConvertFromTo reports whether a value of type from may be
// used where a value of type to is expected without an explicit cast, per
// spec §4.2.3. The allowed directions are exactly: CompInteger->Integer,
// CompFloat->Float, Array->Slice, mut->const (slice/ptr), multi Ptr->Ptr,
// Ptr->?Ptr, Divergent->anything, anything->TypeInfo. Pointer conversions
// may chain in a single call (e.g. `[*]mut u32` -> `?u32`).
func (p *Pool) CanImplicitlyConvertFromTo(from, to ids.TypeId) bool {
	if p.IsEqual(from, to) {
		return true
	}

	fromTag, toTag := p.Tag(from), p.Tag(to)

	if fromTag == TagDivergent {
		return true
	}
	if toTag == TagTypeInfo {
		return true
	}
	if fromTag == TagCompInteger && toTag == TagInteger {
		return true
	}
	if fromTag == TagCompFloat && toTag == TagFloat {
		return true
	}

	if fromTag == TagArray && toTag == TagSlice {
		fromElem, _ := p.ArrayInfo(from)
		toElem, _, _, _ := p.ReferenceInfo(to)
		return p.IsEqual(fromElem, toElem)
	}

	if (fromTag == TagPtr || fromTag == TagSlice) && fromTag == toTag {
		fromRef, fromOpt, fromMulti, fromMut := p.ReferenceInfo(from)
		toRef, toOpt, toMulti, toMut := p.ReferenceInfo(to)

		if !p.IsEqual(fromRef, toRef) {
			return false
		}

		// chain zero or more of: mut->const, multi->single, non-opt->opt.
		okMut := fromMut == toMut || (fromMut && !toMut)
		okMulti := fromMulti == toMulti || (fromMulti && !toMulti)
		okOpt := fromOpt == toOpt || (!fromOpt && toOpt)
		return okMut && okMulti && okOpt && (fromMut != toMut || fromMulti != toMulti || fromOpt != toOpt)
	}

	return false
}

// Unify returns the common type of a and b, per spec §4.2.3: the smaller
// TypeId when they are equal, or whichever type the other converts to when
// exactly one direction of CanImplicitlyConvertFromTo holds. It returns
// ids.InvalidTypeId if neither holds.
func (p *Pool) Unify(a, b ids.TypeId) ids.TypeId {
	if p.IsEqual(a, b) {
		return canonical(a, b)
	}

	aToB := p.CanImplicitlyConvertFromTo(a, b)
	bToA := p.CanImplicitlyConvertFromTo(b, a)

	switch {
	case aToB && !bToA:
		return b
	case bToA && !aToB:
		return a
	default:
		return ids.InvalidTypeId
	}
}
