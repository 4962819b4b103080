package types

import "github.com/mna/ilex/lang/ids"

// sealedOf returns the structural record id's TypeName ultimately points
// at, following indirect aliases. It panics if id is still an open
// composite, since those have no structural record yet.
func (p *Pool) sealedOf(id ids.TypeId) sealedRecord {
	id = p.resolveIndirect(id)
	n := p.names[id]
	if n.Kind != IndexSealed {
		panic("types: structural query on an unresolved composite")
	}
	return p.sealedData[n.StructureIndex]
}

// ReferenceInfo returns the pointee/element and qualifier bits of a
// Ptr/Slice/TailArray/Variadic type.
func (p *Pool) ReferenceInfo(id ids.TypeId) (referenced ids.TypeId, isOpt, isMulti, isMut bool) {
	r := p.sealedOf(id)
	return r.referenced, r.isOpt, r.isMulti, r.isMut
}

// ArrayInfo returns the element type and length of an Array/ArrayLiteral
// type.
func (p *Pool) ArrayInfo(id ids.TypeId) (element ids.TypeId, count uint32) {
	r := p.sealedOf(id)
	return r.element, r.count
}

// NumericInfo returns the bit width and signedness of an Integer/Float
// type.
func (p *Pool) NumericInfo(id ids.TypeId) (bits uint8, isSigned bool) {
	r := p.sealedOf(id)
	return r.bits, r.isSigned
}

// SignatureInfo returns the parameter types, return type and is_proc bit
// of a Func/Builtin type.
func (p *Pool) SignatureInfo(id ids.TypeId) (params []ids.TypeId, ret ids.TypeId, isProc bool) {
	r := p.sealedOf(id)
	return r.params, r.ret, r.isProc
}
