package types

import "github.com/mna/ilex/lang/ids"

// Metrics bundles a type's size, stride and alignment in bytes.
type Metrics struct {
	Size, Stride, Align uint32
}

// nextPow2 returns the smallest power of two >= n, or 1 if n == 0.
func nextPow2(n uint32) uint32 {
	if n == 0 {
		return 1
	}
	p := uint32(1)
	for p < n {
		p <<= 1
	}
	return p
}

// MetricsFromId returns (size, stride, align) for id, per spec §4.2.5.
// Calling it on a composite with unresolved members is fatal, since the
// layout isn't known until every member's type has settled.
func (p *Pool) MetricsFromId(id ids.TypeId) Metrics {
	id = p.resolveIndirect(id)
	n := p.names[id]

	if n.Kind == IndexBuilder {
		panic("types: MetricsFromId called on an unresolved composite")
	}

	rec := p.sealedData[n.StructureIndex]
	switch rec.tag {
	case TagVoid:
		return Metrics{0, 0, 1}
	case TagBool:
		return Metrics{1, 1, 1}
	case TagTypeInfo, TagDivergent, TagCompInteger, TagCompFloat:
		return Metrics{0, 0, 1}
	case TagInteger:
		bytes := nextPow2((uint32(rec.bits) + 7) / 8)
		return Metrics{bytes, bytes, bytes}
	case TagFloat:
		bytes := uint32(rec.bits) / 8
		return Metrics{bytes, bytes, bytes}
	case TagPtr, TagSlice, TagTailArray, TagVariadic:
		return Metrics{8, 8, 8}
	case TagArray, TagArrayLiteral:
		elem := p.MetricsFromId(rec.element)
		if rec.count == 0 {
			return Metrics{0, 0, elem.Align}
		}
		size := (rec.count-1)*elem.Stride + elem.Size
		return Metrics{size, size, elem.Align}
	case TagFunc, TagBuiltin:
		return Metrics{8, 8, 8}
	case TagComposite:
		return Metrics{rec.size, rec.stride, rec.align}
	default:
		panic("types: MetricsFromId called on an invalid type")
	}
}
