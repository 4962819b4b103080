package opcode

import (
	"fmt"
	"strings"

	"github.com/mna/ilex/lang/ids"
)

// Disassemble renders p's instruction stream as a readable listing: one
// line per instruction, offset-prefixed, with its mnemonic, decoded
// operands and the source id it was emitted for. Unlike the teacher's
// per-function Asm/Dasm round-trip format, this pool has no separate
// function-scoped locals/cells/freevars tables to section off — every
// function's signature and body already live inline in the same flat
// stream — so one linear listing is all there is to show.
func Disassemble(p *Pool) string {
	var b strings.Builder

	off := 0
	for off < p.Len() {
		code, expectsWriteCtx := p.At(ids.OpcodeId(off))
		source := p.SourceIdOf(ids.OpcodeId(off))

		fmt.Fprintf(&b, "%6d  %-32s", off, mnemonic(code, expectsWriteCtx))

		operandsLen := disassembleOperands(&b, p, off, code)

		fmt.Fprintf(&b, "  ; src=%d\n", source)

		off += 1 + operandsLen
	}

	return b.String()
}

func mnemonic(code Opcode, expectsWriteCtx bool) string {
	if expectsWriteCtx {
		return code.String() + "*"
	}
	return code.String()
}

// disassembleOperands writes off's decoded trailing operands to b and
// returns their byte length, mirroring the attachment layouts emit.go
// writes (pool.go's emit/emitRaw).
func disassembleOperands(b *strings.Builder, p *Pool, off int, code Opcode) int {
	base := off + 1

	switch code {
	case ScopeBegin:
		fmt.Fprintf(b, " definitions=%d", p.readUint16(base))
		return 2

	case ScopeAllocTyped, ScopeAllocUntyped:
		fmt.Fprintf(b, " is_mut=%t", p.readUint8(base) != 0)
		return 1

	case FileGlobalAllocTyped, FileGlobalAllocUntyped:
		isMut := p.readUint8(base) != 0
		fileIndex := p.readUint32At(base + 1)
		rank := p.readUint16(base + 5)
		fmt.Fprintf(b, " is_mut=%t file=%d rank=%d", isMut, fileIndex, rank)
		return 7

	case LoadScope:
		out := p.readUint32At(base)
		rank := p.readUint32At(base + 4)
		fmt.Fprintf(b, " out=%d rank=%d", out, rank)
		return 8

	case LoadGlobal:
		file := p.readUint32At(base)
		rank := p.readUint32At(base + 4)
		fmt.Fprintf(b, " file=%d rank=%d", file, rank)
		return 8

	case LoadClosure:
		rank := p.readUint32At(base)
		fmt.Fprintf(b, " rank=%d", rank)
		return 4

	case LoadMember:
		id := p.readUint32At(base)
		fmt.Fprintf(b, " name=%d", id)
		return 4

	case LoadBuiltin:
		id := p.readUint32At(base)
		fmt.Fprintf(b, " name=%d", id)
		return 4

	case Signature, DynSignature:
		flags := p.readUint8(base)
		paramCount := int(p.readUint8(base + 1))
		valueCount := p.readUint8(base + 2)
		fmt.Fprintf(b, " flags=%#x params=%d values=%d", flags, paramCount, valueCount)
		size := 4
		for i := 0; i < paramCount; i++ {
			name := p.readUint32At(base + size)
			pflags := p.readUint8(base + size + 4)
			fmt.Fprintf(b, " [name=%d flags=%#x]", name, pflags)
			size += 5
		}
		return size

	case BindBody, BindBodyWithClosure, If:
		target := p.readUint32At(base)
		fmt.Fprintf(b, " -> %d", target)
		return 4

	case IfElse:
		t1 := p.readUint32At(base)
		t2 := p.readUint32At(base + 4)
		fmt.Fprintf(b, " -> %d, %d", t1, t2)
		return 8

	case Loop:
		cond := p.readUint32At(base)
		body := p.readUint32At(base + 4)
		fmt.Fprintf(b, " cond=%d -> %d", cond, body)
		return 8

	case LoopFinally:
		cond := p.readUint32At(base)
		body := p.readUint32At(base + 4)
		finally := p.readUint32At(base + 8)
		fmt.Fprintf(b, " cond=%d -> %d finally=%d", cond, body, finally)
		return 12

	case Args:
		count := p.readUint8(base)
		size := 1 + int(count)*4
		fmt.Fprintf(b, " argc=%d", count)
		for i := 0; i < int(count); i++ {
			target := p.readUint32At(base + 1 + i*4)
			fmt.Fprintf(b, " [%d]->%d", i, target)
		}
		return size

	case CompleteParamTypedNoDefault, CompleteParamTypedWithDefault, CompleteParamUntyped:
		rank := p.readUint8(base)
		fmt.Fprintf(b, " rank=%d", rank)
		return 1

	case ArrayPreInit:
		a := p.readUint16(base)
		n := p.readUint16(base + 2)
		fmt.Fprintf(b, " first=%d count=%d", a, n)
		return 4

	case ArrayPostInit:
		n := p.readUint16(base)
		a := p.readUint16(base + 2)
		m := p.readUint16(base + 4)
		fmt.Fprintf(b, " count=%d first=%d total=%d", n, a, m)
		return 6

	case CompositePreInit:
		named := p.readUint16(base)
		fmt.Fprintf(b, " named=%d", named)
		size := 2
		for i := 0; i < int(named); i++ {
			following := p.readUint16(base + size)
			name := p.readUint32At(base + size + 2)
			fmt.Fprintf(b, " [following=%d name=%d]", following, name)
			size += 6
		}
		trailing := p.readUint16(base + size)
		fmt.Fprintf(b, " trailing=%d", trailing)
		return size + 2

	case CompositePostInit:
		count := p.readUint16(base)
		fmt.Fprintf(b, " count=%d", count)
		size := 2
		for i := 0; i < int(count); i++ {
			name := p.readUint32At(base + size)
			fmt.Fprintf(b, " [%d]=%d", i, name)
			size += 4
		}
		return size

	case Slice:
		kind := SliceKind(p.readUint8(base))
		fmt.Fprintf(b, " kind=%d", kind)
		return 1

	case BinaryArithmeticOp:
		kind := BinaryArithmeticOpKind(p.readUint8(base))
		fmt.Fprintf(b, " kind=%d", kind)
		return 1

	case BinaryBitwiseOp:
		kind := BinaryBitwiseOpKind(p.readUint8(base))
		fmt.Fprintf(b, " kind=%d", kind)
		return 1

	case Shift:
		kind := ShiftKind(p.readUint8(base))
		fmt.Fprintf(b, " kind=%d", kind)
		return 1

	case Compare:
		kind := CompareKind(p.readUint8(base))
		fmt.Fprintf(b, " kind=%d", kind)
		return 1

	case ReferenceType:
		flags := p.readUint8(base)
		fmt.Fprintf(b, " flags=%#x", flags)
		return 1

	case ValueInteger:
		v := p.readInt64At(base)
		fmt.Fprintf(b, " %d", v)
		return 8

	case ValueFloat:
		v := p.readFloat64At(base)
		fmt.Fprintf(b, " %g", v)
		return 8

	case ValueString:
		id := p.readUint32At(base)
		fmt.Fprintf(b, " id=%d", id)
		return 4

	default:
		return 0
	}
}
