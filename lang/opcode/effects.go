package opcode

import "github.com/mna/ilex/lang/ids"

// Effects reports the operand-stack deltas of one instruction, per spec
// §4.3.3 (opcode_effects): how many values it pushes/pops, and the same
// for pending write contexts, open scopes and open closures.
//
// The invariant this supports: summing ValuesDiff over a region starting
// at a BindBody and ending at its matching Return totals -1 if
// expects_write_context was set on the BindBody, else 0 — the body
// leaves exactly the slot its caller expects filled or empty.
type Effects struct {
	ValuesDiff   int32
	WriteCtxDiff int32
	ScopesDiff   int32
	ClosuresDiff int32
}

// writeCtxDelta is -1 when an opcode consumes a pending write context
// (the common case for anything tagged expects_write_context), 0
// otherwise; SetWriteCtx produces one instead of consuming it.
func writeCtxDelta(expectsWriteCtx bool) int32 {
	if expectsWriteCtx {
		return -1
	}
	return 0
}

// EffectsOf decodes the instruction at byte offset off and returns its
// stack effect. Opcodes whose effect depends on trailing operand bytes
// (Signature/DynSignature's parameter count, the *Init family's
// element/member counts, Slice's bound kind) read those bytes directly
// out of p's stream, so off must name a real, fully-written instruction.
func (p *Pool) EffectsOf(off int) Effects {
	code, expectsWriteCtx := p.At(ids.OpcodeId(off))
	wc := writeCtxDelta(expectsWriteCtx)

	switch code {
	case Invalid, EndCode:
		return Effects{}

	case SetWriteCtx:
		return Effects{WriteCtxDiff: 1}

	case ScopeBegin:
		return Effects{ScopesDiff: 1}
	case ScopeEnd:
		return Effects{ScopesDiff: -1}

	case ScopeAllocTyped:
		return Effects{ValuesDiff: -2, WriteCtxDiff: wc}
	case ScopeAllocUntyped:
		return Effects{ValuesDiff: -1, WriteCtxDiff: wc}
	case FileGlobalAllocTyped:
		return Effects{ValuesDiff: -2, WriteCtxDiff: wc}
	case FileGlobalAllocUntyped:
		return Effects{ValuesDiff: -1, WriteCtxDiff: wc}

	case PopClosure:
		return Effects{ClosuresDiff: -1}

	case LoadScope, LoadGlobal, LoadClosure, LoadBuiltin:
		// the loaded value fills the write context instead of the stack.
		return Effects{ValuesDiff: 1 + wc, WriteCtxDiff: wc}
	case LoadMember:
		return Effects{ValuesDiff: 0, WriteCtxDiff: wc}
	case ExecBuiltin:
		return Effects{ValuesDiff: 1, WriteCtxDiff: wc}

	case Signature:
		paramCount := int32(p.readUint8(off + 2))
		// paramCount parameter values plus one return-type value are
		// consumed, one Signature value is produced.
		return Effects{ValuesDiff: 1 - (paramCount + 1), WriteCtxDiff: wc}
	case DynSignature:
		paramCount := int32(p.readUint8(off + 2))
		return Effects{ValuesDiff: 1 - (paramCount + 1), WriteCtxDiff: wc}

	case BindBody:
		return Effects{ValuesDiff: 0, WriteCtxDiff: wc}
	case BindBodyWithClosure:
		return Effects{ValuesDiff: 0, WriteCtxDiff: wc}

	case Args:
		argCount := int32(p.readUint8(off + 1))
		return Effects{}.withArgs(argCount)

	case Call:
		if expectsWriteCtx {
			return Effects{ValuesDiff: 0, WriteCtxDiff: wc}
		}
		return Effects{ValuesDiff: -1}
	case Return:
		return Effects{ValuesDiff: -1}

	case CompleteParamTypedNoDefault, CompleteParamTypedWithDefault, CompleteParamUntyped:
		return Effects{}

	case ArrayPreInit:
		return Effects{ValuesDiff: 1, WriteCtxDiff: wc}
	case ArrayPostInit:
		elementCount := int32(p.readUint16(off + 1))
		return Effects{ValuesDiff: 1 - elementCount}
	case CompositePreInit:
		return Effects{ValuesDiff: 1, WriteCtxDiff: wc}
	case CompositePostInit:
		memberCount := int32(p.readUint16(off + 1))
		return Effects{ValuesDiff: 1 - memberCount}

	case If:
		return Effects{ValuesDiff: -1}
	case IfElse:
		return Effects{ValuesDiff: -1, WriteCtxDiff: wc}
	case Loop:
		return Effects{ValuesDiff: -1}
	case LoopFinally:
		return Effects{ValuesDiff: -1, WriteCtxDiff: wc}
	case Switch:
		return Effects{ValuesDiff: -1}

	case AddressOf:
		return Effects{ValuesDiff: 0, WriteCtxDiff: wc}
	case Dereference:
		return Effects{ValuesDiff: 0, WriteCtxDiff: wc}

	case Slice:
		kind := SliceKind(p.readUint8(off + 1))
		bounds := int32(0)
		switch kind {
		case SliceBeginBound, SliceEndBound:
			bounds = 1
		case SliceBothBounds:
			bounds = 2
		}
		return Effects{ValuesDiff: -bounds, WriteCtxDiff: wc}

	case Index:
		return Effects{ValuesDiff: -1, WriteCtxDiff: wc}

	case BinaryArithmeticOp, BinaryBitwiseOp, Shift, Compare:
		return Effects{ValuesDiff: -1}
	case LogicalAnd, LogicalOr:
		return Effects{ValuesDiff: -1}

	case BitNot, LogicalNot, Negate, UnaryPlus:
		return Effects{}

	case ArrayType:
		return Effects{ValuesDiff: -1}
	case ReferenceType:
		return Effects{}

	case Undefined, Unreachable, ValueInteger, ValueFloat, ValueString, ValueVoid:
		return Effects{ValuesDiff: 1, WriteCtxDiff: wc}

	case DiscardVoid:
		return Effects{ValuesDiff: -1}

	default:
		return Effects{}
	}
}

func (e Effects) withArgs(argCount int32) Effects {
	e.ValuesDiff -= argCount
	return e
}
