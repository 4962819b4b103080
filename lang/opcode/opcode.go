// Package opcode implements the opcode pool (spec §3 "OpcodePool", §4.3
// "Opcode Emitter"): a flat byte-array instruction stream produced by
// walking a resolved AST, a fixup queue draining branch/body/call-argument
// regions into separate code ranges, a per-opcode stack-effect table, and
// an O(log n) opcode-to-source lookup.
package opcode

import "fmt"

// Opcode identifies one instruction. It occupies the low 7 bits of a
// stream byte; the high bit is the expects_write_context flag (see
// pool.go's Encode/Decode).
type Opcode uint8

//nolint:revive
const (
	Invalid Opcode = iota
	EndCode
	SetWriteCtx
	ScopeBegin
	ScopeEnd
	ScopeAllocTyped
	ScopeAllocUntyped
	FileGlobalAllocTyped
	FileGlobalAllocUntyped
	PopClosure
	LoadScope
	LoadGlobal
	LoadMember
	LoadClosure
	LoadBuiltin
	ExecBuiltin
	Signature
	DynSignature
	BindBody
	BindBodyWithClosure
	Args
	Call
	Return
	CompleteParamTypedNoDefault
	CompleteParamTypedWithDefault
	CompleteParamUntyped
	ArrayPreInit
	ArrayPostInit
	CompositePreInit
	CompositePostInit
	If
	IfElse
	Loop
	LoopFinally
	Switch
	AddressOf
	Dereference
	Slice
	Index
	BinaryArithmeticOp
	Shift
	BinaryBitwiseOp
	BitNot
	LogicalAnd
	LogicalOr
	LogicalNot
	Compare
	Negate
	UnaryPlus
	ArrayType
	ReferenceType
	Undefined
	Unreachable
	ValueInteger
	ValueFloat
	ValueString
	ValueVoid
	DiscardVoid

	maxOpcode
)

// opMask strips the expects_write_context bit (the high bit of a stream's
// first byte) from a raw opcode byte.
const opMask = 0x7f

var opcodeNames = [...]string{
	Invalid:                        "invalid",
	EndCode:                        "end_code",
	SetWriteCtx:                    "set_write_ctx",
	ScopeBegin:                     "scope_begin",
	ScopeEnd:                       "scope_end",
	ScopeAllocTyped:                "scope_alloc_typed",
	ScopeAllocUntyped:              "scope_alloc_untyped",
	FileGlobalAllocTyped:           "file_global_alloc_typed",
	FileGlobalAllocUntyped:         "file_global_alloc_untyped",
	PopClosure:                     "pop_closure",
	LoadScope:                      "load_scope",
	LoadGlobal:                     "load_global",
	LoadMember:                     "load_member",
	LoadClosure:                    "load_closure",
	LoadBuiltin:                    "load_builtin",
	ExecBuiltin:                    "exec_builtin",
	Signature:                      "signature",
	DynSignature:                   "dyn_signature",
	BindBody:                       "bind_body",
	BindBodyWithClosure:            "bind_body_with_closure",
	Args:                           "args",
	Call:                           "call",
	Return:                         "return",
	CompleteParamTypedNoDefault:    "complete_param_typed_no_default",
	CompleteParamTypedWithDefault:  "complete_param_typed_with_default",
	CompleteParamUntyped:           "complete_param_untyped",
	ArrayPreInit:                   "array_pre_init",
	ArrayPostInit:                  "array_post_init",
	CompositePreInit:               "composite_pre_init",
	CompositePostInit:              "composite_post_init",
	If:                             "if",
	IfElse:                         "if_else",
	Loop:                           "loop",
	LoopFinally:                    "loop_finally",
	Switch:                         "switch",
	AddressOf:                      "address_of",
	Dereference:                    "dereference",
	Slice:                          "slice",
	Index:                          "index",
	BinaryArithmeticOp:             "binary_arithmetic_op",
	Shift:                          "shift",
	BinaryBitwiseOp:                "binary_bitwise_op",
	BitNot:                         "bit_not",
	LogicalAnd:                     "logical_and",
	LogicalOr:                      "logical_or",
	LogicalNot:                     "logical_not",
	Compare:                        "compare",
	Negate:                         "negate",
	UnaryPlus:                      "unary_plus",
	ArrayType:                      "array_type",
	ReferenceType:                  "reference_type",
	Undefined:                      "undefined",
	Unreachable:                    "unreachable",
	ValueInteger:                   "value_integer",
	ValueFloat:                     "value_float",
	ValueString:                    "value_string",
	ValueVoid:                      "value_void",
	DiscardVoid:                    "discard_void",
}

func (op Opcode) String() string {
	if op < maxOpcode {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("opcode(%d)", uint8(op))
}

// BinaryArithmeticOpKind selects the operator for a BinaryArithmeticOp
// instruction; its ordinal matches ast's OpAdd..OpMod ordering offset from
// OpAdd, per the original's `static_cast<u8>(node->tag) -
// static_cast<u8>(AstTag::OpAdd)` trick.
type BinaryArithmeticOpKind uint8

//nolint:revive
const (
	ArithAdd BinaryArithmeticOpKind = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithMod
)

// BinaryBitwiseOpKind selects the operator for a BinaryBitwiseOp
// instruction.
type BinaryBitwiseOpKind uint8

//nolint:revive
const (
	BitwiseAnd BinaryBitwiseOpKind = iota
	BitwiseOr
	BitwiseXor
)

// ShiftKind selects the direction for a Shift instruction.
type ShiftKind uint8

//nolint:revive
const (
	ShiftLeft ShiftKind = iota
	ShiftRight
)

// CompareKind selects the operator for a Compare instruction. Its ordinal
// matches ast's OpLess..OpNotEqual ordering offset from OpLess, mirroring
// BinaryArithmeticOpKind's tag-offset trick.
type CompareKind uint8

//nolint:revive
const (
	CompareLT CompareKind = iota
	CompareLE
	CompareGT
	CompareGE
	CompareEQ
	CompareNE
)

// SliceKind records which bounds a Slice instruction's operand stack
// supplies, matching OpcodeSliceKind in opcode_pool.cpp.
type SliceKind uint8

//nolint:revive
const (
	SliceNoBounds SliceKind = iota
	SliceBeginBound
	SliceEndBound
	SliceBothBounds
)
