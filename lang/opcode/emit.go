package opcode

import (
	"fmt"
	"math"

	"github.com/mna/ilex/lang/ast"
	"github.com/mna/ilex/lang/ids"
	"github.com/mna/ilex/lang/resolver"
)

// Emitter walks a resolved AstPool and compiles its expressions into a
// Pool's instruction stream, per spec §4.3.1. It is the Go analogue of
// opcodes_from_expression / opcodes_from_file_member_ast.
type Emitter struct {
	pool *Pool
}

// NewEmitter returns an Emitter appending to pool.
func NewEmitter(pool *Pool) *Emitter { return &Emitter{pool: pool} }

// EmitFileMember compiles a top-level Definition node into the global's
// initialiser region, mirroring opcodes_from_file_member_ast: an optional
// typed allocation, the value expression, an untyped allocation if no type
// was given, and a trailing EndCode before fixups are drained.
func (e *Emitter) EmitFileMember(node ids.AstNodeId, fileIndex ids.IdentifierId, rank uint16) (ids.OpcodeId, error) {
	first := ids.OpcodeId(e.pool.codes.Len())

	n := e.pool.asts.Node(node)
	children := directChildren(e.pool.asts, node)
	if len(children) == 0 {
		return 0, fmt.Errorf("opcode: Definition node has no value child")
	}

	hasType := len(children) == 2
	isMut := n.Header().Flags&ast.Definition_IsMut != 0

	var typeNode, valueNode ids.AstNodeId
	if hasType {
		typeNode, valueNode = children[0], children[1]
	} else {
		valueNode = children[0]
	}

	if hasType {
		if err := e.emitExpression(typeNode, false); err != nil {
			return 0, err
		}
		e.pool.emit(FileGlobalAllocTyped, false, node, isMut, uint32(fileIndex), rank)
	}

	if err := e.emitExpression(valueNode, hasType); err != nil {
		return 0, err
	}

	if !hasType {
		e.pool.emit(FileGlobalAllocUntyped, false, node, isMut, uint32(fileIndex), rank)
	}

	e.pool.emit(EndCode, false, node)

	if err := e.CompleteFixups(); err != nil {
		return 0, err
	}

	return first, nil
}

func directChildren(p *ast.Pool, node ids.AstNodeId) []ids.AstNodeId {
	var out []ids.AstNodeId
	it := p.Children(node)
	for {
		child, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, child)
	}
}

// emitScopeDefinition implements opcodes_from_scope_definition: a local
// Definition inside a Block/Where clause.
func (e *Emitter) emitScopeDefinition(node ids.AstNodeId) error {
	n := e.pool.asts.Node(node)
	children := directChildren(e.pool.asts, node)
	if len(children) == 0 {
		return fmt.Errorf("opcode: Definition node has no value child")
	}

	hasType := len(children) == 2
	isMut := n.Header().Flags&ast.Definition_IsMut != 0

	var typeNode, valueNode ids.AstNodeId
	if hasType {
		typeNode, valueNode = children[0], children[1]
	} else {
		valueNode = children[0]
	}

	if hasType {
		if err := e.emitExpression(typeNode, false); err != nil {
			return err
		}
		e.pool.emit(ScopeAllocTyped, false, node, isMut)
	}

	if err := e.emitExpression(valueNode, hasType); err != nil {
		return err
	}

	if !hasType {
		e.pool.emit(ScopeAllocUntyped, false, node, isMut)
	}

	return nil
}

// emitExpression implements opcodes_from_expression for the AST tags this
// module covers. Tags the original source itself leaves as TODO (Switch,
// ForEach, Defer, Catch, the OpSet* compound-assignment family once
// lowered away, Label/Goto) are rejected with an explicit "not
// implemented" error rather than silently miscompiling.
func (e *Emitter) emitExpression(node ids.AstNodeId, expectsWriteCtx bool) error {
	n := e.pool.asts.Node(node)

	switch n.Tag() {
	case ast.Builtin:
		e.pool.emit(LoadBuiltin, expectsWriteCtx, node, ids.IdentifierId(n.Attachment(0)))
		return nil

	case ast.LitVoid:
		e.pool.emit(ValueVoid, expectsWriteCtx, node)
		return nil

	case ast.LitNil:
		e.pool.emit(Undefined, expectsWriteCtx, node)
		return nil

	case ast.LitBool:
		var v int64
		if n.Attachment(0) != 0 {
			v = 1
		}
		e.pool.emit(ValueInteger, expectsWriteCtx, node, v)
		return nil

	case ast.LitInteger:
		e.pool.emit(ValueInteger, expectsWriteCtx, node, int64(n.Attachment(0)))
		return nil

	case ast.LitChar:
		e.pool.emit(ValueInteger, expectsWriteCtx, node, int64(n.Attachment(0)))
		return nil

	case ast.LitFloat:
		e.pool.emit(ValueFloat, expectsWriteCtx, node, math.Float64frombits(n.Attachment(0)))
		return nil

	case ast.LitString:
		e.pool.emit(ValueString, expectsWriteCtx, node, ids.GlobalValueId(n.Attachment(0)))
		return nil

	case ast.Identifier:
		return e.emitIdentifier(n, node, expectsWriteCtx)

	case ast.Block:
		return e.emitBlock(node, expectsWriteCtx)

	case ast.If, ast.IfElse:
		return e.emitIf(node, expectsWriteCtx)

	case ast.For, ast.Loop, ast.LoopFinally:
		return e.emitLoop(node, expectsWriteCtx)

	case ast.Func:
		return e.emitFunc(node, expectsWriteCtx)

	case ast.Signature:
		return e.emitSignature(node, expectsWriteCtx, false)

	case ast.Undefined:
		e.pool.emit(Undefined, expectsWriteCtx, node)
		return nil

	case ast.Return:
		children := directChildren(e.pool.asts, node)
		if len(children) != 1 {
			return fmt.Errorf("opcode: Return node must have exactly one operand")
		}
		if err := e.emitExpression(children[0], true); err != nil {
			return err
		}
		e.pool.emit(Return, false, node)
		return nil

	case ast.Call:
		return e.emitCall(node, expectsWriteCtx)

	case ast.Member:
		children := directChildren(e.pool.asts, node)
		if len(children) != 1 {
			return fmt.Errorf("opcode: Member node must have exactly one operand")
		}
		if err := e.emitExpression(children[0], false); err != nil {
			return err
		}
		e.pool.emit(LoadMember, expectsWriteCtx, node, ids.IdentifierId(n.Attachment(0)))
		return nil

	case ast.OpSliceOf:
		return e.emitSliceOf(node, expectsWriteCtx)

	case ast.OpArrayIndex:
		return e.emitBinary(node, expectsWriteCtx, func() { e.pool.emit(Index, expectsWriteCtx, node) })

	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		kind := BinaryArithmeticOpKind(n.Tag() - ast.OpAdd)
		return e.emitBinary(node, expectsWriteCtx, func() { e.pool.emit(BinaryArithmeticOp, expectsWriteCtx, node, uint8(kind)) })

	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		kind := BinaryBitwiseOpKind(n.Tag() - ast.OpBitAnd)
		return e.emitBinary(node, expectsWriteCtx, func() { e.pool.emit(BinaryBitwiseOp, expectsWriteCtx, node, uint8(kind)) })

	case ast.OpShiftL, ast.OpShiftR:
		kind := ShiftKind(n.Tag() - ast.OpShiftL)
		return e.emitBinary(node, expectsWriteCtx, func() { e.pool.emit(Shift, expectsWriteCtx, node, uint8(kind)) })

	case ast.OpLogAnd:
		return e.emitBinary(node, expectsWriteCtx, func() { e.pool.emit(LogicalAnd, expectsWriteCtx, node) })

	case ast.OpLogOr:
		return e.emitBinary(node, expectsWriteCtx, func() { e.pool.emit(LogicalOr, expectsWriteCtx, node) })

	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq, ast.OpEqual, ast.OpNotEqual:
		kind := CompareKind(n.Tag() - ast.OpLess)
		return e.emitBinary(node, expectsWriteCtx, func() { e.pool.emit(Compare, expectsWriteCtx, node, uint8(kind)) })

	case ast.OpSet:
		if expectsWriteCtx {
			return fmt.Errorf("opcode: assignment cannot itself expect a write context")
		}
		children := directChildren(e.pool.asts, node)
		if len(children) != 2 {
			return fmt.Errorf("opcode: OpSet node must have exactly two operands")
		}
		if err := e.emitExpression(children[0], false); err != nil {
			return err
		}
		e.pool.emit(SetWriteCtx, false, node)
		return e.emitExpression(children[1], true)

	case ast.TypeArrayOf:
		return e.emitBinary(node, expectsWriteCtx, func() { e.pool.emit(ArrayType, expectsWriteCtx, node) })

	case ast.UOpAddr:
		return e.emitUnary(node, expectsWriteCtx, func() { e.pool.emit(AddressOf, expectsWriteCtx, node) })

	case ast.UOpDeref:
		return e.emitUnary(node, expectsWriteCtx, func() { e.pool.emit(Dereference, expectsWriteCtx, node) })

	case ast.UOpBitNot:
		return e.emitUnary(node, expectsWriteCtx, func() { e.pool.emit(BitNot, expectsWriteCtx, node) })

	case ast.UOpNot:
		return e.emitUnary(node, expectsWriteCtx, func() { e.pool.emit(LogicalNot, expectsWriteCtx, node) })

	case ast.UOpNeg:
		return e.emitUnary(node, expectsWriteCtx, func() { e.pool.emit(Negate, expectsWriteCtx, node) })

	case ast.TypeSliceOf:
		return e.emitReferenceType(node, expectsWriteCtx, referenceTypeSlice, false, false)

	case ast.TypePtrOf:
		return e.emitReferenceType(node, expectsWriteCtx, referenceTypePtr, false, false)

	case ast.TypeMultiPtrOf:
		return e.emitReferenceType(node, expectsWriteCtx, referenceTypePtr, false, true)

	case ast.TypeOptionalOf:
		return e.emitReferenceType(node, expectsWriteCtx, referenceTypePtr, true, false)

	case ast.LitArray:
		return e.emitArrayInitializer(node, expectsWriteCtx)

	case ast.LitComposite:
		return e.emitCompositeInitializer(node, expectsWriteCtx)

	default:
		return fmt.Errorf("opcode: emission of %s is not implemented", n.Tag())
	}
}

func (e *Emitter) emitUnary(node ids.AstNodeId, expectsWriteCtx bool, emitOp func()) error {
	children := directChildren(e.pool.asts, node)
	if len(children) != 1 {
		return fmt.Errorf("opcode: unary node must have exactly one operand")
	}
	if err := e.emitExpression(children[0], false); err != nil {
		return err
	}
	emitOp()
	return nil
}

func (e *Emitter) emitBinary(node ids.AstNodeId, expectsWriteCtx bool, emitOp func()) error {
	children := directChildren(e.pool.asts, node)
	if len(children) != 2 {
		return fmt.Errorf("opcode: binary node must have exactly two operands")
	}
	if err := e.emitExpression(children[0], false); err != nil {
		return err
	}
	if err := e.emitExpression(children[1], false); err != nil {
		return err
	}
	emitOp()
	return nil
}

type referenceTypeTag uint8

const (
	referenceTypePtr referenceTypeTag = iota
	referenceTypeSlice
)

func (e *Emitter) emitReferenceType(node ids.AstNodeId, expectsWriteCtx bool, tag referenceTypeTag, isOpt, isMulti bool) error {
	children := directChildren(e.pool.asts, node)
	if len(children) != 1 {
		return fmt.Errorf("opcode: reference-type node must have exactly one operand")
	}
	if err := e.emitExpression(children[0], false); err != nil {
		return err
	}
	flags := referenceTypeFlags(tag, isOpt, isMulti)
	e.pool.emit(ReferenceType, expectsWriteCtx, node, flags)
	return nil
}

func referenceTypeFlags(tag referenceTypeTag, isOpt, isMulti bool) uint8 {
	flags := uint8(tag)
	if isOpt {
		flags |= 1 << 3
	}
	if isMulti {
		flags |= 1 << 4
	}
	return flags
}

func (e *Emitter) emitIdentifier(n ast.Node, node ids.AstNodeId, expectsWriteCtx bool) error {
	binding := resolver.DecodeNameBinding(n.NameBindingWord())
	switch binding.Kind {
	case resolver.BindingGlobal:
		e.pool.emit(LoadGlobal, expectsWriteCtx, node, binding.GlobalFileIndex, binding.Rank)
	case resolver.BindingLexical:
		e.pool.emit(LoadScope, expectsWriteCtx, node, binding.Out, binding.Rank)
	case resolver.BindingClosure:
		e.pool.emit(LoadClosure, expectsWriteCtx, node, binding.ClosureRank)
	default:
		return fmt.Errorf("opcode: identifier has no resolved binding")
	}
	return nil
}

// emitBlock implements the AstTag::Block case of opcodes_from_expression:
// ScopeBegin, each Definition/expression statement in turn (discarding
// non-tail void results), ScopeEnd, with a ValueVoid inserted if the block
// yields no value on its own.
func (e *Emitter) emitBlock(node ids.AstNodeId, expectsWriteCtx bool) error {
	_, attach := e.pool.emitRaw(ScopeBegin, false, node, 2)

	children := directChildren(e.pool.asts, node)

	var definitionCount uint16
	requiresDummyVoid := true

	for i, child := range children {
		cn := e.pool.asts.Node(child)
		isLast := i == len(children)-1

		switch cn.Tag() {
		case ast.Definition:
			if err := e.emitScopeDefinition(child); err != nil {
				return err
			}
			definitionCount++
		case ast.OpSet:
			if err := e.emitExpression(child, false); err != nil {
				return err
			}
		default:
			if err := e.emitExpression(child, isLast && expectsWriteCtx); err != nil {
				return err
			}
			if isLast {
				requiresDummyVoid = false
			} else {
				e.pool.emit(DiscardVoid, false, child)
			}
		}
	}

	if requiresDummyVoid {
		e.pool.emit(ValueVoid, expectsWriteCtx, node)
	}

	putUint16(attach, definitionCount)

	e.pool.emit(ScopeEnd, false, node)
	return nil
}

func putUint16(dst []byte, v uint16) { dst[0] = byte(v); dst[1] = byte(v >> 8) }

// emitIf implements the If/IfElse case: the condition, a fixup for the
// consequent branch, an optional fixup for the alternative, and the
// branch opcode itself with its reserved operand slots.
func (e *Emitter) emitIf(node ids.AstNodeId, expectsWriteCtx bool) error {
	children := directChildren(e.pool.asts, node)
	if len(children) != 2 && len(children) != 3 {
		return fmt.Errorf("opcode: If/IfElse node must have 2 or 3 children (condition, consequent[, alternative])")
	}

	condition, consequent := children[0], children[1]

	if err := e.emitExpression(condition, false); err != nil {
		return err
	}

	if len(children) == 3 {
		alternative := children[2]

		consequentSlot := ids.OpcodeId(e.pool.codes.Len() + 1)
		e.pool.emitFixup(consequentSlot, consequent, expectsWriteCtx)

		alternativeSlot := ids.OpcodeId(e.pool.codes.Len() + 1 + 4)
		e.pool.emitFixup(alternativeSlot, alternative, expectsWriteCtx)

		e.pool.emit(IfElse, false, node, ids.InvalidOpcodeId, ids.InvalidOpcodeId)
	} else {
		if expectsWriteCtx {
			return fmt.Errorf("opcode: a value-less If cannot expect a write context")
		}

		consequentSlot := ids.OpcodeId(e.pool.codes.Len() + 1)
		e.pool.emitFixup(consequentSlot, consequent, false)

		e.pool.emit(If, false, node, ids.InvalidOpcodeId)
	}

	return nil
}

// emitLoop implements the For/Loop/LoopFinally case: the condition is
// emitted inline (it is re-entered by the interpreter's backward jump to
// its recorded id), while the body, optional step and optional finally
// clauses are each deferred through a fixup.
func (e *Emitter) emitLoop(node ids.AstNodeId, expectsWriteCtx bool) error {
	children := directChildren(e.pool.asts, node)
	if len(children) < 2 {
		return fmt.Errorf("opcode: loop node must have at least a condition and a body")
	}
	condition, body := children[0], children[1]
	var step, finally ids.AstNodeId
	hasStep, hasFinally := false, false
	if len(children) >= 3 {
		step, hasStep = children[2], true
	}
	if len(children) >= 4 {
		finally, hasFinally = children[3], true
	}

	conditionID := ids.OpcodeId(e.pool.codes.Len())
	if err := e.emitExpression(condition, false); err != nil {
		return err
	}

	bodySlot := ids.OpcodeId(e.pool.codes.Len() + 1 + 4)
	e.pool.emitFixup(bodySlot, body, expectsWriteCtx)

	if hasStep {
		e.pool.emitFixup(ids.InvalidOpcodeId, step, false)
	}

	if hasFinally {
		finallySlot := ids.OpcodeId(e.pool.codes.Len() + 1 + 8)
		e.pool.emitFixup(finallySlot, finally, expectsWriteCtx)
		e.pool.emit(LoopFinally, false, node, conditionID, ids.InvalidOpcodeId, ids.InvalidOpcodeId)
	} else {
		e.pool.emit(Loop, false, node, conditionID, ids.InvalidOpcodeId)
	}

	return nil
}

// emitFunc implements the Func case: compile the signature, then a
// BindBody opcode whose body slot is completed through a function-body
// fixup. No closure-capture loads are emitted and BindBodyWithClosure is
// never produced.
func (e *Emitter) emitFunc(node ids.AstNodeId, expectsWriteCtx bool) error {
	children := directChildren(e.pool.asts, node)
	if len(children) != 2 {
		return fmt.Errorf("opcode: Func node must have exactly two children (signature, body)")
	}
	signature, body := children[0], children[1]
	isProc := e.pool.asts.Node(node).Header().Flags&ast.Func_IsProc != 0

	if err := e.emitSignature(signature, false, isProc); err != nil {
		return err
	}

	bodyFixupSlot := ids.OpcodeId(e.pool.codes.Len() + 1)
	e.pool.emit(BindBody, expectsWriteCtx, node, ids.InvalidOpcodeId)
	e.pool.emitFixupForFunctionBody(bodyFixupSlot, body)

	return nil
}

// emitSignature implements opcodes_from_signature for the untemplated
// case (no templated parameter or return type): the original's templated
// path (DynSignature) is left unimplemented, matching its own
// "TODO(...closed-over values...)" marker.
func (e *Emitter) emitSignature(node ids.AstNodeId, expectsWriteCtx bool, isProc bool) error {
	children := directChildren(e.pool.asts, node)
	if len(children) == 0 {
		return fmt.Errorf("opcode: Signature node must have at least a return type")
	}

	returnType := children[len(children)-1]
	parameters := children[:len(children)-1]

	type paramInfo struct {
		name  ids.IdentifierId
		flags uint8
	}
	infos := make([]paramInfo, 0, len(parameters))

	for _, param := range parameters {
		pn := e.pool.asts.Node(param)
		pchildren := directChildren(e.pool.asts, param)

		for _, c := range pchildren {
			if err := e.emitExpression(c, false); err != nil {
				return err
			}
		}

		var flags uint8
		if len(pchildren) >= 1 {
			flags |= 1 << 0 // has_type
		}
		if pn.Header().Flags&ast.Definition_IsMut != 0 {
			flags |= 1 << 2 // is_mut
		}
		infos = append(infos, paramInfo{name: pn.IdentifierId(), flags: flags})
	}

	if err := e.emitExpression(returnType, false); err != nil {
		return err
	}

	attachSize := 2 + 2 + len(infos)*5
	_, attach := e.pool.emitRaw(Signature, expectsWriteCtx, node, attachSize)

	var sigFlags uint8
	if !isProc {
		sigFlags |= 1
	}
	attach[0] = sigFlags
	attach[1] = byte(len(infos))
	attach[2] = byte(len(infos) + 1) // value_count: one push per parameter plus the return type
	attach[3] = 0

	off := 4
	for _, info := range infos {
		putUint32(attach[off:], uint32(info.name))
		attach[off+4] = info.flags
		off += 5
	}

	return nil
}

func putUint32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

// emitCall implements the Call case: the callee, an Args attachment
// recording the argument count, then one deferred fixup per argument
// (each always compiled with a write context, since arguments are
// materialised directly into the callee's parameter slots) before the
// trailing Call opcode.
func (e *Emitter) emitCall(node ids.AstNodeId, expectsWriteCtx bool) error {
	children := directChildren(e.pool.asts, node)
	if len(children) == 0 {
		return fmt.Errorf("opcode: Call node must have a callee")
	}
	callee := children[0]
	args := children[1:]

	if err := e.emitExpression(callee, false); err != nil {
		return err
	}

	_, attach := e.pool.emitRaw(Args, false, node, 1+len(args)*4)
	attach[0] = byte(len(args))

	if len(args) == 0 {
		e.pool.emit(Call, expectsWriteCtx, node)
		return nil
	}

	base := ids.OpcodeId(e.pool.codes.Len() - len(args)*4)
	for i, arg := range args {
		slot := base + ids.OpcodeId(i*4)
		e.pool.emitFixup(slot, arg, true)
	}

	e.pool.emit(Call, expectsWriteCtx, node)
	return nil
}

// emitSliceOf implements the OpSliceOf case. Its second child is a Range
// node (tags.go's "a..b, used by OpSliceOf and ForEach"); the Range's own
// children are its optional begin/end bounds. A Range with a single child
// is ambiguous between a begin-only and an end-only bound by child count
// alone — disambiguated here by the Range node's FirstSibling structure
// bit being unavailable at this level, so a lone bound is treated as a
// begin bound (a[n..]); expressing an end-only bound (a[..n]) needs a
// grammar-level marker this AST shape does not yet carry.
func (e *Emitter) emitSliceOf(node ids.AstNodeId, expectsWriteCtx bool) error {
	children := directChildren(e.pool.asts, node)
	if len(children) != 2 {
		return fmt.Errorf("opcode: OpSliceOf node must have exactly two children (sliced, range)")
	}

	sliced, rangeNode := children[0], children[1]
	if e.pool.asts.Node(rangeNode).Tag() != ast.Range {
		return fmt.Errorf("opcode: OpSliceOf's second child must be a Range node")
	}
	rest := directChildren(e.pool.asts, rangeNode)

	if err := e.emitExpression(sliced, false); err != nil {
		return err
	}

	var begin, end ids.AstNodeId
	hasBegin, hasEnd := false, false
	if len(rest) >= 1 {
		begin, hasBegin = rest[0], true
	}
	if len(rest) >= 2 {
		end, hasEnd = rest[1], true
	}

	if hasBegin {
		if err := e.emitExpression(begin, false); err != nil {
			return err
		}
	}
	if hasEnd {
		if err := e.emitExpression(end, false); err != nil {
			return err
		}
	}

	var kind SliceKind
	switch {
	case hasBegin && hasEnd:
		kind = SliceBothBounds
	case hasBegin:
		kind = SliceBeginBound
	case hasEnd:
		kind = SliceEndBound
	default:
		kind = SliceNoBounds
	}

	e.pool.emit(Slice, expectsWriteCtx, node, uint8(kind))
	return nil
}

// emitArrayInitializer implements the ArrayInitializer case: in write-
// context position elements are evaluated directly into per-element write
// contexts (ArrayPreInit); otherwise they are evaluated as values and
// combined after the fact (ArrayPostInit). Explicit element indices are
// not supported by the surface grammar this module builds on, matching
// the original's own "TODO: allow for element indices" markers.
func (e *Emitter) emitArrayInitializer(node ids.AstNodeId, expectsWriteCtx bool) error {
	elements := directChildren(e.pool.asts, node)

	if expectsWriteCtx {
		e.pool.emit(ArrayPreInit, true, node, uint16(0), uint16(len(elements)))
		for _, el := range elements {
			if err := e.emitExpression(el, true); err != nil {
				return err
			}
		}
		return nil
	}

	for _, el := range elements {
		if err := e.emitExpression(el, false); err != nil {
			return err
		}
	}
	e.pool.emit(ArrayPostInit, false, node, uint16(len(elements)), uint16(0), uint16(len(elements)))
	return nil
}

// emitCompositeInitializer implements the CompositeInitializer case, with
// the same write-context-dependent split as array initializers.
func (e *Emitter) emitCompositeInitializer(node ids.AstNodeId, expectsWriteCtx bool) error {
	members := directChildren(e.pool.asts, node)

	if expectsWriteCtx {
		var named uint16
		for _, m := range members {
			if e.pool.asts.Node(m).Tag() == ast.OpSet {
				named++
			}
		}

		attachSize := 2 + int(named)*(4+2) + 2 // named count, each (following, name) pair, trailing following count
		_, attach := e.pool.emitRaw(CompositePreInit, true, node, attachSize)
		putUint16(attach, named)

		off := 2
		var following uint16
		for _, m := range members {
			mn := e.pool.asts.Node(m)
			var value ids.AstNodeId

			if mn.Tag() == ast.OpSet {
				mchildren := directChildren(e.pool.asts, m)
				name := e.pool.asts.Node(mchildren[0]).IdentifierId()
				value = mchildren[1]

				putUint16(attach[off:], following)
				putUint32(attach[off+2:], uint32(name))
				off += 6
				following = 1
			} else {
				value = m
				following++
			}

			if err := e.emitExpression(value, true); err != nil {
				return err
			}
		}
		putUint16(attach[off:], following)
		return nil
	}

	for _, m := range members {
		mn := e.pool.asts.Node(m)
		value := m
		if mn.Tag() == ast.OpSet {
			mchildren := directChildren(e.pool.asts, m)
			value = mchildren[1]
		}
		if err := e.emitExpression(value, false); err != nil {
			return err
		}
	}

	_, attach := e.pool.emitRaw(CompositePostInit, false, node, 2+len(members)*4)
	putUint16(attach, uint16(len(members)))
	off := 2
	for _, m := range members {
		mn := e.pool.asts.Node(m)
		var name ids.IdentifierId
		if mn.Tag() == ast.OpSet {
			mchildren := directChildren(e.pool.asts, m)
			name = e.pool.asts.Node(mchildren[0]).IdentifierId()
		} else {
			name = ids.InvalidIdentifierId
		}
		putUint32(attach[off:], uint32(name))
		off += 4
	}
	return nil
}
