package opcode_test

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/mna/ilex/lang/ast"
	"github.com/mna/ilex/lang/ids"
	"github.com/mna/ilex/lang/opcode"
	"github.com/stretchr/testify/require"
)

const identX ids.IdentifierId = ids.FirstNatural

func pushLitInt(b *ast.Builder, v int64, src ids.SourceId) ast.Token {
	return b.Push(ast.NoChildren, src, ast.FlagEmpty, ast.LitInteger, uint64(v))
}

func decodeAll(t *testing.T, p *opcode.Pool) []opcode.Opcode {
	t.Helper()
	var out []opcode.Opcode
	off := 0
	for off < p.Len() {
		code, _ := p.At(ids.OpcodeId(off))
		out = append(out, code)
		off += 1 + instructionSize(p, off, code)
	}
	return out
}

// instructionSize reports an instruction's trailing attachment length,
// using the same fixed layouts emit.go writes for the opcodes this test
// emits (mirrors disasm.go's disassembleOperands byte counts).
func instructionSize(p *opcode.Pool, off int, code opcode.Opcode) int {
	switch code {
	case opcode.ValueInteger, opcode.ValueFloat:
		return 8
	case opcode.BinaryArithmeticOp, opcode.BinaryBitwiseOp, opcode.Shift, opcode.Compare, opcode.Slice:
		return 1
	case opcode.FileGlobalAllocUntyped:
		return 1 + 4 + 2
	case opcode.FileGlobalAllocTyped:
		return 1 + 4 + 2
	case opcode.ScopeAllocUntyped, opcode.ScopeAllocTyped:
		return 1
	case opcode.EndCode, opcode.Return, opcode.DiscardVoid, opcode.ValueVoid, opcode.Undefined:
		return 0
	case opcode.If, opcode.BindBody, opcode.BindBodyWithClosure:
		return 4
	case opcode.IfElse, opcode.Loop:
		return 8
	case opcode.LoopFinally:
		return 12
	default:
		return 0
	}
}

func TestEmitFileMemberUntypedGlobalArithmetic(t *testing.T) {
	asts := ast.NewPool(64)
	b := ast.NewBuilder(64)

	left := pushLitInt(b, 1, 1)
	_ = pushLitInt(b, 2, 1)
	sum := b.Push(left, 1, ast.FlagEmpty, ast.OpAdd)
	def := b.Push(sum, 1, ast.FlagEmpty, ast.Definition, uint64(identX), uint64(ids.InvalidGlobalValueId))
	_ = def

	root := asts.CompleteAST(b)

	pool := opcode.NewPool(asts, 64)
	emitter := opcode.NewEmitter(pool)

	_, err := emitter.EmitFileMember(root, 0, 3)
	require.NoError(t, err)

	codes := decodeAll(t, pool)
	require.Equal(t, []opcode.Opcode{
		opcode.ValueInteger,
		opcode.ValueInteger,
		opcode.BinaryArithmeticOp,
		opcode.FileGlobalAllocUntyped,
		opcode.EndCode,
	}, codes)
}

func TestEmitFileMemberRecordsSourceMapping(t *testing.T) {
	asts := ast.NewPool(64)
	b := ast.NewBuilder(64)

	lit := pushLitInt(b, 42, 7)
	def := b.Push(lit, 7, ast.FlagEmpty, ast.Definition, uint64(identX), uint64(ids.InvalidGlobalValueId))
	_ = def
	root := asts.CompleteAST(b)

	pool := opcode.NewPool(asts, 32)
	emitter := opcode.NewEmitter(pool)

	first, err := emitter.EmitFileMember(root, 0, 0)
	require.NoError(t, err)

	require.EqualValues(t, 7, pool.SourceIdOf(first))
}

func TestEmitIfElseCompletesFixupsIntoForwardJumps(t *testing.T) {
	asts := ast.NewPool(64)
	b := ast.NewBuilder(64)

	condTok := pushLitInt(b, 1, 1)
	_ = b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 10)
	_ = b.Push(ast.NoChildren, 1, ast.FlagEmpty, ast.LitInteger, 20)

	ifElse := b.Push(condTok, 1, ast.FlagEmpty, ast.IfElse)

	def := b.Push(ifElse, 1, ast.FlagEmpty, ast.Definition, uint64(identX), uint64(ids.InvalidGlobalValueId))
	_ = def
	root := asts.CompleteAST(b)

	pool := opcode.NewPool(asts, 64)
	emitter := opcode.NewEmitter(pool)

	_, err := emitter.EmitFileMember(root, 0, 0)
	require.NoError(t, err)

	// The IfElse opcode's two jump-target slots must have been patched to
	// valid (non-sentinel) offsets once fixups drain, each actually landing
	// on a ValueInteger instruction (the consequent/alternative literals).
	ifElseOff := -1
	off := 0
	for off < pool.Len() {
		code, _ := pool.At(ids.OpcodeId(off))
		if code == opcode.IfElse {
			ifElseOff = off
			break
		}
		off += 1 + instructionSize(pool, off, code)
	}
	require.NotEqual(t, -1, ifElseOff, "expected an IfElse instruction in the stream")

	bytes := pool.Bytes()
	consequentTarget := binary.LittleEndian.Uint32(bytes[ifElseOff+1 : ifElseOff+5])
	alternativeTarget := binary.LittleEndian.Uint32(bytes[ifElseOff+5 : ifElseOff+9])

	require.NotEqual(t, uint32(ids.InvalidOpcodeId), consequentTarget)
	require.NotEqual(t, uint32(ids.InvalidOpcodeId), alternativeTarget)

	consequentCode, _ := pool.At(ids.OpcodeId(consequentTarget))
	alternativeCode, _ := pool.At(ids.OpcodeId(alternativeTarget))
	require.Equal(t, opcode.ValueInteger, consequentCode)
	require.Equal(t, opcode.ValueInteger, alternativeCode)
}

func TestEffectsOfArithmeticBalancesTheValueStack(t *testing.T) {
	asts := ast.NewPool(64)
	b := ast.NewBuilder(64)

	left := pushLitInt(b, 1, 1)
	_ = pushLitInt(b, 2, 1)
	sum := b.Push(left, 1, ast.FlagEmpty, ast.OpAdd)
	def := b.Push(sum, 1, ast.FlagEmpty, ast.Definition, uint64(identX), uint64(ids.InvalidGlobalValueId))
	_ = def
	root := asts.CompleteAST(b)

	pool := opcode.NewPool(asts, 64)
	emitter := opcode.NewEmitter(pool)

	_, err := emitter.EmitFileMember(root, 0, 0)
	require.NoError(t, err)

	// ValueInteger, ValueInteger and BinaryArithmeticOp together push the
	// sum's final value exactly once onto the stack (two literals, then
	// one binary op consuming both and leaving one): net +1.
	var valuesDiff int32
	off := 0
	for off < pool.Len() {
		code, _ := pool.At(ids.OpcodeId(off))
		if code == opcode.FileGlobalAllocUntyped || code == opcode.EndCode {
			break
		}
		valuesDiff += pool.EffectsOf(off).ValuesDiff
		off += 1 + instructionSize(pool, off, code)
	}
	require.EqualValues(t, 1, valuesDiff)
}

func TestDisassembleProducesOneLinePerInstruction(t *testing.T) {
	asts := ast.NewPool(64)
	b := ast.NewBuilder(64)

	lit := pushLitInt(b, 5, 1)
	def := b.Push(lit, 1, ast.FlagEmpty, ast.Definition, uint64(identX), uint64(ids.InvalidGlobalValueId))
	_ = def
	root := asts.CompleteAST(b)

	pool := opcode.NewPool(asts, 32)
	emitter := opcode.NewEmitter(pool)

	_, err := emitter.EmitFileMember(root, 0, 0)
	require.NoError(t, err)

	listing := opcode.Disassemble(pool)
	require.Equal(t, 3, strings.Count(listing, "\n"))
	require.Contains(t, listing, "value_integer")
	require.Contains(t, listing, "file_global_alloc_untyped")
	require.Contains(t, listing, "end_code")
}
