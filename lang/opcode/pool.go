package opcode

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/mna/ilex/lang/ast"
	"github.com/mna/ilex/lang/iface"
	"github.com/mna/ilex/lang/ids"
)

// sourceMapping is one entry of Pool's parallel, offset-sorted
// opcode-to-source table (spec §4.3.4).
type sourceMapping struct {
	codeBegin ids.OpcodeId
	source    ids.SourceId
}

// Pool owns the flat instruction stream compiled from a single AstPool,
// plus its source mapping and pending fixup queue, per spec §3
// "OpcodePool".
type Pool struct {
	asts *ast.Pool

	codes   *iface.ByteArena
	sources []sourceMapping
	fixups  []Fixup
}

// NewPool returns an empty Pool emitting opcodes for nodes owned by asts.
func NewPool(asts *ast.Pool, capacityBytes int) *Pool {
	p := &Pool{asts: asts, codes: iface.NewByteArena(capacityBytes)}
	// Reserve ids.InvalidOpcodeId's ordinal (0xffffffff can never be a real
	// offset given any realistic stream length, so no explicit reservation
	// byte is needed here, unlike the AstNodeId/TypeId pools whose 0 is a
	// valid index).
	return p
}

// Len reports the number of bytes currently in the instruction stream.
func (p *Pool) Len() int { return p.codes.Len() }

// Bytes returns the full compiled instruction stream. It aliases the
// pool's storage.
func (p *Pool) Bytes() []byte { return p.codes.Bytes() }

// At decodes the raw opcode byte (with its expects_write_context flag) at
// offset off.
func (p *Pool) At(off ids.OpcodeId) (Opcode, bool) {
	b := p.codes.At(int(off))
	return Opcode(b & opMask), b&0x80 != 0
}

// emitRaw implements emit_opcode_raw: it records the source mapping (with
// source id 0 if node is not valid) and writes the tagged opcode byte, returning the id it
// was written at plus attachSize bytes of zeroed space immediately after
// it for the caller to fill in.
func (p *Pool) emitRaw(code Opcode, expectsWriteCtx bool, node ids.AstNodeId, attachSize int) (ids.OpcodeId, []byte) {
	id := ids.OpcodeId(p.codes.Len())

	var source ids.SourceId
	if node.IsValid() {
		source = p.asts.Node(node).Source()
	}
	p.appendSourceMapping(id, source)

	tag := byte(code)
	if expectsWriteCtx {
		tag |= 0x80
	}
	p.codes.Append(tag)

	start := p.codes.Len()
	for i := 0; i < attachSize; i++ {
		p.codes.Append(0)
	}
	return id, p.codes.Bytes()[start : start+attachSize]
}

func (p *Pool) appendSourceMapping(id ids.OpcodeId, source ids.SourceId) {
	p.sources = append(p.sources, sourceMapping{codeBegin: id, source: source})
}

// emit is the Go analogue of emit_opcode: it writes code plus its
// little-endian attachment words in order.
func (p *Pool) emit(code Opcode, expectsWriteCtx bool, node ids.AstNodeId, attachs ...any) ids.OpcodeId {
	size := 0
	for _, a := range attachs {
		size += attachSize(a)
	}
	id, dst := p.emitRaw(code, expectsWriteCtx, node, size)
	off := 0
	for _, a := range attachs {
		off += putAttach(dst[off:], a)
	}
	return id
}

func attachSize(a any) int {
	switch a.(type) {
	case bool, uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32:
		return 4
	case uint64, int64, float64:
		return 8
	case ids.OpcodeId, ids.AstNodeId, ids.IdentifierId, ids.GlobalValueId:
		return 4
	default:
		panic("opcode: unsupported attachment type")
	}
}

func putAttach(dst []byte, a any) int {
	switch v := a.(type) {
	case bool:
		if v {
			dst[0] = 1
		} else {
			dst[0] = 0
		}
		return 1
	case uint8:
		dst[0] = v
		return 1
	case int8:
		dst[0] = byte(v)
		return 1
	case uint16:
		binary.LittleEndian.PutUint16(dst, v)
		return 2
	case int16:
		binary.LittleEndian.PutUint16(dst, uint16(v))
		return 2
	case uint32:
		binary.LittleEndian.PutUint32(dst, v)
		return 4
	case int32:
		binary.LittleEndian.PutUint32(dst, uint32(v))
		return 4
	case ids.OpcodeId:
		binary.LittleEndian.PutUint32(dst, uint32(v))
		return 4
	case ids.AstNodeId:
		binary.LittleEndian.PutUint32(dst, uint32(v))
		return 4
	case ids.IdentifierId:
		binary.LittleEndian.PutUint32(dst, uint32(v))
		return 4
	case ids.GlobalValueId:
		binary.LittleEndian.PutUint32(dst, uint32(v))
		return 4
	case uint64:
		binary.LittleEndian.PutUint64(dst, v)
		return 8
	case int64:
		binary.LittleEndian.PutUint64(dst, uint64(v))
		return 8
	case float64:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
		return 8
	default:
		panic("opcode: unsupported attachment type")
	}
}

// patchOpcodeId overwrites a previously reserved 4-byte OpcodeId slot at
// offset dst with id, as complete_single_fixup does.
func (p *Pool) patchOpcodeId(dst ids.OpcodeId, id ids.OpcodeId) {
	buf := p.codes.Bytes()[int(dst) : int(dst)+4]
	binary.LittleEndian.PutUint32(buf, uint32(id))
}

func (p *Pool) readUint16(off int) uint16 { return binary.LittleEndian.Uint16(p.codes.Bytes()[off : off+2]) }
func (p *Pool) readUint8(off int) uint8   { return p.codes.Bytes()[off] }

func (p *Pool) readUint32At(off int) uint32 {
	return binary.LittleEndian.Uint32(p.codes.Bytes()[off : off+4])
}

func (p *Pool) readInt64At(off int) int64 {
	return int64(binary.LittleEndian.Uint64(p.codes.Bytes()[off : off+8]))
}

func (p *Pool) readFloat64At(off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(p.codes.Bytes()[off : off+8]))
}

// SourceIdOf implements source_id_of_opcode (spec §4.3.4): binary search
// for the largest recorded entry with codeBegin <= off.
func (p *Pool) SourceIdOf(off ids.OpcodeId) ids.SourceId {
	i := sort.Search(len(p.sources), func(i int) bool {
		return p.sources[i].codeBegin > off
	})
	if i == 0 {
		return ids.InvalidSourceId
	}
	return p.sources[i-1].source
}
