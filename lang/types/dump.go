package types

import (
	"fmt"
	"io"

	"github.com/mna/ilex/lang/ids"
	"github.com/mna/ilex/lang/iface"
)

// Dump writes one line per interned type, in declaration order, mirroring
// ast.Printer's one-line-per-node format. No CLI command calls it.
func Dump(w io.Writer, p *Pool, interner iface.IdentifierInterner) error {
	for id := ids.TypeId(0); int(id) < len(p.names); id++ {
		if err := dumpOne(w, p, id, interner); err != nil {
			return err
		}
	}
	return nil
}

func dumpOne(w io.Writer, p *Pool, id ids.TypeId, interner iface.IdentifierInterner) error {
	n := p.names[id]

	name := fmt.Sprintf("id%d", id)
	if n.AliasName != ids.InvalidIdentifierId && interner != nil {
		if s, ok := interner.Name(n.AliasName); ok {
			name = s
		}
	}

	switch n.Kind {
	case IndexBuilder:
		b := p.builders[id]
		_, err := fmt.Fprintf(w, "%s = %s(open, %d members)\n", name, b.disposition, b.count)
		return err
	case IndexIndirect:
		_, err := fmt.Fprintf(w, "%s = alias of id%d\n", name, n.StructureIndex)
		return err
	default:
		return dumpSealed(w, p, id, name, interner)
	}
}

func dumpSealed(w io.Writer, p *Pool, id ids.TypeId, name string, interner iface.IdentifierInterner) error {
	rec := p.sealedData[p.names[id].StructureIndex]

	switch rec.tag {
	case TagComposite:
		m := p.MetricsFromId(id)
		_, err := fmt.Fprintf(w, "%s = %s(%d members, size=%d align=%d stride=%d)\n", name, rec.disposition, len(rec.members), m.Size, m.Align, m.Stride)
		return err
	case TagInteger, TagFloat:
		sign := ""
		if rec.tag == TagInteger && rec.isSigned {
			sign = "i"
		} else if rec.tag == TagInteger {
			sign = "u"
		} else {
			sign = "f"
		}
		_, err := fmt.Fprintf(w, "%s = %s%d\n", name, sign, rec.bits)
		return err
	case TagPtr, TagSlice, TagTailArray, TagVariadic:
		_, err := fmt.Fprintf(w, "%s = %s(referenced=id%d opt=%t multi=%t mut=%t)\n", name, rec.tag, rec.referenced, rec.isOpt, rec.isMulti, rec.isMut)
		return err
	case TagArray, TagArrayLiteral:
		_, err := fmt.Fprintf(w, "%s = %s(element=id%d count=%d)\n", name, rec.tag, rec.element, rec.count)
		return err
	case TagFunc, TagBuiltin:
		_, err := fmt.Fprintf(w, "%s = %s(%d params, ret=id%d, proc=%t)\n", name, rec.tag, len(rec.params), rec.ret, rec.isProc)
		return err
	default:
		_, err := fmt.Fprintf(w, "%s = %s\n", name, rec.tag)
		return err
	}
}
