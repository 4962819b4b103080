package ast

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mna/ilex/lang/ids"
	"github.com/mna/ilex/lang/iface"
)

// Printer controls the textual dump of a subtree rooted at a single
// AstNodeId, in the style of the original tree-walking printer this
// package's flat arena replaced: one line per node, indented by depth.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// Interner resolves Identifier attachment words back to names. If nil,
	// identifiers are printed as raw IdentifierId values.
	Interner iface.IdentifierInterner

	// Sources, if set, is consulted to print a node's SourceId next to its
	// tag instead of just the tag.
	Sources bool
}

// Print writes one line per node in root's subtree (root included),
// preorder, each indented two spaces per depth level.
func (p *Printer) Print(pool *Pool, root ids.AstNodeId) error {
	pp := printer{w: p.Output, interner: p.Interner, sources: p.Sources}
	if err := pp.printNode(pool, root, 0); err != nil {
		return err
	}

	it := pool.PreorderOf(root)
	for {
		node, depth, ok := it.Next()
		if !ok {
			break
		}
		if err := pp.printNode(pool, node, depth+1); err != nil {
			return err
		}
	}
	return nil
}

type printer struct {
	w        io.Writer
	interner iface.IdentifierInterner
	sources  bool
}

func (p *printer) printNode(pool *Pool, id ids.AstNodeId, depth int) error {
	n := pool.Node(id)
	h := n.Header()

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&b, "%s", h.Tag)

	if p.sources {
		fmt.Fprintf(&b, " @src%d", n.Source())
	}

	p.writeAttachment(&b, n, h)

	b.WriteByte('\n')
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *printer) writeAttachment(b *strings.Builder, n Node, h Header) {
	switch h.Tag {
	case Identifier:
		id := ids.IdentifierId(n.Attachment(0))
		if p.interner != nil {
			if name, ok := p.interner.Name(id); ok {
				fmt.Fprintf(b, " %s", name)
				return
			}
		}
		fmt.Fprintf(b, " id%d", id)
	case LitInteger:
		fmt.Fprintf(b, " %d", int64(n.Attachment(0)))
	case LitFloat:
		fmt.Fprintf(b, " %g", math.Float64frombits(n.Attachment(0)))
	case LitBool:
		fmt.Fprintf(b, " %t", n.Attachment(0) != 0)
	case LitChar:
		fmt.Fprintf(b, " %q", rune(n.Attachment(0)))
	case Definition:
		id := ids.IdentifierId(n.Attachment(0))
		fmt.Fprintf(b, " id%d", id)
		if h.Flags&Definition_IsMut != 0 {
			b.WriteString(" mut")
		}
		if h.Flags&Definition_IsPub != 0 {
			b.WriteString(" pub")
		}
		if h.Flags&Definition_IsGlobal != 0 {
			b.WriteString(" global")
		}
	default:
		count := int(h.OwnQwords) - 1
		for i := 0; i < count; i++ {
			fmt.Fprintf(b, " 0x%x", n.Attachment(i))
		}
	}
}
