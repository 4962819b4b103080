package ast

import "github.com/mna/ilex/lang/ids"

// IdentifierId returns the identifier named by n. Valid for Identifier,
// Definition, Parameter, Label and Goto nodes, whose first attachment
// word is always an IdentifierId (node.go: attachmentWords).
func (n Node) IdentifierId() ids.IdentifierId {
	switch n.Tag() {
	case Identifier, Definition, Parameter, Label, Goto:
		return ids.IdentifierId(n.Attachment(0))
	default:
		panic("ast: IdentifierId called on a node with no identifier attachment")
	}
}

// NameBindingWord returns the raw second attachment word of an Identifier
// node, into which the resolver packs a NameBinding (resolver.NameBinding.
// Encode). Zero until the scope analyser visits the node.
func (n Node) NameBindingWord() uint64 {
	if n.Tag() != Identifier {
		panic("ast: NameBindingWord called on a non-Identifier node")
	}
	return n.Attachment(1)
}

// SetNameBindingWord overwrites an Identifier node's NameBinding word.
func (n Node) SetNameBindingWord(w uint64) {
	if n.Tag() != Identifier {
		panic("ast: SetNameBindingWord called on a non-Identifier node")
	}
	n.SetAttachment(1, w)
}
