package opcode

import "github.com/mna/ilex/lang/ids"

// Fixup records a pending code region: a destination operand slot to
// patch with the address of the region about to be emitted, the AST node
// whose expression compiles into that region, and the write-context
// requirement it must be compiled with, per spec §4.3.2.
type Fixup struct {
	Dst             ids.OpcodeId
	Node            ids.AstNodeId
	ExpectsWriteCtx bool

	// IsFuncBody marks a fixup whose region is a function body: after
	// compiling Node, a Return is appended before the EndCode terminator
	// (the body's own trailing expression becomes its return value).
	IsFuncBody bool

	// Templated-parameter completion metadata: at most one of
	// HasTemplateType/HasTemplateValue is consulted unless both are set (a
	// parameter with both a type and a default value spans two fixups, the
	// second of which has Dst == InvalidOpcodeId to mark it a continuation
	// of the first, per §4.3.2's "entries with fixup_dst == INVALID
	// continue the preceding entry's region").
	TemplateParameterRank uint8
	HasTemplateType       bool
	HasTemplateValue      bool
}

// emitFixup pushes a plain branch/body/argument-thunk fixup.
func (p *Pool) emitFixup(dst ids.OpcodeId, node ids.AstNodeId, expectsWriteCtx bool) {
	p.fixups = append(p.fixups, Fixup{Dst: dst, Node: node, ExpectsWriteCtx: expectsWriteCtx})
}

// emitFixupForFunctionBody pushes a fixup for a Func's body: calls always
// supply a write context, so a bound function body must always expect
// one.
func (p *Pool) emitFixupForFunctionBody(dst ids.OpcodeId, node ids.AstNodeId) {
	p.fixups = append(p.fixups, Fixup{Dst: dst, Node: node, ExpectsWriteCtx: true, IsFuncBody: true})
}

// emitFixupForTemplateParameter pushes a fixup whose completion, once
// compiled, needs a CompleteParamTyped{No,With}Default / CompleteParamUntyped
// trailer instead of a plain EndCode.
func (p *Pool) emitFixupForTemplateParameter(dst ids.OpcodeId, node ids.AstNodeId, rank uint8, hasType, hasValue bool) {
	p.fixups = append(p.fixups, Fixup{
		Dst: dst, Node: node,
		TemplateParameterRank: rank,
		HasTemplateType:       hasType,
		HasTemplateValue:      hasValue,
	})
}

// completeSingleFixup implements complete_single_fixup: it patches fixup's
// destination slot (unless it is a continuation) and compiles its node.
func (e *Emitter) completeSingleFixup(f Fixup) error {
	loc := ids.OpcodeId(e.pool.codes.Len())

	if f.Dst.IsValid() {
		e.pool.patchOpcodeId(f.Dst, loc)
	}

	return e.emitExpression(f.Node, f.ExpectsWriteCtx)
}

// CompleteFixups drains the fixup queue (spec §4.3.2 step 3-4): each
// fixup's region is compiled, trailed by a completion opcode appropriate
// to its role, and finally an EndCode terminator. Compiling a fixup's
// region may itself push further fixups, which are then drained in turn.
func (e *Emitter) CompleteFixups() error {
	p := e.pool

	for len(p.fixups) != 0 {
		curr := p.fixups[len(p.fixups)-1]
		p.fixups = p.fixups[:len(p.fixups)-1]

		if !curr.Dst.IsValid() {
			prev := p.fixups[len(p.fixups)-1]
			p.fixups = p.fixups[:len(p.fixups)-1]

			if !prev.Dst.IsValid() {
				panic("opcode: fixup continuation is not transitive")
			}
			if prev.TemplateParameterRank != 0 || prev.HasTemplateType || prev.HasTemplateValue {
				panic("opcode: a continued fixup's lead entry cannot itself be a template-parameter completion")
			}

			if err := e.completeSingleFixup(prev); err != nil {
				return err
			}
		}

		if err := e.completeSingleFixup(curr); err != nil {
			return err
		}

		switch {
		case curr.HasTemplateType && curr.HasTemplateValue:
			p.emit(CompleteParamTypedWithDefault, false, curr.Node, curr.TemplateParameterRank)
		case curr.HasTemplateType:
			p.emit(CompleteParamTypedNoDefault, false, curr.Node, curr.TemplateParameterRank)
		case curr.HasTemplateValue:
			p.emit(CompleteParamUntyped, false, curr.Node, curr.TemplateParameterRank)
		case curr.IsFuncBody:
			p.emit(Return, false, curr.Node)
		}

		p.emit(EndCode, false, curr.Node)
	}

	return nil
}
