package resolver

import (
	"github.com/mna/ilex/lang/ast"
	"github.com/mna/ilex/lang/diag"
	"github.com/mna/ilex/lang/ids"
)

// GlobalLookup resolves a name that isn't bound by any open lexical scope
// to a cross-file global, per spec §3's `(global_file_index, rank)`
// NameBinding shape. The real global registry lives outside the four
// in-scope cores (spec §6's external interfaces); a driver wires this in
// once it has built one. A nil GlobalLookup simply means "no globals",
// and every such miss is reported as an unresolved identifier.
type GlobalLookup func(name ids.IdentifierId) (fileIndex, rank uint32, ok bool)

// Analyser is the lexical scope analyser of spec §4.4: a depth-stacked
// (bounded at ids.MaxAstDepth) set of scope maps that resolves every
// Identifier node of a completed AST to a NameBinding, annotating the
// node in place.
type Analyser struct {
	asts   *ast.Pool
	errs   diag.Sink
	stack  []*scope
	// funcBoundaries[i] is the stack depth (len(stack) at the time) at
	// which the i'th currently-open Func's body scope begins. A binding
	// found below the top entry crosses a function boundary and must be
	// reported as BindingClosure rather than BindingLexical, since it has
	// to be captured into the callee's closure list (spec §3's NameBinding
	// "closed-over slot" case) rather than reached by a fixed scope jump.
	funcBoundaries []int

	globals  GlobalLookup
	hadError bool
}

// NewAnalyser returns an analyser over asts that reports diagnostics to
// errs. globals may be nil.
func NewAnalyser(asts *ast.Pool, errs diag.Sink, globals GlobalLookup) *Analyser {
	return &Analyser{asts: asts, errs: errs, globals: globals}
}

// HasError reports whether any identifier failed to resolve since the
// analyser was created, per spec §4.4.1's "accumulate into an error
// flag".
func (a *Analyser) HasError() bool { return a.hadError }

// SetPrelude installs the hard-coded prelude scope (spec §3: "a separate
// 'prelude' scope is installed once and left at the bottom of the
// stack"), binding each of names in order starting at rank 0. It must be
// called at most once, before the first call to Resolve.
func (a *Analyser) SetPrelude(names []ids.IdentifierId) {
	if len(a.stack) != 0 {
		panic("resolver: SetPrelude called after scopes are already open")
	}
	s := newScope(len(names))
	for _, n := range names {
		s.insert(n)
	}
	a.pushScope(s)
}

func (a *Analyser) pushScope(s *scope) {
	if len(a.stack) >= ids.MaxAstDepth {
		panic("resolver: maximum AST depth exceeded")
	}
	a.stack = append(a.stack, s)
}

func (a *Analyser) popScope() {
	a.stack = a.stack[:len(a.stack)-1]
}

// Resolve implements resolve_names_root (spec §4.4.1) for a single file's
// root node: file-level Definitions get forward visibility (every
// top-level name is visible throughout the file, including before its
// own declaration), then every child is resolved.
func (a *Analyser) Resolve(root ids.AstNodeId) {
	fileScope := newScope(8)

	it := a.asts.Children(root)
	for {
		child, ok := it.Next()
		if !ok {
			break
		}
		if a.asts.Node(child).Tag() == ast.Definition {
			fileScope.insert(a.asts.Node(child).IdentifierId())
		}
	}

	a.pushScope(fileScope)
	defer a.popScope()

	it = a.asts.Children(root)
	for {
		child, ok := it.Next()
		if !ok {
			break
		}
		if a.asts.Node(child).Tag() == ast.Definition {
			// the name itself is already bound above; only its subtrees need
			// resolving.
			a.resolveChildren(child)
		} else {
			a.resolveRec(child)
		}
	}
}

// resolveChildren recurses into node's direct children without altering
// the current scope, used for Definition nodes whose name binding has
// already been installed by a caller.
func (a *Analyser) resolveChildren(node ids.AstNodeId) {
	it := a.asts.Children(node)
	for {
		child, ok := it.Next()
		if !ok {
			return
		}
		a.resolveRec(child)
	}
}

// resolveRec implements resolve_names_rec (spec §4.4.1).
func (a *Analyser) resolveRec(node ids.AstNodeId) {
	n := a.asts.Node(node)

	switch n.Tag() {
	case ast.Identifier:
		a.resolveIdentifier(n)

	case ast.Func:
		// special-cased: the signature's parameter scope must stay live for
		// the body, and is only popped once both have been resolved.
		children := a.directChildren(node)
		if len(children) != 2 {
			panic("resolver: Func node must have exactly two children (signature, body)")
		}
		sig, body := children[0], children[1]
		if a.asts.Node(sig).Tag() != ast.Signature {
			panic("resolver: Func's first child must be a Signature")
		}

		a.pushScope(newScope(4))
		a.funcBoundaries = append(a.funcBoundaries, len(a.stack))
		a.resolveChildren(sig)
		a.resolveRec(body)
		a.funcBoundaries = a.funcBoundaries[:len(a.funcBoundaries)-1]
		a.popScope()

	case ast.Definition, ast.Parameter:
		top := a.stack[len(a.stack)-1]
		top.insert(n.IdentifierId())
		a.resolveChildren(node)

	case ast.Block, ast.Signature:
		a.pushScope(newScope(4))
		a.resolveChildren(node)
		a.popScope()

	default:
		a.resolveChildren(node)
	}
}

func (a *Analyser) directChildren(node ids.AstNodeId) []ids.AstNodeId {
	var out []ids.AstNodeId
	it := a.asts.Children(node)
	for {
		child, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, child)
	}
}

func (a *Analyser) resolveIdentifier(n ast.Node) {
	name := n.IdentifierId()

	for i := len(a.stack) - 1; i >= 0; i-- {
		rank, ok := a.stack[i].lookup(name)
		if !ok {
			continue
		}

		out := uint32(len(a.stack) - 1 - i)

		if crosses := a.crossesFuncBoundary(i); crosses {
			n.SetNameBindingWord(NameBinding{
				Kind:            BindingClosure,
				ClosureRank:     rank,
				FromClosureCell: a.crossesMultipleFuncBoundaries(i),
			}.Encode())
		} else {
			n.SetNameBindingWord(NameBinding{Kind: BindingLexical, Out: out, Rank: rank}.Encode())
		}
		return
	}

	if a.globals != nil {
		if fileIndex, rank, ok := a.globals(name); ok {
			n.SetNameBindingWord(NameBinding{Kind: BindingGlobal, GlobalFileIndex: fileIndex, Rank: rank}.Encode())
			return
		}
	}

	a.hadError = true
	a.errs.Errorf(n.Source(), "identifier %d is not defined", name)
}

// crossesFuncBoundary reports whether the scope at stack depth i lies
// outside the innermost currently-open function, i.e. whether reaching it
// requires closure capture rather than a plain scope jump.
func (a *Analyser) crossesFuncBoundary(i int) bool {
	if len(a.funcBoundaries) == 0 {
		return false
	}
	return i < a.funcBoundaries[len(a.funcBoundaries)-1]
}

// crossesMultipleFuncBoundaries reports whether the scope at stack depth
// i lies outside more than one enclosing function, meaning the captured
// slot is itself forwarded from a still-outer closure rather than read
// directly out of a live scope.
func (a *Analyser) crossesMultipleFuncBoundaries(i int) bool {
	count := 0
	for _, b := range a.funcBoundaries {
		if i < b {
			count++
		}
	}
	return count > 1
}
