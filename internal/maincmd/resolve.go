package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/ilex/lang/ast"
	"github.com/mna/ilex/lang/diag"
	"github.com/mna/ilex/lang/resolver"
	"github.com/mna/mainer"
)

// Resolve builds the named sample's AST, runs the lexical scope analyser
// over it (spec §4.4), and prints the resulting AST. No sample in the
// registry references a name outside its own file, so resolution always
// runs with a nil resolver.GlobalLookup.
func (c *Cmd) Resolve(_ context.Context, stdio mainer.Stdio, args []string) error {
	s, err := findSample(args[0])
	if err != nil {
		return printError(stdio, err)
	}

	asts, fileRoot, _ := buildFile(s)

	var errs diag.ErrorList
	a := resolver.NewAnalyser(asts, diag.NewSink(&errs), nil)
	a.Resolve(fileRoot)

	errs.Sort()
	if errs.Len() > 0 {
		return printError(stdio, fmt.Errorf("resolve: %w", errs.Err()))
	}

	p := ast.Printer{Output: stdio.Stdout, Interner: interner, Sources: c.Sources}
	if err := p.Print(asts, fileRoot); err != nil {
		return printError(stdio, fmt.Errorf("resolve: %w", err))
	}
	return nil
}
