package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/ilex/lang/ast"
	"github.com/mna/mainer"
)

// Parse builds the named sample's AST (spec §4.1) and prints it.
func (c *Cmd) Parse(_ context.Context, stdio mainer.Stdio, args []string) error {
	s, err := findSample(args[0])
	if err != nil {
		return printError(stdio, err)
	}

	asts, fileRoot, _ := buildFile(s)

	p := ast.Printer{Output: stdio.Stdout, Interner: interner, Sources: c.Sources}
	if err := p.Print(asts, fileRoot); err != nil {
		return printError(stdio, fmt.Errorf("parse: %w", err))
	}
	return nil
}
