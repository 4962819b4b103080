package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/ilex/lang/diag"
	"github.com/mna/ilex/lang/opcode"
	"github.com/mna/ilex/lang/resolver"
	"github.com/mna/mainer"
)

// Compile runs Resolve's pipeline, then emits the sample's single file
// member (spec §4.3) and prints the disassembled instruction stream.
func (c *Cmd) Compile(_ context.Context, stdio mainer.Stdio, args []string) error {
	s, err := findSample(args[0])
	if err != nil {
		return printError(stdio, err)
	}

	asts, fileRoot, member := buildFile(s)

	var errs diag.ErrorList
	a := resolver.NewAnalyser(asts, diag.NewSink(&errs), nil)
	a.Resolve(fileRoot)

	errs.Sort()
	if errs.Len() > 0 {
		return printError(stdio, fmt.Errorf("compile: %w", errs.Err()))
	}

	pool := opcode.NewPool(asts, 256)
	emitter := opcode.NewEmitter(pool)
	if _, err := emitter.EmitFileMember(member, 0, 0); err != nil {
		return printError(stdio, fmt.Errorf("compile: %w", err))
	}

	fmt.Fprint(stdio.Stdout, opcode.Disassemble(pool))
	return nil
}
