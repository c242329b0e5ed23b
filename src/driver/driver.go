// Package driver wires util.Options, a frontend.Parser and the compiler
// package together into the CLI-surface spec.md §6 names, exactly the
// shape of the teacher's main.go run() function: read source, parse,
// run the phases, write whichever output the mode flag selected.
//
// Lexing/parsing is an external collaborator (spec.md §1); Run takes a
// frontend.Parser instead of constructing one, so this package never needs
// to know how source text becomes a tree.
package driver

import (
	"fmt"

	"cmm/src/compiler"
	"cmm/src/frontend"
	"cmm/src/util"
)

// Run reads source per opt, parses it with p, compiles it, and returns the
// text to write to opt.Out (or stdout): assembly, an AST dump, or a
// resolution report, per opt.Mode. A read or parse failure returns an empty
// string and a non-nil error. When a phase reported diagnostics, Run still
// returns the selected output (empty assembly if code generation was
// skipped) together with a non-nil error listing every diagnostic.
func Run(opt util.Options, p frontend.Parser) (string, error) {
	src, err := util.ReadSource(opt)
	if err != nil {
		return "", fmt.Errorf("could not read source: %w", err)
	}

	res, err := compiler.Compile(p, src)
	if err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}

	var out string
	switch opt.Mode {
	case util.ModeAST:
		out = res.Program.Print(0)
	case util.ModeResolve:
		out = res.Table.Print()
	default:
		out = res.Assembly
	}

	if len(res.Diagnostic) > 0 {
		msg := ""
		for _, d := range res.Diagnostic {
			msg += d.String() + "\n"
		}
		return out, fmt.Errorf("compilation %s: %d diagnostic(s) reported:\n%s",
			res.CompilationID, len(res.Diagnostic), msg)
	}
	return out, nil
}
