// cmm compiles a single C-- translation unit to MIPS-style stack-machine
// assembly. Lexing and parsing are out of this repository's scope (spec.md
// §1); main wires a concrete frontend.Parser in exactly one place so the
// rest of the pipeline never has to know it exists.
package main

import (
	"fmt"
	"os"

	"cmm/src/driver"
	"cmm/src/ir"
	"cmm/src/util"
)

func main() {
	opt, err := util.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "cmm: %s\n", err)
		os.Exit(1)
	}

	out, err := driver.Run(opt, noParser{})
	if out != "" {
		if len(opt.Out) > 0 {
			if werr := os.WriteFile(opt.Out, []byte(out), 0644); werr != nil {
				fmt.Fprintf(os.Stderr, "cmm: could not write output: %s\n", werr)
				os.Exit(1)
			}
		} else {
			fmt.Print(out)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "cmm: %s\n", err)
		os.Exit(1)
	}
}

// noParser is the placeholder frontend.Parser wired here until a concrete
// scanner/parser is built; lexing/parsing is out of scope for this
// repository (spec.md §1), so main's only job is to satisfy the interface.
type noParser struct{}

func (noParser) Parse(src string) (*ir.Node, error) {
	return nil, fmt.Errorf("cmm: no parser configured")
}
