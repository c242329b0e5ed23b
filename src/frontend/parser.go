// Package frontend declares the boundary between this repository and the
// scanning/parsing stage spec.md §1 scopes out of the core: "lexing/
// parsing/CLI driver are external collaborators, referenced only by
// interface." Everything downstream (NameResolver, TypeChecker,
// StorageLayout, CodeGenerator) consumes the *ir.Node tree a Parser
// produces and never constructs one itself except in tests, which build
// trees directly with ir's typed constructors.
//
// The teacher (vslc) owns its own scanner/parser (frontend/lexer.go,
// frontend/tree.go, goyacc-generated grammar); this repository's frontend
// package is deliberately just the seam a real parser would plug into.
package frontend

import "cmm/src/ir"

// Parser turns source text into a resolved-free syntax tree rooted at a
// Program node, ready for ir.Resolver. Line/Pos on every node are 1-based.
type Parser interface {
	Parse(src string) (*ir.Node, error)
}
