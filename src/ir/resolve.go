// resolve.go implements the NameResolver of spec.md §4.2: a single
// depth-first walk that builds the global Table, binds every declaration
// to an Entry, and attaches the resolved Entry to every identifier and
// struct-field occurrence.
//
// The teacher's closest equivalent is ir/validate.go's recursive switch
// over Node.Typ, one case per grammar production, threading a *util.Stack
// of scope frames by hand; this file keeps that single-switch-per-node-kind
// shape but drives it through the Table type symtab.go now provides instead
// of validate.go's bare stack-of-maps, and reports through a *report.Reporter
// instead of returning the first error (spec.md §7 requires accumulation,
// not abort-on-first-error, within a phase).
package ir

import "cmm/src/report"

// Resolver runs the NameResolver over one compilation unit.
type Resolver struct {
	table  *Table
	arena  StructArena
	report *report.Reporter
}

// NewResolver returns a Resolver reporting diagnostics to rep.
func NewResolver(rep *report.Reporter) *Resolver {
	return &Resolver{table: NewTable(), report: rep}
}

// Table returns the global-scope symbol table the resolver built. Valid
// after Resolve returns.
func (r *Resolver) Table() *Table { return r.table }

// Arena returns the struct-field-table arena the resolver populated. Valid
// after Resolve returns; TypeChecker, StorageLayout and CodeGenerator all
// need it to look up a struct's field table by handle.
func (r *Resolver) Arena() *StructArena { return &r.arena }

// Resolve walks program (a Program node) and annotates it in place.
func (r *Resolver) Resolve(program *Node) {
	r.table.AddScope() // the one global frame; never popped.
	for _, d := range program.Children[0].Children {
		r.decl(d)
	}
}

// decl dispatches a top-level or nested declaration node.
func (r *Resolver) decl(n *Node) {
	switch n.Kind {
	case VarDecl:
		r.varDecl(n)
	case FnDecl:
		r.fnDecl(n)
	case StructDecl:
		r.structDecl(n)
	default:
		panic("ir: resolve: unexpected declaration kind " + n.Kind.String())
	}
}

// varDecl implements spec.md §4.2's VarDecl rule.
func (r *Resolver) varDecl(n *Node) {
	typ, id := n.Children[0], n.Children[1]
	name := id.Data.(string)

	t, ok := r.resolveDeclType(typ)
	if !ok {
		return
	}

	if local, _ := r.table.LookupLocal(name); local != nil {
		r.report.Reportf(n.Line, n.Pos, "Multiply declared identifier")
		return
	}

	isGlobal := r.table.Depth() == 1
	e := &Entry{Type: t, IsGlobal: isGlobal}
	if t.IsStructVar() {
		e.Kind = EntryStruct
		def, _ := r.table.LookupGlobal(t.StructName)
		e.Def = def.Def
	} else {
		e.Kind = EntryVar
	}
	_ = r.table.AddDecl(name, e)
	n.Entry = e
	id.Entry = e
}

// resolveDeclType resolves the type node of a VarDecl/FormalDecl, reporting
// and returning ok=false for void and unknown struct names.
func (r *Resolver) resolveDeclType(typ *Node) (Type, bool) {
	switch typ.Kind {
	case TypeInt:
		return Int, true
	case TypeBool:
		return Bool, true
	case TypeVoid:
		r.report.Reportf(typ.Line, typ.Pos, "Non-function declared void")
		return Type{}, false
	case TypeStructRef:
		name := typ.Children[0].Data.(string)
		def, _ := r.table.LookupGlobal(name)
		if def == nil || def.Kind != EntryStructDef {
			r.report.Reportf(typ.Line, typ.Pos, "Invalid name of struct type")
			return Type{}, false
		}
		typ.Children[0].Entry = def
		return StructType(name), true
	default:
		panic("ir: resolve: unexpected type node kind " + typ.Kind.String())
	}
}

// fnDecl implements spec.md §4.2's FnDecl rule.
func (r *Resolver) fnDecl(n *Node) {
	typ, id, formals, body := n.Children[0], n.Children[1], n.Children[2], n.Children[3]
	name := id.Data.(string)

	var retType Type
	if typ.Kind == TypeVoid {
		retType = Void
	} else {
		t, ok := r.resolveDeclType(typ)
		if !ok {
			return
		}
		retType = t
	}

	if local, _ := r.table.LookupLocal(name); local != nil {
		r.report.Reportf(n.Line, n.Pos, "Multiply declared identifier")
		return
	}

	fn := &FnInfo{ReturnType: retType}
	e := &Entry{Kind: EntryFn, Type: Fn, Fn: fn, IsGlobal: true}
	_ = r.table.AddDecl(name, e)
	n.Entry = e
	id.Entry = e

	r.table.AddScope()
	for _, fd := range formals.Children {
		if t, ok := r.formalDecl(fd); ok {
			fn.Params = append(fn.Params, t)
		}
	}
	r.block(body)
	_ = r.table.RemoveScope()
}

// formalDecl implements spec.md §4.2's FormalDecl rule, returning the
// resolved type (and ok=false on rejection) so fnDecl can assemble the
// function's parameter list.
func (r *Resolver) formalDecl(n *Node) (Type, bool) {
	typ, id := n.Children[0], n.Children[1]
	name := id.Data.(string)

	t, ok := r.resolveDeclType(typ)
	if !ok {
		return Type{}, false
	}
	if local, _ := r.table.LookupLocal(name); local != nil {
		r.report.Reportf(n.Line, n.Pos, "Multiply declared identifier")
		return Type{}, false
	}

	e := &Entry{Kind: EntryVar, Type: t}
	if t.IsStructVar() {
		e.Kind = EntryStruct
		def, _ := r.table.LookupGlobal(t.StructName)
		e.Def = def.Def
	}
	_ = r.table.AddDecl(name, e)
	n.Entry = e
	id.Entry = e
	return t, true
}

// structDecl implements spec.md §4.2's StructDecl rule.
func (r *Resolver) structDecl(n *Node) {
	id, fields := n.Children[0], n.Children[1]
	name := id.Data.(string)

	if local, _ := r.table.LookupLocal(name); local != nil {
		r.report.Reportf(n.Line, n.Pos, "Multiply declared identifier")
		return
	}

	h := r.arena.New()
	e := &Entry{Kind: EntryStructDef, Type: StructDefType(name), Def: h}
	_ = r.table.AddDecl(name, e)
	n.Entry = e
	id.Entry = e

	inner := r.arena.Fields(h)
	inner.AddScope()
	savedTable := r.table
	r.table = inner
	for _, fd := range fields.Children {
		typ, fid := fd.Children[0], fd.Children[1]
		// Field types resolve struct names against the outer (global) table,
		// per spec.md §4.2; the type-node switch only ever calls
		// r.table.LookupGlobal, so swap tables around that one call.
		r.table = savedTable
		t, ok := r.resolveDeclType(typ)
		r.table = inner
		if !ok {
			continue
		}
		fname := fid.Data.(string)
		if local, _ := inner.LookupLocal(fname); local != nil {
			r.report.Reportf(fd.Line, fd.Pos, "Multiply declared identifier")
			continue
		}
		fe := &Entry{Kind: EntryVar, Type: t}
		if t.IsStructVar() {
			fe.Kind = EntryStruct
			def, _ := savedTable.LookupGlobal(t.StructName)
			fe.Def = def.Def
		}
		_ = inner.AddDecl(fname, fe)
		fd.Entry = fe
		fid.Entry = fe
	}
	r.table = savedTable
}

// block resolves a Block node's local declarations then its statements,
// inside the scope its caller has already pushed. Per spec.md §4.2,
// function bodies share the one scope pushed in fnDecl; if/while/repeat
// bodies push their own (see stmt).
func (r *Resolver) block(n *Node) {
	decls, stmts := n.Children[0], n.Children[1]
	for _, d := range decls.Children {
		r.varDecl(d)
	}
	for _, s := range stmts.Children {
		r.stmt(s)
	}
}

// scopedBlock pushes a new scope, resolves n, and pops it: the discipline
// spec.md §4.2 requires for if/if-else/while/repeat bodies (function bodies
// instead share the scope fnDecl already pushed for their formals).
func (r *Resolver) scopedBlock(n *Node) {
	r.table.AddScope()
	r.block(n)
	_ = r.table.RemoveScope()
}

// stmt dispatches a statement node.
func (r *Resolver) stmt(n *Node) {
	switch n.Kind {
	case StmtIf:
		r.expr(n.Children[0])
		r.scopedBlock(n.Children[1])
	case StmtIfElse:
		r.expr(n.Children[0])
		r.scopedBlock(n.Children[1])
		r.scopedBlock(n.Children[2])
	case StmtWhile:
		r.expr(n.Children[0])
		r.scopedBlock(n.Children[1])
	case StmtRepeat:
		r.expr(n.Children[0])
		r.scopedBlock(n.Children[1])
	case StmtRead:
		r.expr(n.Children[0])
	case StmtWrite:
		r.expr(n.Children[0])
	case StmtIncr, StmtDecr:
		r.expr(n.Children[0])
	case StmtReturn:
		if len(n.Children) > 0 {
			r.expr(n.Children[0])
		}
	case ExpAssign, ExpCall:
		r.expr(n)
	default:
		panic("ir: resolve: unexpected statement kind " + n.Kind.String())
	}
}

// expr resolves identifier occurrences and dot-access chains and recurses
// into every expression's children, per spec.md §4.2's Id-occurrence and
// DotAccess rules.
func (r *Resolver) expr(n *Node) {
	switch n.Kind {
	case ExpIntLit, ExpStringLit, ExpTrue, ExpFalse:
		// Leaves; nothing to resolve.
	case ExpId:
		name := n.Data.(string)
		e, _ := r.table.LookupGlobal(name)
		if e == nil {
			r.report.Reportf(n.Line, n.Pos, "Undeclared identifier")
			return
		}
		n.Entry = e
	case ExpDot:
		r.resolveDot(n)
	case ExpAssign:
		r.expr(n.Children[0])
		r.expr(n.Children[1])
	case ExpCall:
		callee := n.Children[0]
		name := callee.Data.(string)
		e, _ := r.table.LookupGlobal(name)
		if e == nil {
			r.report.Reportf(callee.Line, callee.Pos, "Undeclared identifier")
		} else {
			callee.Entry = e
		}
		for _, a := range n.Children[1].Children {
			r.expr(a)
		}
	case ExpUnaryMinus, ExpNot:
		r.expr(n.Children[0])
	default:
		// Binary arithmetic/logical/relational expressions: two children,
		// no further resolution work of their own beyond recursing.
		for _, c := range n.Children {
			r.expr(c)
		}
	}
}

// resolveDot implements spec.md §4.2's DotAccess rule, chaining through
// nested struct fields and marking unresolved chains with badAccess so a
// broken base doesn't cascade into a second, misleading diagnostic.
func (r *Resolver) resolveDot(n *Node) {
	base, field := n.Children[0], n.Children[1]
	r.expr(base)

	baseEntry := base.Entry
	if baseEntry == nil || baseEntry.Kind != EntryStruct || badAccess(base) {
		// An undeclared base Id was already reported by expr.
		if !badAccess(base) && !(base.Kind == ExpId && baseEntry == nil) {
			r.report.Reportf(n.Line, n.Pos, "Dot-access of non-struct type")
		}
		n.Entry = nil
		n.Data = true // badAccess marker.
		return
	}

	fields := r.arena.Fields(baseEntry.Def)
	fname := field.Data.(string)
	fe, _ := fields.LookupLocal(fname)
	if fe == nil {
		r.report.Reportf(field.Line, field.Pos, "Invalid struct field name")
		n.Entry = nil
		n.Data = true
		return
	}
	field.Entry = fe
	n.Entry = fe
}

// badAccess reports whether n is a DotAccess whose chain already broke
// upstream, per spec.md §4.2's cascade-suppression marker.
func badAccess(n *Node) bool {
	if n.Kind != ExpDot {
		return false
	}
	v, ok := n.Data.(bool)
	return ok && v
}
