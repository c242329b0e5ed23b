// layout.go implements StorageLayout (spec.md §4.4): a post-resolution,
// pre-codegen walk assigning every Entry its final offset, deterministic
// and reproducible since it depends only on declaration order.
//
// Grounded on the offset-allocation idiom of smasonuk-sicpu's symtable.go
// (DefineParam/Allocate growing a frame downward from a fixed origin,
// tracking a running nextLocal cursor) rather than the teacher's, since
// vslc's multi-architecture backends compute frame layout per-target
// inside backend/<arch>/function.go; this repository has exactly one
// target (the MIPS stack machine of spec.md §4.5) so layout belongs here,
// beside the symbol table it annotates, as one explicit pass.
package ir

// Layout assigns StorageLayout offsets to every Entry reachable from
// program, per spec.md §4.4. Struct definitions are laid out first, so
// struct-typed variables laid out afterward can ask the arena their size.
func Layout(program *Node, arena *StructArena) {
	for _, d := range program.Children[0].Children {
		if d.Kind == StructDecl {
			layoutStruct(d.Entry, arena)
		}
	}
	for _, d := range program.Children[0].Children {
		if d.Kind == FnDecl {
			layoutFn(d, arena)
		}
	}
}

// layoutStruct assigns field offsets within a struct's own field table:
// 0, 4, 8, ... in declaration order, per spec.md §4.4.
func layoutStruct(defEntry *Entry, arena *StructArena) {
	fields := arena.Fields(defEntry.Def)
	off := 0
	for _, name := range fields.DeclOrder() {
		e, _ := fields.LookupLocal(name)
		e.Offset = off
		off += 4
	}
}

// StructSize returns the byte size of a struct definition: 4 bytes per
// field, per spec.md §4.4's "struct globals/locals reserve 4 x fields".
func StructSize(defEntry *Entry, arena *StructArena) int {
	return 4 * len(arena.Fields(defEntry.Def).DeclOrder())
}

// EntrySize returns the storage size of a scalar (4 bytes) or struct-typed
// (4 bytes per field) entry, per spec.md §4.4. A Struct entry's Def handle
// indexes its field table directly, so no StructDef Entry lookup is needed.
// Exported for CodeGenerator, which needs it to size global `.space`
// directives the same way layoutLocals sizes stack slots.
func EntrySize(e *Entry, arena *StructArena) int {
	if e.Kind != EntryStruct {
		return 4
	}
	return 4 * len(arena.Fields(e.Def).DeclOrder())
}

// layoutFn assigns parameter offsets (ascending from 0($fp)), then local
// offsets (descending from -(sizeParams+8)($fp)), per spec.md §4.4.
func layoutFn(n *Node, arena *StructArena) {
	fn := n.Entry.Fn
	formals, body := n.Children[2], n.Children[3]

	off := 0
	for _, fd := range formals.Children {
		id := fd.Children[1]
		id.Entry.Offset = off
		off += 4
	}
	fn.SizeParams = off

	start := -(fn.SizeParams + 8)
	end := layoutLocals(body, start, arena)
	fn.SizeLocals = start - end
	fn.NextOffset = end
}

// layoutLocals walks a Block's own local declarations and recurses into
// every nested Block (if/if-else/while/repeat bodies), since spec.md §4.4
// gives every local in the function one shared, ever-descending offset
// space regardless of which nested scope declares it.
func layoutLocals(block *Node, cursor int, arena *StructArena) int {
	for _, d := range block.Children[0].Children {
		e := d.Entry
		e.Offset = cursor
		cursor -= EntrySize(e, arena)
	}
	for _, s := range block.Children[1].Children {
		cursor = layoutStmtLocals(s, cursor, arena)
	}
	return cursor
}

func layoutStmtLocals(n *Node, cursor int, arena *StructArena) int {
	switch n.Kind {
	case StmtIf, StmtWhile, StmtRepeat:
		return layoutLocals(n.Children[1], cursor, arena)
	case StmtIfElse:
		cursor = layoutLocals(n.Children[1], cursor, arena)
		return layoutLocals(n.Children[2], cursor, arena)
	default:
		return cursor
	}
}
