package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmm/src/compiler"
	"cmm/src/ir"
)

func program(decls ...*ir.Node) *ir.Node {
	return ir.NewProgram(1, 1, ir.NewDeclList(1, 1, decls...))
}

func mainFn(body *ir.Node) *ir.Node {
	return ir.NewFnDecl(1, 1, ir.NewTypeVoid(1, 1), ir.NewId(1, 1, "main"), ir.NewFormalsList(1, 1), body)
}

func compile(t *testing.T, p *ir.Node) string {
	t.Helper()
	res := compiler.CompileTree(p)
	require.Empty(t, res.Diagnostic)
	require.NotEmpty(t, res.Assembly)
	return res.Assembly
}

// TestGenerateGlobalReservesSpace covers a global int's data-segment label
// and byte reservation, per spec.md §4.4/§4.5.
func TestGenerateGlobalReservesSpace(t *testing.T) {
	global := ir.NewVarDecl(1, 1, ir.NewTypeInt(1, 1), ir.NewId(1, 1, "counter"))
	body := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 1))
	asm := compile(t, program(global, mainFn(body)))

	assert.Contains(t, asm, "_counter:")
	assert.Contains(t, asm, ".space 4")
}

// TestGenerateMainLabelIsBare covers the "main" label convention: main
// never gets the leading underscore every other function label gets.
func TestGenerateMainLabelIsBare(t *testing.T) {
	body := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 1))
	asm := compile(t, program(mainFn(body)))

	assert.Contains(t, asm, "main:")
	assert.NotContains(t, asm, "_main:")
}

// TestGenerateFunctionLabelPrefixed covers every non-main function label.
func TestGenerateFunctionLabelPrefixed(t *testing.T) {
	fBody := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 1, ir.NewStmtReturn(1, 1, nil)))
	f := ir.NewFnDecl(1, 1, ir.NewTypeVoid(1, 1), ir.NewId(1, 1, "helper"), ir.NewFormalsList(1, 1), fBody)
	mBody := ir.NewBlock(2, 1, ir.NewDeclList(2, 1), ir.NewStmtList(2, 1))
	asm := compile(t, program(f, mainFn(mBody)))

	assert.Contains(t, asm, "_helper:")
}

// TestGenerateStringLiteralWrite covers cout of a string literal: an
// .asciiz directive for the literal, and a syscall 4 (not 1).
func TestGenerateStringLiteralWrite(t *testing.T) {
	write := ir.NewStmtWrite(1, 1, ir.NewExpStringLit(1, 1, "hi"))
	body := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 1, write))
	asm := compile(t, program(mainFn(body)))

	assert.Contains(t, asm, `.asciiz "hi"`)
	assert.Contains(t, asm, "li\t$v0, 4")
}

// TestGenerateIntWriteUsesSyscall1 covers cout of a plain int: syscall 1.
func TestGenerateIntWriteUsesSyscall1(t *testing.T) {
	write := ir.NewStmtWrite(1, 1, ir.NewExpIntLit(1, 1, 42))
	body := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 1, write))
	asm := compile(t, program(mainFn(body)))

	assert.Contains(t, asm, "li\t$v0, 1")
}

// TestGenerateIfElseBranchesAndJoins covers the canonical if-else template:
// a conditional branch to a .L label and an unconditional jump to a .L
// label (the jump over the else arm from the then arm).
func TestGenerateIfElseBranchesAndJoins(t *testing.T) {
	thenBlk := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 1, ir.NewStmtWrite(1, 1, ir.NewExpIntLit(1, 1, 1))))
	elseBlk := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 1, ir.NewStmtWrite(1, 1, ir.NewExpIntLit(1, 1, 2))))
	ifElse := ir.NewStmtIfElse(1, 1, ir.NewExpTrue(1, 1), thenBlk, elseBlk)
	body := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 2, ifElse))
	asm := compile(t, program(mainFn(body)))

	assert.Contains(t, asm, "beq\t$t0, $zero, .L")
	assert.Contains(t, asm, "j\t.L")
}

// TestGenerateWhileLoopsBackToTop covers the while template: a label opens
// the loop and an unconditional jump at the bottom returns to that same
// label.
func TestGenerateWhileLoopsBackToTop(t *testing.T) {
	loopBody := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 1, ir.NewStmtWrite(1, 1, ir.NewExpIntLit(1, 1, 1))))
	while := ir.NewStmtWhile(1, 1, ir.NewExpTrue(1, 1), loopBody)
	body := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 2, while))
	asm := compile(t, program(mainFn(body)))

	assert.Contains(t, asm, ".L0:")
	assert.Contains(t, asm, "j\t.L0")
}

// TestGenerateFunctionCallPushesArgsAndReturnValue covers the call
// convention: arguments pushed before jal, popped after, $v0 pushed as the
// call expression's result.
func TestGenerateFunctionCallPushesArgsAndReturnValue(t *testing.T) {
	fA := ir.NewFormalDecl(1, 1, ir.NewTypeInt(1, 1), ir.NewId(1, 1, "a"))
	fBody := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 1, ir.NewStmtReturn(1, 1, ir.NewExpId(1, 1, "a"))))
	f := ir.NewFnDecl(1, 1, ir.NewTypeInt(1, 1), ir.NewId(1, 1, "f"), ir.NewFormalsList(1, 1, fA), fBody)

	call := ir.NewExpCall(2, 1, ir.NewId(2, 1, "f"), ir.NewExpList(2, 1, ir.NewExpIntLit(2, 1, 7)))
	write := ir.NewStmtWrite(2, 1, call)
	mBody := ir.NewBlock(2, 1, ir.NewDeclList(2, 1), ir.NewStmtList(2, 2, write))

	asm := compile(t, program(f, mainFn(mBody)))

	assert.Contains(t, asm, "jal\t_f")
	assert.Contains(t, asm, "push\t$v0")
}

// TestGenerateStructFieldAddressing covers S6: a dot-access store computes
// the base address plus the field's own offset, not offset 0.
func TestGenerateStructFieldAddressing(t *testing.T) {
	structDecl := ir.NewStructDecl(1, 1, ir.NewId(1, 1, "P"),
		ir.NewDeclList(1, 1,
			ir.NewFormalDecl(1, 1, ir.NewTypeInt(1, 1), ir.NewId(1, 1, "x")),
			ir.NewFormalDecl(1, 1, ir.NewTypeInt(1, 1), ir.NewId(1, 1, "y")),
		),
	)
	pDecl := ir.NewVarDecl(2, 1, ir.NewTypeStructRef(2, 1, ir.NewId(2, 1, "P")), ir.NewId(2, 1, "p"))
	dot := ir.NewExpDot(3, 1, ir.NewExpId(3, 1, "p"), ir.NewId(3, 1, "y"))
	assign := ir.NewExpAssign(3, 2, dot, ir.NewExpIntLit(3, 2, 9))
	body := ir.NewBlock(2, 1, ir.NewDeclList(2, 1, pDecl), ir.NewStmtList(2, 2, assign))

	asm := compile(t, program(structDecl, mainFn(body)))

	assert.Contains(t, asm, "addi\t$t0, $t0, 4") // field y is the second field: offset 4.
}

// TestGenerateIncrDecrUseSeparateAddressAndValueRegisters covers S3
// (`x--; cout << x;`): the address must be computed once into $t0 and the
// loaded/modified value kept in a different register ($t1), so the store
// writes the incremented value back, not the address overwriting itself.
func TestGenerateIncrDecrUseSeparateAddressAndValueRegisters(t *testing.T) {
	xDecl := ir.NewVarDecl(1, 1, ir.NewTypeInt(1, 1), ir.NewId(1, 1, "x"))
	decr := ir.NewStmtDecr(1, 2, ir.NewExpId(1, 2, "x"))
	write := ir.NewStmtWrite(1, 3, ir.NewExpId(1, 3, "x"))
	body := ir.NewBlock(1, 1, ir.NewDeclList(1, 1, xDecl), ir.NewStmtList(1, 2, decr, write))
	asm := compile(t, program(mainFn(body)))

	assert.Contains(t, asm, "lw\t$t1, 0($t0)")
	assert.Contains(t, asm, "addi\t$t1, $t1, -1")
	assert.Contains(t, asm, "sw\t$t1, 0($t0)")
}

// TestGenerateAssignStatementDropsValue covers the rule that assignment is
// itself an expression: a bare assignment statement still emits the
// subsequent stack-drop, proving the assign path pushed a value to drop.
func TestGenerateAssignStatementDropsValue(t *testing.T) {
	xDecl := ir.NewVarDecl(1, 1, ir.NewTypeInt(1, 1), ir.NewId(1, 1, "x"))
	assign := ir.NewExpAssign(1, 2, ir.NewExpId(1, 2, "x"), ir.NewExpIntLit(1, 2, 1))
	body := ir.NewBlock(1, 1, ir.NewDeclList(1, 1, xDecl), ir.NewStmtList(1, 2, assign))
	asm := compile(t, program(mainFn(body)))

	assert.Contains(t, asm, "addi\t$sp, $sp, 4")
}
