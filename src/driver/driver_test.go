package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmm/src/driver"
	"cmm/src/ir"
	"cmm/src/util"
)

type stubParser struct {
	program *ir.Node
}

func (s stubParser) Parse(src string) (*ir.Node, error) {
	return s.program, nil
}

func tempSource(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.cmm")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func cleanProgram() *ir.Node {
	body := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 1))
	main := ir.NewFnDecl(1, 1, ir.NewTypeVoid(1, 1), ir.NewId(1, 1, "main"), ir.NewFormalsList(1, 1), body)
	return ir.NewProgram(1, 1, ir.NewDeclList(1, 1, main))
}

func TestRunAssemblyMode(t *testing.T) {
	opt := util.Options{Src: tempSource(t, "unused by stub"), Mode: util.ModeAssembly}
	out, err := driver.Run(opt, stubParser{program: cleanProgram()})

	require.NoError(t, err)
	assert.Contains(t, out, "main:")
}

func TestRunASTMode(t *testing.T) {
	opt := util.Options{Src: tempSource(t, "unused by stub"), Mode: util.ModeAST}
	out, err := driver.Run(opt, stubParser{program: cleanProgram()})

	require.NoError(t, err)
	assert.Contains(t, out, "Program")
}

func TestRunResolveMode(t *testing.T) {
	opt := util.Options{Src: tempSource(t, "unused by stub"), Mode: util.ModeResolve}
	out, err := driver.Run(opt, stubParser{program: cleanProgram()})

	require.NoError(t, err)
	assert.Contains(t, out, "main")
}

// TestRunReportsDiagnosticsAsError covers spec.md §7: a reported diagnostic
// surfaces as an error even though output (the partial/empty assembly) is
// still returned to the caller.
func TestRunReportsDiagnosticsAsError(t *testing.T) {
	write := ir.NewStmtWrite(1, 1, ir.NewExpId(1, 1, "missing"))
	body := ir.NewBlock(1, 1, ir.NewDeclList(1, 1), ir.NewStmtList(1, 1, write))
	main := ir.NewFnDecl(1, 1, ir.NewTypeVoid(1, 1), ir.NewId(1, 1, "main"), ir.NewFormalsList(1, 1), body)
	badProgram := ir.NewProgram(1, 1, ir.NewDeclList(1, 1, main))

	opt := util.Options{Src: tempSource(t, "unused by stub"), Mode: util.ModeAssembly}
	_, err := driver.Run(opt, stubParser{program: badProgram})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undeclared identifier")
}
