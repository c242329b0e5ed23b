// io.go provides Writer, a small helper for formatting assembly text, and
// ReadSource for loading a translation unit from disk or stdin.
//
// The teacher this package is adapted from (vslc) dispatches Writer output
// through a channel-based actor so several worker goroutines can emit
// assembly concurrently for different functions. This compiler's phases are
// single-threaded and synchronous (one AST walk per phase, run to
// completion before the next begins), so the actor and its channels are
// gone; Writer now just appends to a strings.Builder that the caller reads
// with String() once generation is done.

package util

import (
	"bufio"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"time"
)

// Writer accumulates emitted assembly text through small instruction
// formatting helpers that mirror the shapes code generation needs most
// often: bare opcodes, register-to-register moves, immediates, and
// load/store with a displacement.
type Writer struct {
	sb strings.Builder
}

// Write writes a raw line of text, terminated by a newline.
func (w *Writer) Write(format string, args ...interface{}) {
	w.sb.WriteString(fmt.Sprintf(format, args...))
	w.sb.WriteByte('\n')
}

// WriteString writes a plain string verbatim, without a trailing newline.
func (w *Writer) WriteString(s string) {
	w.sb.WriteString(s)
}

// Ins1 writes a one-operand instruction, e.g. "jr $ra".
func (w *Writer) Ins1(op, rs1 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s\n", op, rs1))
}

// Ins2 writes a two-operand instruction, e.g. "move $t0, $t1".
func (w *Writer) Ins2(op, rd, rs1 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s\n", op, rd, rs1))
}

// Ins2imm writes a two-operand instruction with a signed immediate, e.g.
// "addi $sp, $sp, -4".
func (w *Writer) Ins2imm(op, rd, rs1 string, imm int) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s, %d\n", op, rd, rs1, imm))
}

// Ins3 writes a three-operand instruction, e.g. "add $t0, $t0, $t1".
func (w *Writer) Ins3(op, rd, rs1, rs2 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s, %s\n", op, rd, rs1, rs2))
}

// LoadStore writes a load or store instruction with a register offset from
// a pointer register, e.g. "lw $t0, -8($fp)".
func (w *Writer) LoadStore(op, reg string, offset int, pointer string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %d(%s)\n", op, reg, offset, pointer))
}

// Label writes a bare label line, e.g. ".L3:".
func (w *Writer) Label(name string) {
	w.sb.WriteString(name + ":\n")
}

// Directive writes an assembler directive line, e.g. ".space 4".
func (w *Writer) Directive(format string, args ...interface{}) {
	w.sb.WriteString("\t" + fmt.Sprintf(format, args...) + "\n")
}

// String returns the accumulated assembly text.
func (w *Writer) String() string {
	return w.sb.String()
}

// ReadSource reads source code from a file named in Options.Src, or from
// stdin if no file was given. Reading from stdin gives up after a short
// grace period so a forgotten input redirect doesn't hang the compiler
// forever.
func ReadSource(opt Options) (string, error) {
	if len(opt.Src) > 0 {
		b, err := ioutil.ReadFile(opt.Src)
		return string(b), err
	}

	c := make(chan string)
	cerr := make(chan error)
	go func() {
		defer close(c)
		defer close(cerr)
		reader := bufio.NewReader(os.Stdin)
		text, err := reader.ReadString(0)
		if err != nil && len(text) == 0 {
			cerr <- err
			return
		}
		c <- text
	}()

	select {
	case <-time.After(500 * time.Millisecond):
		return "", errors.New("expected input from stdin, got none")
	case s := <-c:
		return s, nil
	case err := <-cerr:
		return "", err
	}
}
