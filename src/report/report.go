// Package report implements the ErrorReporter spec.md §3 names: a sink for
// line/col-tagged diagnostics that flips a monotone "error encountered" flag
// and never panics or unwinds.
//
// The teacher (vslc, util/perror.go) buffers errors behind a channel-fed
// goroutine so several worker threads validating different functions in
// parallel (its `-t <threads>` flag) can report concurrently without a data
// race. spec.md §5 runs every phase single-threaded and synchronously, so
// the channel/goroutine actor has no job to do here; what's kept is the
// mutex-guarded slice-of-errors idiom and the Len accessor.
package report

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Diagnostic is one reported message, tagged with the source position that
// produced it.
type Diagnostic struct {
	Line    int
	Pos     int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d ***ERROR*** %s", d.Line, d.Pos, d.Message)
}

// Reporter accumulates diagnostics across a single compilation and exposes
// a write-once-monotone error flag (spec.md §7): once set, it never clears.
//
// id is a per-Reporter compilation identifier, so a caller driving many
// compilations concurrently (e.g. a build server invoking this package
// once per translation unit) can correlate a diagnostic batch back to the
// compilation that produced it without relying on pointer identity.
type Reporter struct {
	mu   sync.Mutex
	errs []Diagnostic
	flag bool
	id   uuid.UUID
}

// New returns an empty Reporter with a freshly minted compilation ID.
func New() *Reporter {
	return &Reporter{id: uuid.New()}
}

// CompilationID identifies the compilation this Reporter was created for.
func (r *Reporter) CompilationID() uuid.UUID {
	return r.id
}

// Report records a diagnostic at (line, pos) and sets the error flag. A
// phase calls this and keeps walking; Report never aborts control flow.
func (r *Reporter) Report(line, pos int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, Diagnostic{Line: line, Pos: pos, Message: message})
	r.flag = true
}

// Reportf is Report with fmt.Sprintf-style formatting of message.
func (r *Reporter) Reportf(line, pos int, format string, args ...interface{}) {
	r.Report(line, pos, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any diagnostic has been recorded. Once true,
// stays true for the lifetime of the Reporter (spec.md §7's monotone flag).
func (r *Reporter) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flag
}

// Len returns the number of buffered diagnostics.
func (r *Reporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

// Diagnostics returns a stable-ordered copy of every diagnostic reported so
// far: sorted by line, then pos, then message, so output is reproducible
// regardless of AST-walk order (spec.md doesn't fix a message order, so this
// repository fixes one rather than leave it to map/slice iteration).
func (r *Reporter) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.errs))
	copy(out, r.errs)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		if out[i].Pos != out[j].Pos {
			return out[i].Pos < out[j].Pos
		}
		return out[i].Message < out[j].Message
	})
	return out
}
