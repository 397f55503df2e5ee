// Package diag is the host's warning/annotation sink: a write-only,
// append-order collaborator the passes never read back from.
package diag

import "github.com/slowlang/midrw/ir"

// WarningKind enumerates the diagnostics the passes can raise.
type WarningKind int

const (
	// UnusedTMCAttribute: a TMC-annotated function has no TMC-eligible call
	// sites in its body.
	UnusedTMCAttribute WarningKind = iota

	// TMCBreaksTailcall: TMC-rewriting moved a tail call to a non-eligible
	// callee into non-tail position.
	TMCBreaksTailcall

	// ExpectTailcall: an @tailcall-hinted call site is not in tail position
	// after all rewrites.
	ExpectTailcall

	// InliningImpossible: a function annotated Always_local could not be
	// lifted to a static continuation.
	InliningImpossible
)

func (k WarningKind) String() string {
	switch k {
	case UnusedTMCAttribute:
		return "Unused_tmc_attribute"
	case TMCBreaksTailcall:
		return "Tmc_breaks_tailcall"
	case ExpectTailcall:
		return "Expect_tailcall"
	case InliningImpossible:
		return "Inlining_impossible"
	default:
		return "Warning(?)"
	}
}

// Warning is one diagnostic emitted by a pass.
type Warning struct {
	Kind WarningKind
	Loc  ir.Loc
	Func string
}

// Annotation records, per call site, whether it ended up in tail position —
// the payload the tail-call annotation emitter (outside this module)
// consumes.
type Annotation struct {
	Site ir.Loc
	Tail bool
}

// Sink is the host collaborator that receives warnings and annotations.
type Sink interface {
	Warn(w Warning)
	Annotate(a Annotation)
}

// Discard is a Sink that drops everything, useful where a caller doesn't
// care about diagnostics.
type Discard struct{}

func (Discard) Warn(Warning)         {}
func (Discard) Annotate(Annotation)  {}

// Collect is a Sink that appends to slices, for tests to assert against.
type Collect struct {
	Warnings    []Warning
	Annotations []Annotation
}

func (c *Collect) Warn(w Warning) {
	c.Warnings = append(c.Warnings, w)
}

func (c *Collect) Annotate(a Annotation) {
	c.Annotations = append(c.Annotations, a)
}
