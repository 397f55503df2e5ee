package ir

// PrimOp is the operation a Prim node performs. Only the primitives named
// of distinguished significance to the passes get their own
// type; every other primitive (arithmetic, comparisons, external calls) is
// represented by Named, which the passes treat opaquely — they only ever
// rebuild its Args.
type PrimOp interface {
	isPrimOp()
}

type (
	// Makeblock allocates a heap block: TMC's central object, and the shape
	// ref promotion recognizes for a one-field mutable block.
	Makeblock struct {
		Tag     int
		Mutable bool
		Shape   []Kind
	}

	// Field reads block field Index.
	Field struct {
		Index int
	}

	// Setfield writes block field Index of the Prim's first argument from
	// its second.
	Setfield struct {
		Index int
		Ptr   PointerTag
		Init  InitKind
	}

	// SetfieldComputed writes a dynamic offset: TMC's DPS write primitive.
	SetfieldComputed struct {
		Ptr  PointerTag
		Init InitKind
	}

	// Offsetref adds Delta to a single-field mutable int block in place —
	// the unpromoted form of what ref promotion rewrites into Assign+Offsetint.
	Offsetref struct {
		Delta int
	}

	// Offsetint adds Delta to an integer value; ref promotion rewrites a
	// successful Offsetref use into Assign(v, Prim(Offsetint(delta), [Var v])).
	Offsetint struct {
		Delta int
	}

	// Revapply(x, f) and Dirapply(f, x) are reverse/direct binary application
	// primitives, contracted into an ordinary Apply by exitsimpl.
	Revapply struct{}
	Dirapply struct{}

	// Identity(e) is a no-op, contracted into e by exitsimpl.
	Identity struct{}

	// Bytes_to_string / Bytes_of_string are no-ops preserved structurally —
	// representation-only conversions with no runtime effect in this IR.
	BytesToString struct{}
	BytesOfString struct{}

	// ObjWithTag is the external-call shape `Obj.with_tag(tag, Makeblock(...))`
	// that exitsimpl contracts into a Makeblock with the constant tag.
	ObjWithTag struct{}

	// Named is every other primitive: arithmetic, comparison, external
	// calls. The passes never special-case a Named op by value, only by
	// rebuilding its Args — a Makeblock/Field/etc. listed above is what
	// distinguishes "interesting" primitives from this catch-all.
	Named struct {
		Name string
	}
)

func (Makeblock) isPrimOp()        {}
func (Field) isPrimOp()            {}
func (Setfield) isPrimOp()         {}
func (SetfieldComputed) isPrimOp() {}
func (Offsetref) isPrimOp()        {}
func (Offsetint) isPrimOp()        {}
func (Revapply) isPrimOp()         {}
func (Dirapply) isPrimOp()         {}
func (Identity) isPrimOp()         {}
func (BytesToString) isPrimOp()    {}
func (BytesOfString) isPrimOp()    {}
func (ObjWithTag) isPrimOp()       {}
func (Named) isPrimOp()            {}
