// Package ir defines the mid-level functional intermediate representation
// operated on by the rewriting passes in exitsimpl, letsimpl, lift and tmc.
//
// The IR is a tagged tree: Term is implemented by one struct per variant.
// Source locations, identifier generation and warning/annotation sinks are
// host concerns (see config and diag) and are never owned by a Term.
package ir

type (
	// Ident names a variable or mutable cell. Identifiers are compared by
	// value, not by name: two Idents are the same binding iff they are equal.
	Ident int

	// Label names a static-exception handler (Staticcatch/Staticraise pair).
	Label int

	// Loc is an opaque source location, supplied and interpreted by the host.
	Loc = any

	// Term is any node of the IR.
	Term interface {
		isTerm()
	}
)

type (
	// Var is a variable reference.
	Var struct {
		Name Ident
	}

	// Const is a compile-time constant.
	Const struct {
		Value Literal
	}

	// Apply is a function application.
	Apply struct {
		Func Term
		Args []Term

		Loc Loc

		// Tail is true when this call was analyzed to be in tail position.
		Tail bool

		Inline InlineHint

		// TailcallRequest is the explicit `@tailcall true/false` annotation on
		// this call site, nil when unannotated. tmc reads it to disambiguate
		// a Makeblock with more than one TMC-bearing argument: the user picks
		// which argument's call feeds the destination-passing companion by
		// marking exactly one of them `@tailcall true`.
		TailcallRequest *bool
	}

	// Function is a lambda abstraction.
	Function struct {
		Conv   CallConv
		Params []Param
		Return ReturnKind
		Body   Term

		Attrs FuncAttrs
		Loc   Loc
	}

	// Let is a non-recursive binding.
	Let struct {
		Kind  BindingKind
		Value Kind
		Id    Ident
		Def   Term
		Body  Term
	}

	// Letrec is a set of mutually recursive bindings.
	Letrec struct {
		Bindings []LetrecBinding
		Body     Term
	}

	// Prim is a primitive operation.
	Prim struct {
		Op   PrimOp
		Args []Term
		Loc  Loc
	}

	// Switch is a discriminated match over an integer tag, split into
	// constant-constructor arms and block-constructor arms.
	Switch struct {
		Scrutinee Term
		Consts    []SwitchArm
		Blocks    []SwitchArm
		Default   Term // nil if there is no default

		// NumConsts/NumBlocks are the declared arities of the discriminated
		// type; Consts/Blocks may be strict subsets when Default != nil.
		NumConsts int
		NumBlocks int
	}

	// SwitchArm is one arm of a Switch.
	SwitchArm struct {
		Tag  int
		Body Term
	}

	// Stringswitch is a match over string constants.
	Stringswitch struct {
		Scrutinee Term
		Cases     []StringCase
		Default   Term
		Loc       Loc
	}

	// StringCase is one arm of a Stringswitch.
	StringCase struct {
		Value string
		Body  Term
	}

	// Staticraise is a labelled, intra-procedural non-local jump carrying
	// values, the target of a Staticcatch with a matching Label.
	Staticraise struct {
		Label Label
		Args  []Term
	}

	// Staticcatch installs a handler reachable via Staticraise.
	Staticcatch struct {
		Body    Term
		Label   Label
		Params  []Param
		Handler Term
	}

	// Trywith is a dynamic exception handler.
	Trywith struct {
		Body    Term
		ExnVar  Ident
		Handler Term
	}

	// Ifthenelse is a conditional.
	Ifthenelse struct {
		Cond Term
		Then Term
		Else Term
	}

	// Sequence evaluates Left for effect, discards its value, then Right.
	Sequence struct {
		Left  Term
		Right Term
	}

	// While is a pre-checked loop.
	While struct {
		Cond Term
		Body Term
	}

	// ForDir is the iteration direction of a For loop.
	ForDir int

	// For is a numeric loop over Var from Low to High.
	For struct {
		Var  Ident
		Low  Term
		High Term
		Dir  ForDir
		Body Term
	}

	// Assign mutates the cell named by Var, which must be bound by a
	// Let with Kind == Variable.
	Assign struct {
		Var   Ident
		Value Term
	}

	// Send is a method dispatch, opaque to every pass here.
	Send struct {
		Obj    Term
		Method Term
		Args   []Term
		Loc    Loc
	}

	// Event wraps a subterm with a debug annotation that every pass must
	// treat as transparent: semantics and rewriting ignore it, only the
	// wrapper is preserved or dropped along with its subterm.
	Event struct {
		Sub   Term
		Debug DebugEvent
	}

	// DebugEvent is host-owned debug metadata (source span, event kind).
	DebugEvent struct {
		Loc  Loc
		Kind string
	}

	// Ifused emits Sub only if Var turned out to be used; see letsimpl,
	// which is the only pass that resolves these.
	Ifused struct {
		Var Ident
		Sub Term
	}
)

const (
	Upto ForDir = iota
	Downto
)

func (Var) isTerm()         {}
func (Const) isTerm()       {}
func (Apply) isTerm()       {}
func (Function) isTerm()    {}
func (Let) isTerm()         {}
func (Letrec) isTerm()      {}
func (Prim) isTerm()        {}
func (Switch) isTerm()      {}
func (Stringswitch) isTerm() {}
func (Staticraise) isTerm() {}
func (Staticcatch) isTerm() {}
func (Trywith) isTerm()     {}
func (Ifthenelse) isTerm()  {}
func (Sequence) isTerm()    {}
func (While) isTerm()       {}
func (For) isTerm()         {}
func (Assign) isTerm()      {}
func (Send) isTerm()        {}
func (Event) isTerm()       {}
func (Ifused) isTerm()      {}
