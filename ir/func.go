package ir

type (
	// CallConv is a Function's calling convention.
	CallConv int

	// ReturnKind hints at the shape of a Function's result, preserved by
	// every pass and consulted by TMC when it prepends the dst/offset pair.
	ReturnKind int

	// InlineHint mirrors the source-level inlining annotation on a Function
	// or on an individual Apply (`@inline`/`@tailcall`-adjacent hints).
	InlineHint int

	// LocalHint mirrors the source-level `local`/`[@local]` annotation
	// consulted by lift's eligibility test.
	LocalHint int

	// FuncAttrs carries every annotation the passes read from a Function.
	FuncAttrs struct {
		Inline InlineHint
		Local  LocalHint

		// TMCCandidate marks a Letrec-bound function as eligible for TMC
		// subsuming force_tmc at the call site (config.Flags).
		TMCCandidate bool
	}

	// Param is one formal parameter: a fresh Ident plus its value kind.
	Param struct {
		Id   Ident
		Kind Kind
	}

	// LetrecBinding is one binding of a Letrec.
	LetrecBinding struct {
		Id    Ident
		Value Term
	}
)

const (
	Curried CallConv = iota
	Tupled
)

const (
	ReturnSingle ReturnKind = iota
	ReturnUnit
)

const (
	DefaultInline InlineHint = iota
	NeverInline
	AlwaysInline
)

const (
	DefaultLocal LocalHint = iota
	AlwaysLocal
	NeverLocal
)

func boolPtr(b bool) *bool { return &b }

// Tailcall builds an explicit `@tailcall` annotation value for
// Apply.TailcallRequest.
func Tailcall(v bool) *bool { return boolPtr(v) }
