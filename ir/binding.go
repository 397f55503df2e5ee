package ir

// BindingKind is the semantics a Let attaches to its binding; letsimpl's
// rewrite rules branch on this before anything else.
type BindingKind int

const (
	// Strict: the value must be evaluated; the binding may be kept even if
	// the body never uses it, since evaluating it may have a visible effect.
	Strict BindingKind = iota

	// Alias: the value is pure and may be inlined, duplicated or dropped
	// freely. Typically a Var or Const.
	Alias

	// StrictOpt: like Strict, but the binding may be dropped outright if its
	// identifier turns out to be unused.
	StrictOpt

	// Variable: Id denotes a mutable cell, produced only by ref-to-variable
	// promotion inside letsimpl.
	Variable
)

func (k BindingKind) String() string {
	switch k {
	case Strict:
		return "Strict"
	case Alias:
		return "Alias"
	case StrictOpt:
		return "StrictOpt"
	case Variable:
		return "Variable"
	default:
		return "BindingKind(?)"
	}
}
