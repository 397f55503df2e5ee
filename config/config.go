// Package config holds the read-only flags the rewriting pipeline consults.
// Flags are threaded explicitly through rewrite.Pipeline and each pass's
// entry point rather than read from a global.
package config

// Flags is the compiler's read-only configuration surface for the mid-IR
// rewriting pipeline.
type Flags struct {
	// NativeCode enables the more aggressive letsimpl rewrites and enables
	// lift.
	NativeCode bool

	// Debug, when true and NativeCode false, disables lift and most of
	// letsimpl's rewrites.
	Debug bool

	// Annotations enables emission of tail-call annotation records for call
	// sites; consumed by the tail-call annotation emitter, which lives
	// outside this module.
	Annotations bool

	// ForceTMC treats every Function binding of a Letrec as a TMC candidate.
	ForceTMC bool
}

// Optimize is letsimpl's single derived boolean: almost every
// transformation in that pass is gated on it.
func (f Flags) Optimize() bool {
	return f.NativeCode || !f.Debug
}

// LiftEnabled reports whether local-fn lifting should run at all:
// local-fn lifting is skipped in debug, unoptimized compilation.
func (f Flags) LiftEnabled() bool {
	return f.NativeCode || !f.Debug
}
