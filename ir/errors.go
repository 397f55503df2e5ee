package ir

import "fmt"

// unhandled reports a Term variant missing from an exhaustive switch — an
// internal invariant violation, never a user-facing error. Every
// pass package is expected to cover all variants; hitting this is a bug in
// the pass, not in the input.
func unhandled(t Term) string {
	return fmt.Sprintf("ir: unhandled node %T: %[1]v", t)
}
