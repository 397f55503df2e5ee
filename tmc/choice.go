package tmc

import "github.com/slowlang/midrw/ir"

// Dest is a destination-passing target: write the result at block Var's
// field Offset (a constant or an Intval-kinded identifier).
type Dest struct {
	Var    ir.Ident
	Offset ir.Term
}

// ConstrFrame is one deferred constructor allocation: a Makeblock whose
// chosen-argument slot is filled in later, once the chain bottoms out at a
// terminal value or a further DPS call.
type ConstrFrame struct {
	Tag     int
	Mutable bool
	Shape   []ir.Kind
	Before  []ir.Term
	After   []ir.Term
	Loc     ir.Loc
}

// Choice is the applicative value every TMC-transformed subterm produces:
// a pair of code generators plus three booleans. HasTMCCalls and
// ExplicitTailcallRequest drive the Makeblock ambiguity check;
// BenefitsFromDPS is propagated up the tree but no decision reads it.
type Choice struct {
	// Direct renders the subterm in ordinary (non-destination-passing) form.
	Direct func() ir.Term

	// Code renders the subterm in destination-passing form under a given
	// tail flag and destination, folding delayed constructor frames
	// inherited from an enclosing Makeblock. Sequence, Let, Letrec,
	// Staticcatch and Trywith forward delayed unchanged; Ifthenelse, Switch
	// and Stringswitch fold it once before their arms; only a Makeblock
	// choice extends it, and a terminal (Return/Set) choice discharges it.
	Code func(delayed []ConstrFrame, tail bool, dst Dest) ir.Term

	HasTMCCalls             bool
	BenefitsFromDPS          bool
	ExplicitTailcallRequest bool
}

// DPS is Code with no inherited deferred frames — the entry point a
// candidate's own DPS body uses.
func (c Choice) DPS(tail bool, dst Dest) ir.Term {
	return c.Code(nil, tail, dst)
}

// returnChoice builds a terminal Choice for a subterm with no TMC calls of
// its own: its DPS form folds any inherited delayed frames, writing
// term() at the innermost position.
func returnChoice(gen ir.IdentGen, term func() ir.Term) Choice {
	return Choice{
		Direct: term,
		Code: func(delayed []ConstrFrame, tail bool, dst Dest) ir.Term {
			return foldDelayed(gen, delayed, dst, func(d Dest) ir.Term {
				return writeDest(d, term())
			})
		},
	}
}

// writeDest is the plain (non-call) terminal write: Setfield_computed(dst,
// value, Pointer, Heap_initialization).
func writeDest(dst Dest, value ir.Term) ir.Term {
	return ir.Prim{
		Op:   ir.SetfieldComputed{Ptr: ir.Pointer, Init: ir.HeapInitialization},
		Args: []ir.Term{ir.Var{Name: dst.Var}, dst.Offset, value},
	}
}

// foldDelayed folds a chain of deferred constructor frames outward into
// nested Let/Makeblock allocations, with exactly one write into the
// caller-supplied dst for the outermost block. leaf receives the innermost
// destination (either dst itself, if delayed is empty, or the hole of the
// innermost allocated block) and produces the code that fills it.
func foldDelayed(gen ir.IdentGen, delayed []ConstrFrame, dst Dest, leaf func(Dest) ir.Term) ir.Term {
	if len(delayed) == 0 {
		return leaf(dst)
	}

	frame := delayed[0]
	rest := delayed[1:]

	k := len(frame.Before)
	args := make([]ir.Term, 0, len(frame.Before)+len(frame.After)+1)
	args = append(args, frame.Before...)
	args = append(args, ir.Const{Value: ir.IntLit(0)}) // placeholder, overwritten below
	args = append(args, frame.After...)

	blk := gen.Fresh("tmcblk")

	// This block is written into the caller's dst first; the inner chain,
	// whose destination is this block's hole, comes last so that a DPS call
	// at its leaf is in tail position.
	inner := foldDelayed(gen, rest, Dest{Var: blk, Offset: ir.Const{Value: ir.IntLit(int64(k))}}, leaf)

	return ir.Let{
		Kind: ir.Strict,
		Id:   blk,
		Def: ir.Prim{
			Op:   ir.Makeblock{Tag: frame.Tag, Mutable: frame.Mutable, Shape: frame.Shape},
			Args: args,
			Loc:  frame.Loc,
		},
		Body: ir.Sequence{Left: writeDest(dst, ir.Var{Name: blk}), Right: inner},
	}
}
