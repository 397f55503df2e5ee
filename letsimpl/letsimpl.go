// Package letsimpl implements let simplification: dead-binding elimination,
// copy propagation, beta-reduction of immediate applications, curry-merging
// and mutable-ref-to-variable promotion.
//
// Like exitsimpl, this is a two-pass counting-then-rewriting shape, but
// Phase A here additionally tracks lexical depth via a threaded set of
// frame-local binders rather than exitsimpl's single flat label table.
package letsimpl

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/midrw/config"
	"github.com/slowlang/midrw/ir"
)

type pass struct {
	cfg config.Flags
	gen ir.IdentGen

	// everBound records every identifier seen as a binder, regardless of
	// whether it is still lexically local — the source of truth for "this
	// is a genuine let-bound variable" the weight-2 rule in countRef needs.
	everBound map[ir.Ident]bool

	// counts is the global occurrence accumulator; it is read back as
	// count_var(v) once the whole term has been visited.
	counts map[ir.Ident]int

	// subst is Phase B's substitution table: v ↦ the term that replaces
	// every occurrence of v once its binding is dropped.
	subst map[ir.Ident]ir.Term
}

// Run applies let simplification to t.
func Run(ctx context.Context, cfg config.Flags, gen ir.IdentGen, t ir.Term) (_ ir.Term, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "letsimpl: run")
	defer tr.Finish("err", &err)

	p := &pass{
		cfg:       cfg,
		gen:       gen,
		everBound: make(map[ir.Ident]bool),
		counts:    make(map[ir.Ident]int),
		subst:     make(map[ir.Ident]ir.Term),
	}

	p.countA(t, map[ir.Ident]bool{})
	out := p.simplify(t)

	return out, nil
}

func (p *pass) countVar(v ir.Ident) int { return p.counts[v] }

// extend returns a copy of ids with id added, leaving ids itself untouched
// so a binder's scope never leaks into a sibling sharing the same frame.
func extend(ids map[ir.Ident]bool, id ir.Ident) map[ir.Ident]bool {
	next := make(map[ir.Ident]bool, len(ids)+1)
	for k := range ids {
		next[k] = true
	}
	next[id] = true
	return next
}

// extendAll is extend for a batch of identifiers bound at once (Letrec,
// Function's parameter list).
func extendAll(ids map[ir.Ident]bool, vs []ir.Ident) map[ir.Ident]bool {
	next := make(map[ir.Ident]bool, len(ids)+len(vs))
	for k := range ids {
		next[k] = true
	}
	for _, v := range vs {
		next[v] = true
	}
	return next
}

// betaChain builds the Let cascade a fully-saturated Apply of a Function
// literal reduces to, params[0] ending up outermost — shared by Phase A
// (which counts the reduced form instead of the Apply) and Phase B (which
// performs the actual rewrite).
func betaChain(params []ir.Param, body ir.Term, args []ir.Term) ir.Term {
	for i := len(params) - 1; i >= 0; i-- {
		body = ir.Let{
			Kind:  ir.Strict,
			Value: params[i].Kind,
			Id:    params[i].Id,
			Def:   args[i],
			Body:  body,
		}
	}
	return body
}

// tupledFields recognizes Apply(Function{Tupled, params, ...}, [Makeblock(args)]):
// a Tupled function's single logical argument is a constructed tuple, so
// betaChain must bind each of the block's fields to the matching param
// instead of binding the whole tuple value to one slot.
func tupledFields(params []ir.Param, args []ir.Term) ([]ir.Term, bool) {
	if len(args) != 1 {
		return nil, false
	}
	prim, ok := args[0].(ir.Prim)
	if !ok {
		return nil, false
	}
	if _, ok := prim.Op.(ir.Makeblock); !ok {
		return nil, false
	}
	if len(prim.Args) != len(params) {
		return nil, false
	}
	return prim.Args, true
}
