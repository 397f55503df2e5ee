// Package tmc implements Tail Modulo Cons: for every recursive function
// annotated as a TMC candidate, it synthesizes a destination-passing
// companion whose constructor-context tail calls write their result
// directly into the caller's allocation instead of returning it to be
// boxed a second time.
//
// The traversal style generalizes from a single current-position flag to
// the applicative Choice this pass's bidirectional (direct + DPS) code
// generation needs; see DESIGN.md for how Choice/Dps was arrived at.
package tmc

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/midrw/config"
	"github.com/slowlang/midrw/diag"
	"github.com/slowlang/midrw/ir"
	"github.com/slowlang/midrw/set"
)

// AmbiguousConstructorArgumentsError is returned when a Makeblock has more
// than one argument with TMC calls and no @tailcall annotation picks one.
type AmbiguousConstructorArgumentsError struct {
	Loc ir.Loc
}

func (e *AmbiguousConstructorArgumentsError) Error() string {
	return "tmc: ambiguous constructor arguments"
}

// specialized describes one candidate's DPS companion.
type specialized struct {
	dpsID ir.Ident
	arity int
}

type pass struct {
	cfg    config.Flags
	gen    ir.IdentGen
	sink   diag.Sink
	spec   map[ir.Ident]specialized
}

// Run rewrites every Letrec in t that binds a TMC-candidate function,
// bottom-up so a nested Letrec's own candidates are already resolved
// before the enclosing one is processed.
func Run(ctx context.Context, cfg config.Flags, gen ir.IdentGen, sink diag.Sink, t ir.Term) (_ ir.Term, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "tmc: run")
	defer tr.Finish("err", &err)
	defer func() {
		if r := recover(); r != nil {
			if ae, ok := r.(*AmbiguousConstructorArgumentsError); ok {
				err = ae
				return
			}
			panic(r)
		}
	}()

	p := &pass{cfg: cfg, gen: gen, sink: sink, spec: make(map[ir.Ident]specialized)}

	out, err := p.rewriteTerm(t)
	if err != nil {
		return nil, errors.Wrap(err, "tmc")
	}

	return out, nil
}

// rewriteTerm walks t bottom-up, replacing every Letrec with its
// TMC-expanded form.
func (p *pass) rewriteTerm(t ir.Term) (ir.Term, error) {
	switch x := t.(type) {
	case ir.Letrec:
		nb := make([]ir.LetrecBinding, len(x.Bindings))
		for i, b := range x.Bindings {
			v, err := p.rewriteTerm(b.Value)
			if err != nil {
				return nil, err
			}
			nb[i] = ir.LetrecBinding{Id: b.Id, Value: v}
		}
		body, err := p.rewriteTerm(x.Body)
		if err != nil {
			return nil, err
		}
		x.Bindings, x.Body = nb, body
		return p.processLetrec(x)

	default:
		cs := ir.Children(t)
		out := make([]ir.Term, len(cs))
		for i, c := range cs {
			nc, err := p.rewriteTerm(c)
			if err != nil {
				return nil, err
			}
			out[i] = nc
		}
		return ir.Rebuild(t, out), nil
	}
}

func isCandidate(cfg config.Flags, attrs ir.FuncAttrs) bool {
	return attrs.TMCCandidate || cfg.ForceTMC
}

// ambiguityBits narrows set.Bits[int] to the one question tmc asks of a
// Makeblock's arguments: exactly how many carry TMC calls.
func ambiguityBits(hasTMC []bool) *set.Bits[int] {
	b := &set.Bits[int]{}
	for i, has := range hasTMC {
		if has {
			b.Set(i)
		}
	}
	return b
}
