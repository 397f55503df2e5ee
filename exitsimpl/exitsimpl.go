// Package exitsimpl implements exit simplification: the first stage of the
// rewriting pipeline, contracting Staticcatch nodes whose handler is
// unreachable, singly used, or aliases another label, plus a handful of
// opportunistic control-flow contractions (beta-reduction of exact
// applications, Revapply/Dirapply, Identity, Obj_with_tag).
//
// Structured as two passes over the term: a counting pass building a
// traversal-local occurrence table, then a rewrite pass consulting it.
package exitsimpl

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/midrw/config"
	"github.com/slowlang/midrw/diag"
	"github.com/slowlang/midrw/ir"
)

type countInfo struct {
	Count       int
	MaxTryDepth int
}

type handlerEntry struct {
	Params  []ir.Param
	Handler ir.Term
}

type pass struct {
	cfg  config.Flags
	gen  ir.IdentGen
	sink diag.Sink

	counts map[ir.Label]countInfo
	subst  map[ir.Label]handlerEntry
	alias  map[ir.Label]ir.Label
}

// Run applies exit simplification to t.
func Run(ctx context.Context, cfg config.Flags, gen ir.IdentGen, sink diag.Sink, t ir.Term) (_ ir.Term, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "exitsimpl: run")
	defer tr.Finish("err", &err)

	p := &pass{
		cfg:    cfg,
		gen:    gen,
		sink:   sink,
		counts: make(map[ir.Label]countInfo),
		subst:  make(map[ir.Label]handlerEntry),
		alias:  make(map[ir.Label]ir.Label),
	}

	p.count(t, 0)

	out := p.simplify(t, 0)

	return out, nil
}

func isAliasShape(x ir.Staticcatch) (ir.Label, bool) {
	if len(x.Params) != 0 {
		return 0, false
	}

	raise, ok := x.Handler.(ir.Staticraise)
	if !ok || len(raise.Args) != 0 {
		return 0, false
	}

	return raise.Label, true
}
