// Package lift implements local-function lifting to static-exception
// handlers: a first-order, non-escaping, locally let-bound function every
// one of whose call sites is a fully applied tail call within one common
// tail scope is rewritten into a Staticcatch, turning its call sites into
// Staticraise.
//
// Structured as a dual traversal (a "tail"/"non_tail" pair of mutually
// recursive walks threading a current scope) followed by a rewrite pass
// acting on the recorded facts.
package lift

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/midrw/config"
	"github.com/slowlang/midrw/diag"
	"github.com/slowlang/midrw/ir"
)

// candidate is one Let-bound function under analysis: its literal, the
// scope its call sites agree on (if any), and its fate.
type candidate struct {
	id    ir.Ident
	fn    ir.Function
	label ir.Label

	bindScope int // the scope active where the Let itself sits
	scope     int
	hasScope  bool

	invalid bool
}

type pass struct {
	cfg    config.Flags
	gen    ir.IdentGen
	labels ir.LabelGen
	sink   diag.Sink

	nextScope int

	candidates map[ir.Ident]*candidate
	order      []ir.Ident // discovery order, for "nested catches accumulate in order of discovery"
}

// Run lifts every eligible local function in t. If cfg.LiftEnabled() is
// false (debug, non-native compilation) t is returned unchanged: local-fn
// lifting is skipped in debug-unoptimized compilation.
func Run(ctx context.Context, cfg config.Flags, gen ir.IdentGen, labels ir.LabelGen, sink diag.Sink, t ir.Term) (_ ir.Term, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "lift: run")
	defer tr.Finish("err", &err)

	if !cfg.LiftEnabled() {
		return t, nil
	}

	p := &pass{
		cfg:        cfg,
		gen:        gen,
		labels:     labels,
		sink:       sink,
		candidates: make(map[ir.Ident]*candidate),
	}

	root := p.freshScope()
	p.tail(t, root)

	for _, id := range p.order {
		c := p.candidates[id]
		if c.invalid {
			if c.fn.Attrs.Local == ir.AlwaysLocal {
				sink.Warn(diag.Warning{Kind: diag.InliningImpossible, Loc: c.fn.Loc})
			}
			continue
		}
		if !c.hasScope {
			// No surviving call site: nothing narrows the scope below the
			// binding's own continuation.
			c.scope, c.hasScope = c.bindScope, true
		}
		c.label = labels.FreshLabel()
	}

	p.nextScope = 0
	out := p.tailR(t, p.freshScope())
	out = p.wrapScope(root, out)

	return out, nil
}

func eligible(a ir.FuncAttrs) bool {
	if a.Local == ir.AlwaysLocal {
		return true
	}
	return a.Local == ir.DefaultLocal && (a.Inline == ir.NeverInline || a.Inline == ir.DefaultInline)
}

func (p *pass) freshScope() int {
	s := p.nextScope
	p.nextScope++
	return s
}
