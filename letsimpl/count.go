package letsimpl

import "github.com/slowlang/midrw/ir"

// countA is Phase A: occurrence counting with lexical-depth awareness. ids
// is the set of identifiers bound above the current position within the
// current function/loop frame; it is replaced by a fresh empty set when
// descending into a Function body, a While's cond or body, or a For body.
func (p *pass) countA(t ir.Term, ids map[ir.Ident]bool) {
	switch x := t.(type) {
	case ir.Var:
		p.countRef(x.Name, ids)

	case ir.Assign:
		// Writing v does not count as a use of v.
		p.countA(x.Value, ids)

	case ir.Ifused:
		if p.countVar(x.Var) > 0 {
			p.countA(x.Sub, ids)
		}

	case ir.Let:
		p.countLet(x, ids)

	case ir.Letrec:
		vs := make([]ir.Ident, len(x.Bindings))
		for i, b := range x.Bindings {
			p.everBound[b.Id] = true
			vs[i] = b.Id
		}
		inner := extendAll(ids, vs)
		for _, b := range x.Bindings {
			p.countA(b.Value, inner)
		}
		p.countA(x.Body, inner)

	case ir.Function:
		vs := make([]ir.Ident, len(x.Params))
		for i, prm := range x.Params {
			p.everBound[prm.Id] = true
			vs[i] = prm.Id
		}
		p.countA(x.Body, extendAll(map[ir.Ident]bool{}, vs))

	case ir.While:
		p.countA(x.Cond, map[ir.Ident]bool{})
		p.countA(x.Body, map[ir.Ident]bool{})

	case ir.For:
		p.countA(x.Low, ids)
		p.countA(x.High, ids)
		p.everBound[x.Var] = true
		p.countA(x.Body, extend(map[ir.Ident]bool{}, x.Var))

	case ir.Apply:
		if lf, ok := x.Func.(ir.Function); ok {
			switch {
			case lf.Conv == ir.Curried && len(lf.Params) == len(x.Args):
				p.countA(betaChain(lf.Params, lf.Body, x.Args), ids)
				return
			case lf.Conv == ir.Tupled:
				if fields, ok := tupledFields(lf.Params, x.Args); ok {
					p.countA(betaChain(lf.Params, lf.Body, fields), ids)
					return
				}
			}
		}
		p.countA(x.Func, ids)
		for _, a := range x.Args {
			p.countA(a, ids)
		}

	case ir.Switch:
		p.countA(x.Scrutinee, ids)
		for _, a := range x.Consts {
			p.countA(a.Body, ids)
		}
		for _, a := range x.Blocks {
			p.countA(a.Body, ids)
		}
		if x.Default != nil {
			p.countA(x.Default, ids)
			if len(x.Consts) < x.NumConsts && len(x.Blocks) < x.NumBlocks {
				p.countA(x.Default, ids)
			}
		}

	case ir.Staticcatch:
		p.countA(x.Body, ids)
		vs := make([]ir.Ident, len(x.Params))
		for i, prm := range x.Params {
			p.everBound[prm.Id] = true
			vs[i] = prm.Id
		}
		p.countA(x.Handler, extendAll(ids, vs))

	case ir.Trywith:
		p.countA(x.Body, ids)
		p.everBound[x.ExnVar] = true
		p.countA(x.Handler, extend(ids, x.ExnVar))

	default:
		for _, c := range ir.Children(t) {
			p.countA(c, ids)
		}
	}
}

func (p *pass) countRef(v ir.Ident, ids map[ir.Ident]bool) {
	switch {
	case ids[v]:
		p.counts[v]++
	case p.everBound[v]:
		p.counts[v] += 2
	default:
		// Not a let-bound identifier (e.g. a global): ignore.
	}
}

// countLet handles Let's three Phase A special cases: the copy-propagation
// shortcut for `Let(_, _, v, Var w, body)`, strict-always-counts, and
// opt/alias counting rhs only if the binding survives.
func (p *pass) countLet(x ir.Let, ids map[ir.Ident]bool) {
	p.everBound[x.Id] = true
	inner := extend(ids, x.Id)

	if w, ok := x.Def.(ir.Var); ok && p.cfg.Optimize() {
		p.countA(x.Body, inner)
		p.counts[w.Name] += p.countVar(x.Id)
		return
	}

	switch x.Kind {
	case ir.Strict:
		p.countA(x.Def, ids)
		p.countA(x.Body, inner)
	default: // Alias, StrictOpt, Variable
		p.countA(x.Body, inner)
		if p.countVar(x.Id) > 0 {
			p.countA(x.Def, ids)
		}
	}
}
