package letsimpl

import "github.com/slowlang/midrw/ir"

// simplify is Phase B: rewrite consulting counts and subst, built bottom-up
// except where a node's own disposition (drop/inline/promote) must be
// decided before its children are walked.
func (p *pass) simplify(t ir.Term) ir.Term {
	switch x := t.(type) {
	case ir.Var:
		if r, ok := p.subst[x.Name]; ok {
			return r
		}
		return x

	case ir.Let:
		return p.simplifyLet(x)

	case ir.Function:
		return p.simplifyFunction(x)

	case ir.Apply:
		return p.simplifyApply(x)

	case ir.Sequence:
		return p.simplifySequence(x)

	case ir.Ifused:
		// Only meaningful wrapped in Sequence.Left (simplifySequence handles
		// that shape); standalone, its value is never observed.
		if p.countVar(x.Var) > 0 {
			return p.simplify(x.Sub)
		}
		return ir.Const{Value: ir.IntLit(0)}

	default:
		return ir.Map(t, func(c ir.Term) ir.Term { return p.simplify(c) })
	}
}

func (p *pass) simplifyLet(x ir.Let) ir.Term {
	if w, ok := x.Def.(ir.Var); ok && p.cfg.Optimize() {
		p.subst[x.Id] = p.simplify(w)
		return p.simplify(x.Body)
	}

	if x.Kind == ir.Strict && p.cfg.Optimize() {
		if prim, ok := x.Def.(ir.Prim); ok {
			if mb, ok := prim.Op.(ir.Makeblock); ok && mb.Tag == 0 && mb.Mutable &&
				len(mb.Shape) == 1 && len(prim.Args) == 1 {
				return p.tryRefPromotion(x, prim, mb)
			}
		}
	}

	switch x.Kind {
	case ir.Alias:
		if p.countVar(x.Id) == 0 {
			return p.simplify(x.Body)
		}
		if p.countVar(x.Id) == 1 && p.cfg.Optimize() {
			p.subst[x.Id] = p.simplify(x.Def)
			return p.simplify(x.Body)
		}
	case ir.StrictOpt:
		if p.countVar(x.Id) == 0 {
			return p.simplify(x.Body)
		}
	}

	x.Def = p.simplify(x.Def)
	x.Body = p.simplify(x.Body)
	return p.maybeEta(x)
}

// tryRefPromotion attempts to rewrite a single-field mutable Makeblock
// binding into a flat Variable cell, simplifying init and body first so the
// scan below sees their final shape.
func (p *pass) tryRefPromotion(x ir.Let, prim ir.Prim, mb ir.Makeblock) ir.Term {
	init := p.simplify(prim.Args[0])
	body := p.simplify(x.Body)

	if promoted, ok := promote(x.Id, body); ok {
		return ir.Let{Kind: ir.Variable, Value: mb.Shape[0], Id: x.Id, Def: init, Body: promoted}
	}

	return ir.Let{
		Kind:  ir.Strict,
		Value: x.Value,
		Id:    x.Id,
		Def:   ir.Prim{Op: mb, Args: []ir.Term{init}, Loc: prim.Loc},
		Body:  body,
	}
}

// maybeEta implements `Let(_, _, v, e1, Var v) → e1` once a binding is kept.
func (p *pass) maybeEta(x ir.Let) ir.Term {
	if !p.cfg.Optimize() {
		return x
	}
	if v, ok := x.Body.(ir.Var); ok && v.Name == x.Id {
		return x.Def
	}
	return x
}

func (p *pass) simplifyFunction(x ir.Function) ir.Term {
	x.Body = p.simplify(x.Body)

	if x.Conv == ir.Curried && p.cfg.Optimize() {
		if inner, ok := x.Body.(ir.Function); ok && inner.Conv == ir.Curried {
			return ir.Function{
				Conv:   ir.Curried,
				Params: append(append([]ir.Param{}, x.Params...), inner.Params...),
				Return: inner.Return,
				Body:   inner.Body,
				Attrs:  x.Attrs,
				Loc:    x.Loc,
			}
		}
	}

	return x
}

func (p *pass) simplifyApply(x ir.Apply) ir.Term {
	fn := p.simplify(x.Func)

	args := make([]ir.Term, len(x.Args))
	for i, a := range x.Args {
		args[i] = p.simplify(a)
	}

	if f, ok := fn.(ir.Function); ok && p.cfg.Optimize() {
		switch {
		case f.Conv == ir.Curried && len(f.Params) == len(args):
			return p.simplify(betaChain(f.Params, f.Body, args))
		case f.Conv == ir.Tupled:
			if fields, ok := tupledFields(f.Params, args); ok {
				return p.simplify(betaChain(f.Params, f.Body, fields))
			}
		}
	}

	x.Func, x.Args = fn, args
	return x
}

func (p *pass) simplifySequence(x ir.Sequence) ir.Term {
	if iu, ok := x.Left.(ir.Ifused); ok {
		if p.countVar(iu.Var) > 0 {
			return ir.Sequence{Left: p.simplify(iu.Sub), Right: p.simplify(x.Right)}
		}
		return p.simplify(x.Right)
	}

	x.Left = p.simplify(x.Left)
	x.Right = p.simplify(x.Right)
	return x
}
