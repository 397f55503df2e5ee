package exitsimpl

import "github.com/slowlang/midrw/ir"

// simplify is Phase B: a rewrite consulting the tables count built, applied
// top-down so a Staticcatch's disposition is settled before its Body is
// walked (materializeHandler and alias both only make sense once the
// raises inside Body are in front of us).
func (p *pass) simplify(t ir.Term, depth int) ir.Term {
	switch x := t.(type) {
	case ir.Staticcatch:
		return p.simplifyCatch(x, depth)

	case ir.Staticraise:
		return p.simplifyRaise(x, depth)

	case ir.Trywith:
		x.Body = p.simplify(x.Body, depth+1)
		x.Handler = p.simplify(x.Handler, depth)
		return x

	case ir.Function:
		x.Body = p.simplify(x.Body, 0)
		return x

	case ir.Apply:
		return p.simplifyApply(x, depth)

	case ir.Prim:
		return p.simplifyPrim(x, depth)

	default:
		return ir.Map(t, func(c ir.Term) ir.Term { return p.simplify(c, depth) })
	}
}

func (p *pass) simplifyCatch(x ir.Staticcatch, depth int) ir.Term {
	info := p.counts[x.Label]

	switch {
	case info.Count == 0:
		// The handler is unreachable: drop the catch entirely, keeping only
		// the body's effects.
		return p.simplify(x.Body, depth)

	default:
		if target, ok := isAliasShape(x); ok {
			for {
				if next, ok := p.alias[target]; ok {
					target = next
					continue
				}
				break
			}
			p.alias[x.Label] = target
			return p.simplify(x.Body, depth)
		}

		if info.Count == 1 && info.MaxTryDepth <= depth {
			p.subst[x.Label] = handlerEntry{
				Params:  x.Params,
				Handler: p.simplify(x.Handler, depth),
			}
			return p.simplify(x.Body, depth)
		}

		body := p.simplify(x.Body, depth)
		handler := p.simplify(x.Handler, depth)

		x.Body, x.Handler = body, handler
		return x
	}
}

func (p *pass) simplifyRaise(x ir.Staticraise, depth int) ir.Term {
	label := x.Label
	for {
		if next, ok := p.alias[label]; ok {
			label = next
			continue
		}
		break
	}

	args := make([]ir.Term, len(x.Args))
	for i, a := range x.Args {
		args[i] = p.simplify(a, depth)
	}

	if entry, ok := p.subst[label]; ok {
		return materializeHandler(p.gen, entry.Params, entry.Handler, args)
	}

	x.Label = label
	x.Args = args
	return x
}

// materializeHandler substitutes a once-used handler in place of the raise
// that reaches it, alpha-renaming its formal parameters fresh and binding
// them, outermost first, around the handler body — the same shape exitsimpl
// uses for beta-reducing a fully-applied Function (see betaReduce).
func materializeHandler(gen ir.IdentGen, params []ir.Param, handler ir.Term, args []ir.Term) ir.Term {
	rename := make(map[ir.Ident]ir.Ident, len(params))
	fresh := make([]ir.Ident, len(params))
	for i, pm := range params {
		id := gen.Fresh("exit")
		rename[pm.Id] = id
		fresh[i] = id
	}

	body := ir.Rename(rename, handler)

	for i := len(params) - 1; i >= 0; i-- {
		body = ir.Let{
			Kind:  ir.Strict,
			Value: params[i].Kind,
			Id:    fresh[i],
			Def:   args[i],
			Body:  body,
		}
	}

	return body
}
