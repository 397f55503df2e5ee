package lift

import "github.com/slowlang/midrw/ir"

// nonTailR rebuilds a non-tail subterm, wrapping it in a Staticcatch for
// every surviving candidate whose recorded scope is exactly the fresh scope
// this subterm establishes.
func (p *pass) nonTailR(t ir.Term) ir.Term {
	s := p.freshScope()
	r := p.tailR(t, s)
	return p.wrapScope(s, r)
}

func (p *pass) tailR(t ir.Term, scope int) ir.Term {
	switch x := t.(type) {
	case ir.Let:
		if fn, ok := x.Def.(ir.Function); ok {
			if c, ok := p.candidates[x.Id]; ok {
				s := p.freshScope()
				body := p.wrapScope(s, p.tailR(fn.Body, s))

				if !c.invalid {
					// c.fn.Body is what wrapScope splices in as this
					// candidate's Staticcatch handler; it must carry the
					// same escape/tailcall rewriting any other function
					// body gets, not the raw literal.
					c.fn.Body = body
					return p.tailR(x.Body, scope)
				}

				fn.Body = body
				x.Def = fn
				x.Body = p.tailR(x.Body, scope)
				return x
			}
		}
		x.Def = p.nonTailR(x.Def)
		x.Body = p.tailR(x.Body, scope)
		return x

	case ir.Letrec:
		nb := make([]ir.LetrecBinding, len(x.Bindings))
		for i, b := range x.Bindings {
			nb[i] = ir.LetrecBinding{Id: b.Id, Value: p.nonTailR(b.Value)}
		}
		x.Bindings = nb
		x.Body = p.tailR(x.Body, scope)
		return x

	case ir.Apply:
		if v, ok := x.Func.(ir.Var); ok {
			if c, ok := p.candidates[v.Name]; ok {
				// Same scope minting as tail's candidate case: the callee
				// Var gets no scope of its own, only the arguments do.
				args := make([]ir.Term, len(x.Args))
				for i, a := range x.Args {
					args[i] = p.nonTailR(a)
				}
				if !c.invalid {
					return ir.Staticraise{Label: c.label, Args: args}
				}
				x.Args = args
				return x
			}
		}
		x.Func = p.nonTailR(x.Func)
		args := make([]ir.Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = p.nonTailR(a)
		}
		x.Args = args
		return x

	case ir.Ifthenelse:
		x.Cond = p.nonTailR(x.Cond)
		x.Then = p.tailR(x.Then, scope)
		x.Else = p.tailR(x.Else, scope)
		return x

	case ir.Sequence:
		x.Left = p.nonTailR(x.Left)
		x.Right = p.tailR(x.Right, scope)
		return x

	case ir.Switch:
		x.Scrutinee = p.nonTailR(x.Scrutinee)
		consts := make([]ir.SwitchArm, len(x.Consts))
		for i, a := range x.Consts {
			consts[i] = ir.SwitchArm{Tag: a.Tag, Body: p.tailR(a.Body, scope)}
		}
		blocks := make([]ir.SwitchArm, len(x.Blocks))
		for i, a := range x.Blocks {
			blocks[i] = ir.SwitchArm{Tag: a.Tag, Body: p.tailR(a.Body, scope)}
		}
		x.Consts, x.Blocks = consts, blocks
		if x.Default != nil {
			x.Default = p.tailR(x.Default, scope)
		}
		return x

	case ir.Stringswitch:
		x.Scrutinee = p.nonTailR(x.Scrutinee)
		cases := make([]ir.StringCase, len(x.Cases))
		for i, c := range x.Cases {
			cases[i] = ir.StringCase{Value: c.Value, Body: p.tailR(c.Body, scope)}
		}
		x.Cases = cases
		if x.Default != nil {
			x.Default = p.tailR(x.Default, scope)
		}
		return x

	case ir.Staticcatch:
		x.Body = p.tailR(x.Body, scope)
		x.Handler = p.tailR(x.Handler, scope)
		return x

	case ir.Trywith:
		x.Body = p.nonTailR(x.Body)
		x.Handler = p.tailR(x.Handler, scope)
		return x

	case ir.Function:
		s := p.freshScope()
		x.Body = p.wrapScope(s, p.tailR(x.Body, s))
		return x

	case ir.While:
		x.Cond = p.nonTailR(x.Cond)
		x.Body = p.nonTailR(x.Body)
		return x

	case ir.For:
		x.Low = p.nonTailR(x.Low)
		x.High = p.nonTailR(x.High)
		x.Body = p.nonTailR(x.Body)
		return x

	case ir.Event:
		x.Sub = p.tailR(x.Sub, scope)
		return x

	case ir.Ifused:
		x.Sub = p.tailR(x.Sub, scope)
		return x

	default:
		return ir.Map(t, func(c ir.Term) ir.Term { return p.nonTailR(c) })
	}
}

// wrapScope installs a Staticcatch around r for every surviving candidate
// whose recorded scope is s, in discovery order.
func (p *pass) wrapScope(s int, r ir.Term) ir.Term {
	for _, id := range p.order {
		c := p.candidates[id]
		if c.invalid || c.scope != s {
			continue
		}
		r = ir.Staticcatch{Body: r, Label: c.label, Params: c.fn.Params, Handler: c.fn.Body}
	}
	return r
}
