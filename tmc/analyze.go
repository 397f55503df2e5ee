package tmc

import (
	"github.com/slowlang/midrw/diag"
	"github.com/slowlang/midrw/ir"
)

// analyze builds the Choice for t, threading the set of this Letrec's
// specialized candidates so Apply sites can recognize a TMC-eligible
// callee.
func (p *pass) analyze(t ir.Term) Choice {
	switch x := t.(type) {
	case ir.Sequence:
		return p.analyzeSequence(x)
	case ir.Ifthenelse:
		return p.analyzeIfthenelse(x)
	case ir.Switch:
		return p.analyzeSwitch(x)
	case ir.Stringswitch:
		return p.analyzeStringswitch(x)
	case ir.Let:
		return p.analyzeLet(x)
	case ir.Letrec:
		return p.analyzeNestedLetrec(x)
	case ir.Staticcatch:
		return p.analyzeStaticcatch(x)
	case ir.Trywith:
		return p.analyzeTrywith(x)
	case ir.Prim:
		if mb, ok := x.Op.(ir.Makeblock); ok {
			return p.analyzeMakeblock(x, mb)
		}
		return returnChoice(p.gen, func() ir.Term { return x })
	case ir.Apply:
		if v, ok := x.Func.(ir.Var); ok {
			if sp, ok := p.spec[v.Name]; ok && len(x.Args) == sp.arity {
				return p.analyzeCall(x, sp)
			}
		}
		if x.Tail {
			p.sink.Warn(diag.Warning{Kind: diag.TMCBreaksTailcall, Loc: x.Loc})
		}
		return returnChoice(p.gen, func() ir.Term { return x })

	default:
		// Var, Const, Function, Send, Assign, For, While, Staticraise: all
		// terminal.
		return returnChoice(p.gen, func() ir.Term { return t })
	}
}

func (p *pass) analyzeSequence(x ir.Sequence) Choice {
	tail := p.analyze(x.Right)
	return Choice{
		Direct: func() ir.Term {
			return ir.Sequence{Left: x.Left, Right: tail.Direct()}
		},
		Code: func(delayed []ConstrFrame, last bool, dst Dest) ir.Term {
			return ir.Sequence{Left: x.Left, Right: tail.Code(delayed, last, dst)}
		},
		HasTMCCalls:    tail.HasTMCCalls,
		BenefitsFromDPS: tail.BenefitsFromDPS,
	}
}

func (p *pass) analyzeIfthenelse(x ir.Ifthenelse) Choice {
	then := p.analyze(x.Then)
	els := p.analyze(x.Else)
	return Choice{
		Direct: func() ir.Term {
			return ir.Ifthenelse{Cond: x.Cond, Then: then.Direct(), Else: els.Direct()}
		},
		// The affinity guard: delayed would otherwise reach both arms
		// unchanged and get folded into an allocation twice, once per arm.
		// Reifying it here, before the branch, keeps that allocation to one
		// copy shared by both arms.
		Code: func(delayed []ConstrFrame, tail bool, dst Dest) ir.Term {
			return foldDelayed(p.gen, delayed, dst, func(d Dest) ir.Term {
				return ir.Ifthenelse{
					Cond: x.Cond,
					Then: then.Code(nil, tail, d),
					Else: els.Code(nil, tail, d),
				}
			})
		},
		HasTMCCalls:     then.HasTMCCalls || els.HasTMCCalls,
		BenefitsFromDPS:  then.BenefitsFromDPS || els.BenefitsFromDPS,
	}
}

func (p *pass) analyzeSwitch(x ir.Switch) Choice {
	consts := make([]Choice, len(x.Consts))
	for i, a := range x.Consts {
		consts[i] = p.analyze(a.Body)
	}
	blocks := make([]Choice, len(x.Blocks))
	for i, a := range x.Blocks {
		blocks[i] = p.analyze(a.Body)
	}
	var def *Choice
	if x.Default != nil {
		c := p.analyze(x.Default)
		def = &c
	}

	has, benefits := false, false
	for _, c := range consts {
		has, benefits = has || c.HasTMCCalls, benefits || c.BenefitsFromDPS
	}
	for _, c := range blocks {
		has, benefits = has || c.HasTMCCalls, benefits || c.BenefitsFromDPS
	}
	if def != nil {
		has, benefits = has || def.HasTMCCalls, benefits || def.BenefitsFromDPS
	}

	build := func(render func(Choice) ir.Term) ir.Term {
		nc := make([]ir.SwitchArm, len(consts))
		for i, c := range consts {
			nc[i] = ir.SwitchArm{Tag: x.Consts[i].Tag, Body: render(c)}
		}
		nb := make([]ir.SwitchArm, len(blocks))
		for i, c := range blocks {
			nb[i] = ir.SwitchArm{Tag: x.Blocks[i].Tag, Body: render(c)}
		}
		out := x
		out.Consts, out.Blocks = nc, nb
		if def != nil {
			out.Default = render(*def)
		}
		return out
	}

	return Choice{
		Direct: func() ir.Term { return build(func(c Choice) ir.Term { return c.Direct() }) },
		// Same affinity guard as Ifthenelse: reify delayed once, before
		// fanning out across however many arms this Switch has, instead of
		// letting every arm fold (and duplicate) it independently.
		Code: func(delayed []ConstrFrame, tail bool, dst Dest) ir.Term {
			return foldDelayed(p.gen, delayed, dst, func(d Dest) ir.Term {
				return build(func(c Choice) ir.Term { return c.Code(nil, tail, d) })
			})
		},
		HasTMCCalls:     has,
		BenefitsFromDPS: benefits,
	}
}

func (p *pass) analyzeStringswitch(x ir.Stringswitch) Choice {
	cases := make([]Choice, len(x.Cases))
	for i, c := range x.Cases {
		cases[i] = p.analyze(c.Body)
	}
	var def *Choice
	if x.Default != nil {
		c := p.analyze(x.Default)
		def = &c
	}

	has, benefits := false, false
	for _, c := range cases {
		has, benefits = has || c.HasTMCCalls, benefits || c.BenefitsFromDPS
	}
	if def != nil {
		has, benefits = has || def.HasTMCCalls, benefits || def.BenefitsFromDPS
	}

	build := func(render func(Choice) ir.Term) ir.Term {
		nc := make([]ir.StringCase, len(cases))
		for i, c := range cases {
			nc[i] = ir.StringCase{Value: x.Cases[i].Value, Body: render(c)}
		}
		out := x
		out.Cases = nc
		if def != nil {
			out.Default = render(*def)
		}
		return out
	}

	return Choice{
		Direct: func() ir.Term { return build(func(c Choice) ir.Term { return c.Direct() }) },
		// Same affinity guard as Ifthenelse/Switch.
		Code: func(delayed []ConstrFrame, tail bool, dst Dest) ir.Term {
			return foldDelayed(p.gen, delayed, dst, func(d Dest) ir.Term {
				return build(func(c Choice) ir.Term { return c.Code(nil, tail, d) })
			})
		},
		HasTMCCalls:     has,
		BenefitsFromDPS: benefits,
	}
}

func (p *pass) analyzeLet(x ir.Let) Choice {
	body := p.analyze(x.Body)
	return Choice{
		Direct: func() ir.Term {
			return ir.Let{Kind: x.Kind, Value: x.Value, Id: x.Id, Def: x.Def, Body: body.Direct()}
		},
		Code: func(delayed []ConstrFrame, tail bool, dst Dest) ir.Term {
			return ir.Let{Kind: x.Kind, Value: x.Value, Id: x.Id, Def: x.Def, Body: body.Code(delayed, tail, dst)}
		},
		HasTMCCalls:     body.HasTMCCalls,
		BenefitsFromDPS: body.BenefitsFromDPS,
	}
}

// analyzeNestedLetrec: its own candidates have already been expanded by
// rewriteTerm's bottom-up walk by the time this pass sees it, so it is just
// an ordinary propagating node here.
func (p *pass) analyzeNestedLetrec(x ir.Letrec) Choice {
	body := p.analyze(x.Body)
	return Choice{
		Direct: func() ir.Term {
			return ir.Letrec{Bindings: x.Bindings, Body: body.Direct()}
		},
		Code: func(delayed []ConstrFrame, tail bool, dst Dest) ir.Term {
			return ir.Letrec{Bindings: x.Bindings, Body: body.Code(delayed, tail, dst)}
		},
		HasTMCCalls:     body.HasTMCCalls,
		BenefitsFromDPS: body.BenefitsFromDPS,
	}
}

func (p *pass) analyzeStaticcatch(x ir.Staticcatch) Choice {
	body := p.analyze(x.Body)
	handler := p.analyze(x.Handler)
	return Choice{
		Direct: func() ir.Term {
			return ir.Staticcatch{Body: body.Direct(), Label: x.Label, Params: x.Params, Handler: handler.Direct()}
		},
		Code: func(delayed []ConstrFrame, tail bool, dst Dest) ir.Term {
			return ir.Staticcatch{
				Body:    body.Code(delayed, tail, dst),
				Label:   x.Label,
				Params:  x.Params,
				Handler: handler.Code(delayed, tail, dst),
			}
		},
		HasTMCCalls:     body.HasTMCCalls || handler.HasTMCCalls,
		BenefitsFromDPS: body.BenefitsFromDPS || handler.BenefitsFromDPS,
	}
}

// analyzeTrywith: the body is not tail (an exception can unwind past it),
// so only its direct form is ever used; the handler alone propagates.
func (p *pass) analyzeTrywith(x ir.Trywith) Choice {
	body := p.analyze(x.Body)
	handler := p.analyze(x.Handler)
	return Choice{
		Direct: func() ir.Term {
			return ir.Trywith{Body: body.Direct(), ExnVar: x.ExnVar, Handler: handler.Direct()}
		},
		Code: func(delayed []ConstrFrame, tail bool, dst Dest) ir.Term {
			return ir.Trywith{Body: body.Direct(), ExnVar: x.ExnVar, Handler: handler.Code(delayed, tail, dst)}
		},
		HasTMCCalls:     handler.HasTMCCalls,
		BenefitsFromDPS: handler.BenefitsFromDPS,
	}
}

// analyzeCall handles a fully applied reference to a specialized sibling.
func (p *pass) analyzeCall(x ir.Apply, sp specialized) Choice {
	return Choice{
		Direct: func() ir.Term { return x },
		Code: func(delayed []ConstrFrame, tail bool, dst Dest) ir.Term {
			return foldDelayed(p.gen, delayed, dst, func(d Dest) ir.Term {
				args := make([]ir.Term, 0, len(x.Args)+2)
				args = append(args, ir.Var{Name: d.Var}, d.Offset)
				args = append(args, x.Args...)
				return ir.Apply{Func: ir.Var{Name: sp.dpsID}, Args: args, Loc: x.Loc, Tail: tail}
			})
		},
		HasTMCCalls:             true,
		BenefitsFromDPS:         true,
		ExplicitTailcallRequest: x.TailcallRequest != nil && *x.TailcallRequest,
	}
}
