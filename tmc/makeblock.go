package tmc

import "github.com/slowlang/midrw/ir"

// analyzeMakeblock builds the Choice for a constructor application, TMC's
// central case. Exactly one argument may carry TMC calls; more than one is
// ambiguous unless a single candidate is marked with an explicit tailcall
// request.
func (p *pass) analyzeMakeblock(x ir.Prim, mb ir.Makeblock) Choice {
	choices := make([]Choice, len(x.Args))
	hasTMC := make([]bool, len(x.Args))
	for i, a := range x.Args {
		choices[i] = p.analyze(a)
		hasTMC[i] = choices[i].HasTMCCalls
	}

	bits := ambiguityBits(hasTMC)
	switch bits.Size() {
	case 0:
		return returnChoice(p.gen, func() ir.Term {
			args := make([]ir.Term, len(choices))
			for i, c := range choices {
				args[i] = c.Direct()
			}
			return ir.Prim{Op: mb, Args: args, Loc: x.Loc}
		})

	case 1:
		chosen := -1
		for i, has := range hasTMC {
			if has {
				chosen = i
				break
			}
		}
		return p.makeblockChoice(x, mb, choices, chosen)

	default:
		chosen := -1
		for i, has := range hasTMC {
			if !has {
				continue
			}
			if choices[i].ExplicitTailcallRequest {
				if chosen >= 0 {
					chosen = -1
					break
				}
				chosen = i
			}
		}
		if chosen < 0 {
			panic(&AmbiguousConstructorArgumentsError{Loc: x.Loc})
		}
		return p.makeblockChoice(x, mb, choices, chosen)
	}
}

// makeblockChoice builds the Choice for a Makeblock with exactly one
// TMC-bearing argument at index chosen. Its direct form allocates inline;
// its DPS form pushes a deferred frame and recurses into the chosen
// argument's own Code, having first let-bound every other, non-trivial
// argument so evaluation order is preserved despite deferring the
// allocation itself.
func (p *pass) makeblockChoice(x ir.Prim, mb ir.Makeblock, choices []Choice, chosen int) Choice {
	direct := func() ir.Term {
		args := make([]ir.Term, len(choices))
		for i, c := range choices {
			args[i] = c.Direct()
		}
		return ir.Prim{Op: mb, Args: args, Loc: x.Loc}
	}

	return Choice{
		Direct:          direct,
		HasTMCCalls:     true,
		BenefitsFromDPS: true,
		Code: func(delayed []ConstrFrame, tail bool, dst Dest) ir.Term {
			var binds []ir.Let
			bind := func(c Choice) ir.Term {
				d := c.Direct()
				switch d.(type) {
				case ir.Var, ir.Const:
					return d
				default:
					id := p.gen.Fresh("tmcarg")
					binds = append(binds, ir.Let{Kind: ir.Strict, Id: id, Def: d})
					return ir.Var{Name: id}
				}
			}

			before := make([]ir.Term, chosen)
			for i := 0; i < chosen; i++ {
				before[i] = bind(choices[i])
			}
			after := make([]ir.Term, len(choices)-chosen-1)
			for i := chosen + 1; i < len(choices); i++ {
				after[i-chosen-1] = bind(choices[i])
			}

			frame := ConstrFrame{Tag: mb.Tag, Mutable: mb.Mutable, Shape: mb.Shape, Before: before, After: after, Loc: x.Loc}
			body := choices[chosen].Code(append(delayed, frame), tail, dst)

			for i := len(binds) - 1; i >= 0; i-- {
				b := binds[i]
				b.Body = body
				body = b
			}
			return body
		},
	}
}
