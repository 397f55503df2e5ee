package exitsimpl

import "github.com/slowlang/midrw/ir"

// simplifyApply beta-reduces a fully-saturated application of an immediate
// Function literal; everything else is rebuilt as-is.
func (p *pass) simplifyApply(x ir.Apply, depth int) ir.Term {
	fn := p.simplify(x.Func, depth)

	args := make([]ir.Term, len(x.Args))
	for i, a := range x.Args {
		args[i] = p.simplify(a, depth)
	}

	if f, ok := fn.(ir.Function); ok {
		switch {
		case f.Conv == ir.Curried && len(f.Params) == len(args):
			return betaReduce(f.Params, f.Body, args)
		case f.Conv == ir.Tupled:
			if fields, ok := tupledFields(f.Params, args); ok {
				return betaReduce(f.Params, f.Body, fields)
			}
		}
	}

	x.Func = fn
	x.Args = args
	return x
}

// tupledFields recognizes Apply(Function{Tupled, params, ...}, [Makeblock(args)]):
// a Tupled function's single logical argument is a constructed tuple, so
// betaReduce must bind each of the block's fields to the matching param
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

// betaReduce binds each param to its argument with a Let cascade, params[0]
// ending up outermost so earlier arguments are evaluated before later ones
// reference them — the same left-to-right evaluation order an Apply's Args
// already had.
func betaReduce(params []ir.Param, body ir.Term, args []ir.Term) ir.Term {
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

// simplifyPrim applies the control-flow-adjacent primitive contractions:
// Revapply/Dirapply fold into Apply (merging into an existing partial
// application's argument list where possible), Identity disappears, and
// Obj_with_tag folds its constant tag into a nested Makeblock.
func (p *pass) simplifyPrim(x ir.Prim, depth int) ir.Term {
	args := make([]ir.Term, len(x.Args))
	for i, a := range x.Args {
		args[i] = p.simplify(a, depth)
	}

	switch x.Op.(type) {
	case ir.Revapply:
		// Revapply(arg, f): apply f to arg.
		return foldApply(args[1], []ir.Term{args[0]}, x.Loc)

	case ir.Dirapply:
		// Dirapply(f, arg): apply f to arg.
		return foldApply(args[0], []ir.Term{args[1]}, x.Loc)

	case ir.Identity:
		return args[0]

	case ir.ObjWithTag:
		if blk, ok := args[1].(ir.Prim); ok {
			if mb, ok := blk.Op.(ir.Makeblock); ok {
				if tag, ok := args[0].(ir.Const); ok {
					if n, ok := tag.Value.(ir.IntLit); ok {
						mb.Tag = int(n)
						blk.Op = mb
						return blk
					}
				}
			}
		}
	}

	x.Args = args
	return x
}

// foldApply builds fn(extra...), merging extra into fn's own Args if fn is
// already an Apply rather than nesting a second call.
func foldApply(fn ir.Term, extra []ir.Term, loc ir.Loc) ir.Term {
	if inner, ok := fn.(ir.Apply); ok {
		inner.Args = append(append([]ir.Term{}, inner.Args...), extra...)
		return inner
	}

	return ir.Apply{Func: fn, Args: extra, Loc: loc}
}
