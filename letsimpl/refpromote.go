package letsimpl

import "github.com/slowlang/midrw/ir"

// promote rewrites every occurrence of v in t that reads or writes it
// through the three shapes a single-field mutable block supports —
// Field(0, v), Setfield(0, v, val) and Offsetref(delta, v) — into the
// direct Var/Assign form a flat Variable cell uses instead. Any other
// occurrence of v (escaping into a closure, passed as a plain value, a
// field index other than 0) fails the whole attempt: the caller then keeps
// the original Makeblock-backed binding.
func promote(v ir.Ident, t ir.Term) (ir.Term, bool) {
	switch x := t.(type) {
	case ir.Var:
		if x.Name == v {
			return nil, false
		}
		return x, true

	case ir.Prim:
		switch op := x.Op.(type) {
		case ir.Field:
			if op.Index == 0 && len(x.Args) == 1 {
				if ref, ok := x.Args[0].(ir.Var); ok && ref.Name == v {
					return ir.Var{Name: v}, true
				}
			}

		case ir.Setfield:
			if op.Index == 0 && len(x.Args) == 2 {
				if ref, ok := x.Args[0].(ir.Var); ok && ref.Name == v {
					val, ok := promote(v, x.Args[1])
					if !ok {
						return nil, false
					}
					return ir.Assign{Var: v, Value: val}, true
				}
			}

		case ir.Offsetref:
			if len(x.Args) == 1 {
				if ref, ok := x.Args[0].(ir.Var); ok && ref.Name == v {
					return ir.Assign{
						Var: v,
						Value: ir.Prim{
							Op:   ir.Offsetint{Delta: op.Delta},
							Args: []ir.Term{ir.Var{Name: v}},
						},
					}, true
				}
			}
		}

		args := make([]ir.Term, len(x.Args))
		for i, a := range x.Args {
			na, ok := promote(v, a)
			if !ok {
				return nil, false
			}
			args[i] = na
		}
		x.Args = args
		return x, true

	default:
		cs := ir.Children(t)
		out := make([]ir.Term, len(cs))
		for i, c := range cs {
			nc, ok := promote(v, c)
			if !ok {
				return nil, false
			}
			out[i] = nc
		}
		return ir.Rebuild(t, out), true
	}
}
