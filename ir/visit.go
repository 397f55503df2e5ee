package ir

// Children and Rebuild together are the `shallow_iter` this module's passes
// lean on (the usual "any other node: recurse with shallow_iter" rule): a pass
// only special-cases the node kinds whose semantics it changes and falls
// back to Rebuild(t, mapped(Children(t))) for everything else, instead of a
// fourth copy of a 20-case switch per pass.
//
// Children returns t's immediate Term children, left to right, in the same
// order Rebuild expects them back. It does not descend into Function bodies
// specially — callers that need to track lexical depth (letsimpl) or tail
// position (lift, tmc) do that themselves before recursing into the
// children Children exposes.
func Children(t Term) []Term {
	switch x := t.(type) {
	case Var, Const:
		return nil
	case Apply:
		return append([]Term{x.Func}, x.Args...)
	case Function:
		return []Term{x.Body}
	case Let:
		return []Term{x.Def, x.Body}
	case Letrec:
		cs := make([]Term, 0, len(x.Bindings)+1)
		for _, b := range x.Bindings {
			cs = append(cs, b.Value)
		}
		return append(cs, x.Body)
	case Prim:
		return append([]Term{}, x.Args...)
	case Switch:
		cs := []Term{x.Scrutinee}
		for _, a := range x.Consts {
			cs = append(cs, a.Body)
		}
		for _, a := range x.Blocks {
			cs = append(cs, a.Body)
		}
		if x.Default != nil {
			cs = append(cs, x.Default)
		}
		return cs
	case Stringswitch:
		cs := []Term{x.Scrutinee}
		for _, a := range x.Cases {
			cs = append(cs, a.Body)
		}
		if x.Default != nil {
			cs = append(cs, x.Default)
		}
		return cs
	case Staticraise:
		return append([]Term{}, x.Args...)
	case Staticcatch:
		return []Term{x.Body, x.Handler}
	case Trywith:
		return []Term{x.Body, x.Handler}
	case Ifthenelse:
		return []Term{x.Cond, x.Then, x.Else}
	case Sequence:
		return []Term{x.Left, x.Right}
	case While:
		return []Term{x.Cond, x.Body}
	case For:
		return []Term{x.Low, x.High, x.Body}
	case Assign:
		return []Term{x.Value}
	case Send:
		cs := []Term{x.Obj, x.Method}
		return append(cs, x.Args...)
	case Event:
		return []Term{x.Sub}
	case Ifused:
		return []Term{x.Sub}
	default:
		panic(unhandled(t))
	}
}

// Rebuild reconstructs t with its children replaced by cs, in the order
// Children(t) produced them. Every other field (tags, labels, locations,
// attributes) is copied from t unchanged.
func Rebuild(t Term, cs []Term) Term {
	switch x := t.(type) {
	case Var:
		return x
	case Const:
		return x
	case Apply:
		x.Func = cs[0]
		x.Args = append([]Term{}, cs[1:]...)
		return x
	case Function:
		x.Body = cs[0]
		return x
	case Let:
		x.Def, x.Body = cs[0], cs[1]
		return x
	case Letrec:
		nb := make([]LetrecBinding, len(x.Bindings))
		for i, b := range x.Bindings {
			nb[i] = LetrecBinding{Id: b.Id, Value: cs[i]}
		}
		x.Bindings = nb
		x.Body = cs[len(cs)-1]
		return x
	case Prim:
		x.Args = append([]Term{}, cs...)
		return x
	case Switch:
		i := 1
		x.Scrutinee = cs[0]
		consts := make([]SwitchArm, len(x.Consts))
		for j, a := range x.Consts {
			consts[j] = SwitchArm{Tag: a.Tag, Body: cs[i]}
			i++
		}
		blocks := make([]SwitchArm, len(x.Blocks))
		for j, a := range x.Blocks {
			blocks[j] = SwitchArm{Tag: a.Tag, Body: cs[i]}
			i++
		}
		x.Consts, x.Blocks = consts, blocks
		if x.Default != nil {
			x.Default = cs[i]
		}
		return x
	case Stringswitch:
		i := 1
		x.Scrutinee = cs[0]
		cases := make([]StringCase, len(x.Cases))
		for j, a := range x.Cases {
			cases[j] = StringCase{Value: a.Value, Body: cs[i]}
			i++
		}
		x.Cases = cases
		if x.Default != nil {
			x.Default = cs[i]
		}
		return x
	case Staticraise:
		x.Args = append([]Term{}, cs...)
		return x
	case Staticcatch:
		x.Body, x.Handler = cs[0], cs[1]
		return x
	case Trywith:
		x.Body, x.Handler = cs[0], cs[1]
		return x
	case Ifthenelse:
		x.Cond, x.Then, x.Else = cs[0], cs[1], cs[2]
		return x
	case Sequence:
		x.Left, x.Right = cs[0], cs[1]
		return x
	case While:
		x.Cond, x.Body = cs[0], cs[1]
		return x
	case For:
		x.Low, x.High, x.Body = cs[0], cs[1], cs[2]
		return x
	case Assign:
		x.Value = cs[0]
		return x
	case Send:
		x.Obj, x.Method = cs[0], cs[1]
		x.Args = append([]Term{}, cs[2:]...)
		return x
	case Event:
		x.Sub = cs[0]
		return x
	case Ifused:
		x.Sub = cs[0]
		return x
	default:
		panic(unhandled(t))
	}
}

// Map applies f to every immediate child of t and rebuilds t from the
// results — the common case of Rebuild(t, mapped-Children(t)) spelled out
// as one call.
func Map(t Term, f func(Term) Term) Term {
	cs := Children(t)
	out := make([]Term, len(cs))
	for i, c := range cs {
		out[i] = f(c)
	}
	return Rebuild(t, out)
}
