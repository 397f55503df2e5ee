package ir

// Rename applies m to every bound and free occurrence of the identifiers it
// maps, rebuilding binder positions (Let/Letrec/Function/Staticcatch/For/
// Trywith) along with every Var/Assign/Ifused reference. Identifiers absent
// from m pass through unchanged.
//
// This is the alpha-renaming collaborator the passes need; it
// backs exitsimpl's handler duplication (§4.1, fresh params per inlined
// Staticraise site) and tmc's `duplicate` of a candidate body into its
// direct and DPS forms (§4.4).
func Rename(m map[Ident]Ident, t Term) Term {
	r := func(id Ident) Ident {
		if n, ok := m[id]; ok {
			return n
		}
		return id
	}

	switch x := t.(type) {
	case Var:
		x.Name = r(x.Name)
		return x
	case Const:
		return x
	case Function:
		params := make([]Param, len(x.Params))
		for i, p := range x.Params {
			params[i] = Param{Id: r(p.Id), Kind: p.Kind}
		}
		x.Params = params
		x.Body = Rename(m, x.Body)
		return x
	case Let:
		x.Id = r(x.Id)
		x.Def = Rename(m, x.Def)
		x.Body = Rename(m, x.Body)
		return x
	case Letrec:
		nb := make([]LetrecBinding, len(x.Bindings))
		for i, b := range x.Bindings {
			nb[i] = LetrecBinding{Id: r(b.Id), Value: Rename(m, b.Value)}
		}
		x.Bindings = nb
		x.Body = Rename(m, x.Body)
		return x
	case Staticcatch:
		x.Body = Rename(m, x.Body)
		params := make([]Param, len(x.Params))
		for i, p := range x.Params {
			params[i] = Param{Id: r(p.Id), Kind: p.Kind}
		}
		x.Params = params
		x.Handler = Rename(m, x.Handler)
		return x
	case Trywith:
		x.Body = Rename(m, x.Body)
		x.ExnVar = r(x.ExnVar)
		x.Handler = Rename(m, x.Handler)
		return x
	case For:
		x.Var = r(x.Var)
		x.Low = Rename(m, x.Low)
		x.High = Rename(m, x.High)
		x.Body = Rename(m, x.Body)
		return x
	case Assign:
		x.Var = r(x.Var)
		x.Value = Rename(m, x.Value)
		return x
	case Ifused:
		x.Var = r(x.Var)
		x.Sub = Rename(m, x.Sub)
		return x
	default:
		return Map(t, func(c Term) Term { return Rename(m, c) })
	}
}
