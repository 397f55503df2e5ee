package ir

// FreeVars returns the set of identifiers t references without binding.
// Every pass in this module must preserve FreeVars(output) ⊆ FreeVars(input)
// (a universal invariant every pass preserves). No test in this module
// calls FreeVars.
func FreeVars(t Term) map[Ident]struct{} {
	fv := make(map[Ident]struct{})
	collectFreeVars(t, fv)
	return fv
}

func collectFreeVars(t Term, fv map[Ident]struct{}) {
	switch x := t.(type) {
	case Var:
		fv[x.Name] = struct{}{}
	case Const:
	case Function:
		sub := make(map[Ident]struct{})
		collectFreeVars(x.Body, sub)
		for _, p := range x.Params {
			delete(sub, p.Id)
		}
		mergeInto(fv, sub)
	case Let:
		collectFreeVars(x.Def, fv)
		sub := make(map[Ident]struct{})
		collectFreeVars(x.Body, sub)
		delete(sub, x.Id)
		mergeInto(fv, sub)
	case Letrec:
		sub := make(map[Ident]struct{})
		for _, b := range x.Bindings {
			collectFreeVars(b.Value, sub)
		}
		collectFreeVars(x.Body, sub)
		for _, b := range x.Bindings {
			delete(sub, b.Id)
		}
		mergeInto(fv, sub)
	case Staticcatch:
		collectFreeVars(x.Body, fv)
		sub := make(map[Ident]struct{})
		collectFreeVars(x.Handler, sub)
		for _, p := range x.Params {
			delete(sub, p.Id)
		}
		mergeInto(fv, sub)
	case Trywith:
		collectFreeVars(x.Body, fv)
		sub := make(map[Ident]struct{})
		collectFreeVars(x.Handler, sub)
		delete(sub, x.ExnVar)
		mergeInto(fv, sub)
	case For:
		collectFreeVars(x.Low, fv)
		collectFreeVars(x.High, fv)
		sub := make(map[Ident]struct{})
		collectFreeVars(x.Body, sub)
		delete(sub, x.Var)
		mergeInto(fv, sub)
	case Assign:
		fv[x.Var] = struct{}{}
		collectFreeVars(x.Value, fv)
	case Ifused:
		fv[x.Var] = struct{}{}
		collectFreeVars(x.Sub, fv)
	default:
		for _, c := range Children(t) {
			collectFreeVars(c, fv)
		}
	}
}

func mergeInto(dst, src map[Ident]struct{}) {
	for id := range src {
		dst[id] = struct{}{}
	}
}
