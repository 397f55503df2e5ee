package tmc

import "github.com/slowlang/midrw/ir"

// collectBinders walks every binder position in t so duplicate can build a
// total rename map before alpha-renaming a body that will be spliced into
// two places (a candidate's direct and DPS companions).
func collectBinders(t ir.Term) []ir.Ident {
	var out []ir.Ident
	var walk func(ir.Term)
	walk = func(t ir.Term) {
		switch x := t.(type) {
		case ir.Let:
			out = append(out, x.Id)
		case ir.Letrec:
			for _, b := range x.Bindings {
				out = append(out, b.Id)
			}
		case ir.Function:
			for _, p := range x.Params {
				out = append(out, p.Id)
			}
		case ir.Staticcatch:
			for _, p := range x.Params {
				out = append(out, p.Id)
			}
		case ir.Trywith:
			out = append(out, x.ExnVar)
		case ir.For:
			out = append(out, x.Var)
		}
		for _, c := range ir.Children(t) {
			walk(c)
		}
	}
	walk(t)
	return out
}

// duplicate alpha-renames every binder in t to a fresh identifier, so the
// result can coexist with the original in a sibling body without capture.
func duplicate(gen ir.IdentGen, t ir.Term) ir.Term {
	m := make(map[ir.Ident]ir.Ident)
	for _, id := range collectBinders(t) {
		if _, ok := m[id]; !ok {
			m[id] = gen.Fresh("dup")
		}
	}
	return ir.Rename(m, t)
}
